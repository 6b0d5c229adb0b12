package worker

import (
	"context"

	"github.com/Pavlentiyys/digitalFest/internal/assets"
	"github.com/Pavlentiyys/digitalFest/internal/logger"
)

// PrefetchJob warms the asset cache for a list of URLs so the interactive
// flows hit already-loaded entries. Individual failures are logged and
// skipped; a partial warmup is still a warmup.
type PrefetchJob struct {
	Loader *assets.Loader
	URLs   []string
}

func (j *PrefetchJob) Name() string { return "prefetch_assets" }

func (j *PrefetchJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	var failed int
	for _, url := range j.URLs {
		if err := j.Loader.LoadScript(ctx, url); err != nil {
			log.Warn("prefetch skipped %s: %v", url, err)
			failed++
		}
	}
	log.Info("prefetched %d/%d assets", len(j.URLs)-failed, len(j.URLs))
	return nil
}

// ARWarmupJob loads the whole AR runtime and resolves the tracking target
// in the background, so opening the AR view later starts instantly.
type ARWarmupJob struct {
	Loader *assets.Loader
}

func (j *ARWarmupJob) Name() string { return "ar_warmup" }

func (j *ARWarmupJob) Run(ctx context.Context) error {
	if err := j.Loader.EnsureARBundle(ctx); err != nil {
		return err
	}
	target := j.Loader.FindTargetPath(ctx)
	logger.FromContext(ctx).Debug("AR warmup resolved target %s", target)
	return nil
}
