package jobs

import (
	"github.com/Pavlentiyys/digitalFest/internal/assets"
	"github.com/Pavlentiyys/digitalFest/internal/worker"
)

// WorkerQueue implements AssetQueue on top of the worker pool.
type WorkerQueue struct {
	pool   *worker.Pool
	loader *assets.Loader
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, loader *assets.Loader) AssetQueue {
	return &WorkerQueue{pool: pool, loader: loader}
}

func (q *WorkerQueue) EnqueuePrefetch(urls ...string) error {
	q.pool.Submit(&worker.PrefetchJob{Loader: q.loader, URLs: urls})
	return nil
}

func (q *WorkerQueue) EnqueueARWarmup() error {
	q.pool.Submit(&worker.ARWarmupJob{Loader: q.loader})
	return nil
}
