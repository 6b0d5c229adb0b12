package cli

import (
	"github.com/spf13/cobra"

	"github.com/Pavlentiyys/digitalFest/internal/assets"
	"github.com/Pavlentiyys/digitalFest/internal/jobs"
	"github.com/Pavlentiyys/digitalFest/internal/worker"
)

func newAssetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Warm and inspect the AR asset bundle",
	}
	cmd.AddCommand(newAssetsPrefetchCmd())
	cmd.AddCommand(newAssetsProbeCmd())
	return cmd
}

func newAssetsPrefetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prefetch [url...]",
		Short: "Fetch the AR libraries (and any extra URLs) in the background pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			pool := worker.NewPool(a.cfg.PrefetchWorkers, a.cfg.PrefetchQueue)
			pool.Start(ctx)

			queue := jobs.NewWorkerQueue(pool, a.loader)
			if err := queue.EnqueueARWarmup(); err != nil {
				return err
			}
			if len(args) > 0 {
				if err := queue.EnqueuePrefetch(args...); err != nil {
					return err
				}
			}

			// Stop drains the queue before returning.
			pool.Stop()
			cmd.Println("prefetch finished")
			return nil
		},
	}
}

func newAssetsProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check which AR libraries and marker targets are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.loader.EnsureARBundle(ctx); err != nil {
				return err
			}
			for _, name := range []string{assets.LibThree, assets.LibMindAR} {
				if lib, ok := a.loader.Registry().Lookup(name); ok {
					cmd.Printf("library %s: %s\n", name, lib.URL)
				}
			}

			target := a.loader.FindTargetPath(ctx)
			cmd.Printf("marker target: %s\n", target)
			return nil
		},
	}
}
