package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Pavlentiyys/digitalFest/internal/assethost"
)

func newServeAssetsCmd() *cobra.Command {
	var spaFallback bool

	cmd := &cobra.Command{
		Use:   "serve-assets",
		Short: "Serve the AR bundle (libraries, marker targets) over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := assethost.New(a.cfg.AssetHostAddr, a.cfg.BundleDir, spaFallback)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().BoolVar(&spaFallback, "spa-fallback", false, "serve index.html for unknown paths instead of 404")
	return cmd
}
