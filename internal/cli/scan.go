package cli

import (
	"github.com/spf13/cobra"

	"github.com/Pavlentiyys/digitalFest/internal/models"
	"github.com/Pavlentiyys/digitalFest/internal/rewards"
	"github.com/Pavlentiyys/digitalFest/internal/scan"
)

func newScanCmd() *cobra.Command {
	var claim bool

	cmd := &cobra.Command{
		Use:   "scan <payload>",
		Short: "Classify a decoded QR payload the way the in-app scanner would",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			dispatcher, err := scan.NewDispatcher(a.cfg.AppOrigin, scan.NewRedirectResolver())
			if err != nil {
				return err
			}

			nav, err := dispatcher.Dispatch(ctx, args[0])
			if err != nil {
				return err
			}

			switch nav.Kind {
			case scan.KindInternalPath:
				cmd.Printf("internal navigation: %s\n", nav.Target)
			case scan.KindExternalURL:
				cmd.Printf("external link: %s\n", nav.Target)
			case scan.KindReward:
				cmd.Printf("reward code for %s\n", nav.Feature.Label())
				if claim {
					return claimScanned(cmd, a, nav.Feature)
				}
			}
			if nav.Final != nav.Raw {
				cmd.Printf("(resolved from %s)\n", nav.Raw)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&claim, "claim", false, "claim the reward when the code is a reward code")
	return cmd
}

func claimScanned(cmd *cobra.Command, a *app, feature models.Feature) error {
	res, err := a.ledger.Claim(cmd.Context(), feature, rewards.DefaultAmount)
	if err != nil {
		return err
	}
	if res.AlreadyClaimed {
		cmd.Printf("%s was already claimed\n", feature.Label())
		return nil
	}
	cmd.Printf("claimed %d coins, balance is now %d\n", rewards.DefaultAmount, res.Coins)
	return nil
}
