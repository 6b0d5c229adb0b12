package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Pavlentiyys/digitalFest/internal/models"
	"github.com/Pavlentiyys/digitalFest/internal/rewards"
)

// featureAliases maps the short names used on the command line to the
// feature flags the API knows.
var featureAliases = map[string]models.Feature{
	"transcribe": models.FeatureTranscribed,
	"chat":       models.FeatureTexted,
	"image":      models.FeatureImageGeneration,
	"ar":         models.FeatureAr,
	"quiz":       models.FeatureQuiz,
}

func parseFeature(name string) (models.Feature, error) {
	if f, ok := featureAliases[strings.ToLower(name)]; ok {
		return f, nil
	}
	f := models.Feature(name)
	if f.Valid() {
		return f, nil
	}
	return "", fmt.Errorf("unknown activity %q (one of: transcribe, chat, image, ar, quiz)", name)
}

func newClaimCmd() *cobra.Command {
	var amount int

	cmd := &cobra.Command{
		Use:   "claim <activity>",
		Short: "Claim the one-time coin reward for a completed activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			feature, err := parseFeature(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.ledger.Claim(ctx, feature, amount)
			if err != nil {
				return err
			}
			if res.AlreadyClaimed {
				cmd.Printf("%s was already claimed, balance stays at %d\n", feature.Label(), res.Coins)
				return nil
			}
			cmd.Printf("claimed %d coins for %s, balance is now %d\n", amount, feature.Label(), res.Coins)
			return nil
		},
	}

	cmd.Flags().IntVar(&amount, "amount", rewards.DefaultAmount, "coins to award")
	return cmd
}
