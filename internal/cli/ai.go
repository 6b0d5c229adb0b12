package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Pavlentiyys/digitalFest/internal/aitools"
	"github.com/Pavlentiyys/digitalFest/internal/models"
	"github.com/Pavlentiyys/digitalFest/internal/rewards"
)

func newAICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Talk to the event's AI endpoints",
	}
	cmd.AddCommand(newAIChatCmd())
	cmd.AddCommand(newAITranscribeCmd())
	cmd.AddCommand(newAIImageCmd())
	return cmd
}

func newAIChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the study mentor",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			svc := aitools.NewService(a.gw, a.store)
			conv := aitools.NewConversation()
			cmd.Println("mentor chat, empty line to quit")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				cmd.Print("> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					return nil
				}
				reply, err := svc.Chat(ctx, conv, text)
				if err != nil {
					cmd.Printf("request failed: %v (your message is kept, send again to retry)\n", err)
					continue
				}
				cmd.Println(reply)
				claimAIReward(cmd, a, models.FeatureTexted)
			}
		},
	}
}

func newAITranscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Turn a recorded audio file into text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			svc := aitools.NewService(a.gw, a.store)
			res, err := svc.Transcribe(ctx, filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			cmd.Println(res.Text)
			if res.Message != "" {
				cmd.Println(res.Message)
			}
			claimAIReward(cmd, a, models.FeatureTranscribed)
			return nil
		},
	}
}

func newAIImageCmd() *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "image <prompt>",
		Short: "Generate an image from a text prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			svc := aitools.NewService(a.gw, a.store)
			res, err := svc.GenerateImage(ctx, strings.Join(args, " "), width, height)
			if err != nil {
				return err
			}
			cmd.Println(res.ImageURL)
			if res.Message != "" {
				cmd.Println(res.Message)
			}
			claimAIReward(cmd, a, models.FeatureImageGeneration)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", aitools.DefaultImageWidth, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", aitools.DefaultImageHeight, "image height in pixels")
	return cmd
}

// claimAIReward credits the one-time coins for a first successful use.
// The tool already did its job, so a failed claim is reported, not returned.
func claimAIReward(cmd *cobra.Command, a *app, feature models.Feature) {
	res, err := a.ledger.Claim(cmd.Context(), feature, rewards.DefaultAmount)
	if err != nil {
		cmd.Printf("reward claim failed: %v (use 'claim' to retry)\n", err)
		return
	}
	if !res.AlreadyClaimed {
		cmd.Printf("first use of %s: +%d coins, balance is now %d\n", feature.Label(), rewards.DefaultAmount, res.Coins)
	}
}
