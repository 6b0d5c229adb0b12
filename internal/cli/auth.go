package cli

import (
	"github.com/spf13/cobra"

	"github.com/Pavlentiyys/digitalFest/internal/models"
	"github.com/Pavlentiyys/digitalFest/internal/session"
)

func newLoginCmd() *cobra.Command {
	var (
		group string
		save  bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange the Telegram init payload for an event identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			payload, err := a.resolveInitData(ctx)
			if err != nil {
				return err
			}

			identity, err := a.store.Login(ctx, payload, group)
			if err != nil {
				return err
			}

			if save {
				if err := a.creds.Set(ctx, session.CredentialName, payload); err != nil {
					return err
				}
			}

			printIdentity(cmd, identity)
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "student group label, e.g. SE-2301")
	cmd.Flags().BoolVar(&save, "save", false, "store the init payload for later invocations")
	_ = cmd.MarkFlagRequired("group")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			a.store.Logout(ctx)
			if err := a.creds.Delete(ctx, session.CredentialName); err != nil {
				return err
			}
			cmd.Println("logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity and reward flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if refresh {
				_ = a.store.RefreshIdentity(ctx)
			}
			identity := a.store.Current()
			if identity == nil {
				cmd.Println("not logged in")
				return nil
			}
			printIdentity(cmd, identity)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-read the identity from the server first")
	return cmd
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the event profile",
	}
	cmd.AddCommand(newProfileUpdateCmd())
	return cmd
}

func newProfileUpdateCmd() *cobra.Command {
	var (
		username string
		group    string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the display name and group",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.UpdateProfile(ctx, username, group); err != nil {
				return err
			}
			printIdentity(cmd, a.store.Current())
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "name", "", "new display name")
	cmd.Flags().StringVar(&group, "group", "", "new group label")
	return cmd
}

func printIdentity(cmd *cobra.Command, identity *models.Identity) {
	cmd.Printf("%s (%s)  coins: %d\n", identity.Username, identity.Group, identity.Coins)
	if identity.AvatarURL != "" {
		cmd.Printf("avatar: %s\n", identity.AvatarURL)
	}
	for _, f := range models.Features() {
		mark := " "
		if identity.Flag(f) {
			mark = "x"
		}
		cmd.Printf("  [%s] %s\n", mark, f.Label())
	}
}
