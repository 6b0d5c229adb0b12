package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Pavlentiyys/digitalFest/internal/leaderboard"
	"github.com/Pavlentiyys/digitalFest/internal/repository"
	"github.com/Pavlentiyys/digitalFest/internal/repository/sqlite"
)

func newLeaderboardCmd() *cobra.Command {
	var (
		group string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the coin standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			svc := leaderboard.NewService(a.gw, sqlite.NewLeaderboardCache(a.database.DB))
			if !svc.RatingOpen() {
				cmd.Println("the rating opens at 14:00, check back later")
				return nil
			}

			students, err := svc.Fetch(ctx, repository.StudentFilter{Group: group, Limit: limit})
			if err != nil {
				return err
			}
			if len(students) == 0 {
				cmd.Println("no standings yet")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tUSERNAME\tGROUP\tCOINS")
			for i, s := range students {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", i+1, s.Username, s.Group, s.Coins)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if id := a.store.TelegramID(); id != "" {
				if pos := leaderboard.Position(students, id); pos > 0 {
					cmd.Printf("\nyou are #%d\n", pos)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "only show one group")
	cmd.Flags().IntVar(&limit, "limit", 0, "cap the number of rows (0 means all)")
	return cmd
}
