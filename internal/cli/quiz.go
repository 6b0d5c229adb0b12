package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Pavlentiyys/digitalFest/internal/quiz"
)

func newQuizCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quiz",
		Short: "Take the event quiz interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			engine := quiz.NewEngine(a.gw, a.store)
			if err := engine.Start(ctx); err != nil {
				return err
			}
			cmd.Printf("%d questions, %s on the clock. Answer with a number, ", len(engine.Questions()), quiz.Limit)
			cmd.Println("'n'/'p' to move, 'submit' to finish, 'q' to abandon.")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for engine.State() == quiz.InProgress {
				printQuestion(cmd, engine)
				cmd.Printf("[%s left] > ", engine.Remaining().Round(time.Second))

				if !scanner.Scan() {
					break
				}
				engine.Tick(ctx)
				if engine.State() != quiz.InProgress {
					cmd.Println("time is up, answers were submitted automatically")
					break
				}

				switch input := strings.TrimSpace(scanner.Text()); input {
				case "q":
					cmd.Println("attempt abandoned")
					return nil
				case "n":
					engine.Next()
				case "p":
					engine.Prev()
				case "submit":
					if err := engine.Submit(ctx); err != nil {
						cmd.Printf("submit failed: %v (your answers are kept, try again)\n", err)
					}
				default:
					if err := selectByNumber(engine, input); err != nil {
						cmd.Printf("%v\n", err)
					} else if !engine.IsLast() {
						engine.Next()
					}
				}
			}

			return finishQuiz(cmd, a, engine)
		},
	}
}

func printQuestion(cmd *cobra.Command, engine *quiz.Engine) {
	q, ok := engine.Current()
	if !ok {
		return
	}
	cmd.Printf("\nQuestion %d/%d: %s\n", engine.Index()+1, len(engine.Questions()), q.Text)
	selected, _ := engine.Selected()
	for i, ans := range q.Answers {
		mark := " "
		if ans.ID == selected {
			mark = "*"
		}
		cmd.Printf(" %s %d) %s\n", mark, i+1, ans.Text)
	}
}

func selectByNumber(engine *quiz.Engine, input string) error {
	n, err := strconv.Atoi(input)
	if err != nil {
		return fmt.Errorf("unknown command %q", input)
	}
	q, ok := engine.Current()
	if !ok || n < 1 || n > len(q.Answers) {
		return fmt.Errorf("pick an answer between 1 and %d", len(q.Answers))
	}
	return engine.Select(q.Answers[n-1].ID)
}

func finishQuiz(cmd *cobra.Command, a *app, engine *quiz.Engine) error {
	result := engine.Result()
	if result == nil {
		return nil
	}

	if result.Score == nil {
		cmd.Printf("quiz completed: %s\n", result.Message)
		return nil
	}

	score := result.Score
	cmd.Printf("\nCorrect: %d/%d\n", score.Correct, score.Total)
	cmd.Printf("Points: %d  Time bonus: %d (%d%% efficiency)\n", score.RawPoints, score.BonusPoints, score.TimeEfficiency)
	cmd.Printf("Final score: %d\n", score.FinalScore)

	if !engine.CanClaim() {
		return nil
	}
	res, err := engine.ClaimReward(cmd.Context(), a.ledger)
	if err != nil {
		cmd.Printf("reward claim failed: %v\n", err)
		return nil
	}
	if res.AlreadyClaimed {
		cmd.Println("quiz reward was already claimed")
	} else {
		cmd.Printf("claimed %d coins, balance is now %d\n", score.FinalScore, res.Coins)
	}
	return nil
}
