package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/stats"
)

func newWrongCmd() *cobra.Command {
	return questionListCmd("wrong", "List questions answered incorrectly at least once",
		"No wrong answers yet.", (*stats.Aggregator).WrongQuestions)
}

func newFavoritesCmd() *cobra.Command {
	return questionListCmd("favorites", "List favorite questions",
		"No favorites yet.", (*stats.Aggregator).Favorites)
}

type listFunc func(*stats.Aggregator, context.Context) (*stats.Resolved, error)

func questionListCmd(use, short, empty string, list listFunc) *cobra.Command {
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := list(stats.New(e.repo), cmd.Context())
			if err != nil {
				return err
			}
			showAnswers, _ := cmd.Flags().GetBool("answers")

			out := cmd.OutOrStdout()
			if len(res.Questions) == 0 && res.Orphans == 0 {
				fmt.Fprintln(out, empty)
				return nil
			}
			for i, ref := range res.Questions {
				fmt.Fprintf(out, "%3d. %s\n", i+1, ref.Question.Text)
				fmt.Fprintf(out, "     %s · %s · %s\n", ref.Question.ID, ref.BankName, ref.Question.Kind.Label())
				if showAnswers {
					fmt.Fprintf(out, "     answer: %s\n", describeAnswer(ref.Question, ref.Question.CorrectAnswer))
				}
			}
			if res.Orphans > 0 {
				fmt.Fprintf(out, "\n%d more from deleted banks\n", res.Orphans)
			}
			return nil
		},
	}
	c.Flags().Bool("answers", false, "Show the correct answer for each question")
	return c
}

// describeAnswer renders an answer as letters followed by the option text.
func describeAnswer(q quiz.Question, a quiz.Answer) string {
	var idx []int
	if i, ok := a.Index(); ok {
		idx = []int{i}
	} else if set, ok := a.Indices(); ok {
		idx = set
	}

	texts := make([]string, 0, len(idx))
	for _, i := range idx {
		if i >= 0 && i < len(q.Options) {
			texts = append(texts, q.Options[i])
		}
	}
	if len(texts) == 0 {
		return a.Letters()
	}
	return a.Letters() + " (" + strings.Join(texts, "; ") + ")"
}
