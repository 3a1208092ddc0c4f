package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/explain"
	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/store"
)

func newExplainCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "explain QUESTION_ID",
		Short: "Show or generate the explanation for a question",
		Long: "Print the authored explanation for a question, or a cached one.\n" +
			"When neither exists and an LLM provider is configured, one is generated and cached.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			q, bankName, err := findQuestion(cmd, e.repo, args[0])
			if err != nil {
				return err
			}
			svc, err := e.explainer(ctx)
			if err != nil {
				return err
			}

			regenerate, _ := cmd.Flags().GetBool("regenerate")
			var (
				text string
				src  explain.Source
			)
			if regenerate {
				if !svc.CanGenerate() {
					return errors.New("--regenerate needs an LLM provider (set QUIZZY_LLM_PROVIDER and its API key)")
				}
				text, err = svc.Generate(ctx, q, nil)
				src = explain.SourceGenerated
			} else {
				text, src, err = svc.Lookup(ctx, q)
				if err == nil && src == explain.SourceNone {
					if !svc.CanGenerate() {
						return fmt.Errorf("no explanation for %s; configure an LLM provider to generate one", q.ID)
					}
					text, src, err = svc.Explain(ctx, q, nil)
				}
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, q.Text)
			fmt.Fprintf(out, "Bank: %s · Answer: %s · Source: %s\n\n", bankName, describeAnswer(q, q.CorrectAnswer), src)
			fmt.Fprintln(out, text)
			return nil
		},
	}
	c.Flags().Bool("regenerate", false, "Generate a fresh explanation even if one is cached")
	return c
}

func findQuestion(cmd *cobra.Command, repo *store.Repo, id string) (quiz.Question, string, error) {
	banks, err := repo.Banks(cmd.Context())
	if err != nil {
		return quiz.Question{}, "", err
	}
	for i := range banks {
		if q, ok := banks[i].Question(id); ok {
			return q, banks[i].Name, nil
		}
	}
	return quiz.Question{}, "", fmt.Errorf("question %q not found in any bank", id)
}
