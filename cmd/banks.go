package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newBanksCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "banks",
		Short: "List question banks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			banks, err := e.repo.Banks(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(banks) == 0 {
				fmt.Fprintln(out, "No question banks. Import one with `quizzy import FILE`.")
				return nil
			}

			fmt.Fprintf(out, "%-36s  %-30s  %9s  %s\n", "ID", "Name", "Questions", "Imported")
			fmt.Fprintln(out, strings.Repeat("─", 96))
			for _, b := range banks {
				fmt.Fprintf(out, "%-36s  %-30s  %9d  %s\n",
					b.ID, truncate(b.Name, 30), len(b.Questions),
					b.CreatedAt.Time().Local().Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(out, "\n%d banks\n", len(banks))
			return nil
		},
	}
	c.AddCommand(newBanksDeleteCmd())
	return c
}

func newBanksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a question bank (answer history is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			bank, err := e.repo.Bank(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := e.repo.DeleteBank(cmd.Context(), bank.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q (%d questions)\n", bank.Name, len(bank.Questions))
			return nil
		},
	}
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
