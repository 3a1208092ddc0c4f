package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/importer"
)

func newImportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import question banks from .xlsx or .csv files",
		Long: "Import one bank per file. The first row is a header; columns are:\n" +
			"question, option A-D, answer, category, difficulty, explanation, type.\n" +
			"Run `quizzy template` for a sample workbook.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			if name != "" && len(args) > 1 {
				return fmt.Errorf("--name can only be used with a single file")
			}

			e, err := openEnv(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			for _, path := range args {
				res, err := importer.ParseFile(path)
				if err != nil {
					return err
				}
				for _, issue := range res.Issues {
					fmt.Fprintf(errOut, "warning: %s: %s\n", path, issue)
				}

				bankName := name
				if bankName == "" {
					bankName = importer.BankName(path)
				}
				bank, err := importer.NewBank(bankName, res.Questions, e.repo.Now())
				if err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}
				if err := e.repo.SaveBank(cmd.Context(), *bank); err != nil {
					return err
				}
				fmt.Fprintf(out, "Imported %d questions into %q (%s)", len(bank.Questions), bank.Name, bank.ID)
				if n := len(res.Issues); n > 0 {
					fmt.Fprintf(out, ", skipped %d rows", n)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	c.Flags().String("name", "", "Bank name (defaults to the file name)")
	return c
}
