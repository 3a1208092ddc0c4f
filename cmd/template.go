package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/importer"
)

const defaultTemplateName = "quizzy-template.xlsx"

func newTemplateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "template [FILE]",
		Short: "Write a sample question workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultTemplateName
			if len(args) == 1 {
				path = args[0]
			}
			if path == "-" {
				return importer.WriteTemplate(cmd.OutOrStdout())
			}

			force, _ := cmd.Flags().GetBool("force")
			flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
			if !force {
				flags |= os.O_EXCL
			}
			f, err := os.OpenFile(path, flags, 0o644)
			if errors.Is(err, fs.ErrExist) {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err != nil {
				return err
			}
			if err := importer.WriteTemplate(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	c.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	return c
}
