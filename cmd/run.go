package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/app"
	"github.com/abhisek/quizzy/internal/explain"
	"github.com/abhisek/quizzy/internal/screens"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	// Store warnings are shown inside the app; writing them to stderr would
	// corrupt the screen.
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	explainer, err := e.explainer(cmd.Context())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "LLM provider not configured:", err)
		fmt.Fprintln(cmd.ErrOrStderr(), "Generated explanations will be unavailable.")
		explainer = explain.NewService(nil, e.repo, explain.DefaultConfig())
	}

	return app.Run(screens.Deps{
		Repo:      e.repo,
		Explainer: explainer,
		Config:    e.cfg,
	})
}
