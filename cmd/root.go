package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/config"
	"github.com/abhisek/quizzy/internal/explain"
	"github.com/abhisek/quizzy/internal/llm"
	"github.com/abhisek/quizzy/internal/store"
)

// NewRootCmd builds the quizzy command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "quizzy",
		Short: "Terminal quiz trainer",
		Long: "Quizzy: practice imported question banks, take timed exams and track progress.\n\n" +
			"Run without a subcommand to open the interactive app.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd)
		},
	}

	root.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZZY_DB env var)")
	root.PersistentFlags().String("env-file", ".env", "Optional dotenv file with QUIZZY_* settings")

	root.AddCommand(
		newImportCmd(),
		newTemplateCmd(),
		newBanksCmd(),
		newStatsCmd(),
		newWrongCmd(),
		newFavoritesCmd(),
		newExplainCmd(),
		newResetCmd(),
		newVersionCmd(),
	)
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

// env is what every data command works with.
type env struct {
	cfg    config.Config
	store  *store.Store
	repo   *store.Repo
	llmLog *os.File
}

// openEnv loads configuration and opens the database. Store warnings go to
// warn; pass nil to only collect them.
func openEnv(cmd *cobra.Command, warn io.Writer) (*env, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	cfg.DBPath = dbPath

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	hook := func(err error) { fmt.Fprintf(warn, "warning: %v\n", err) }
	if warn == nil {
		hook = nil
	}
	return &env{
		cfg:   cfg,
		store: st,
		repo:  store.NewRepo(st, store.WithWarningHook(hook)),
	}, nil
}

func (e *env) Close() error {
	if e.llmLog != nil {
		e.llmLog.Close()
	}
	return e.store.Close()
}

// explainer builds the explanation service. A missing LLM configuration is
// not an error: the service then serves authored and cached explanations
// only.
func (e *env) explainer(ctx context.Context) (*explain.Service, error) {
	var logW io.Writer
	if e.cfg.LLMLog != "" {
		f, err := os.OpenFile(e.cfg.LLMLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open LLM log: %w", err)
		}
		e.llmLog = f
		logW = f
	}

	provider, err := llm.New(ctx, e.cfg.LLM, logW)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		provider = nil
	case err != nil:
		return nil, err
	}
	return explain.NewService(provider, e.repo, explain.DefaultConfig()), nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZZY_DB (environment or dotenv file), then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
