package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/stats"
)

func newStatsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "stats",
		Short: "Show learning statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			days, _ := cmd.Flags().GetInt("days")
			if days <= 0 {
				days = e.cfg.RecentDays
			}
			return printStats(cmd, stats.New(e.repo), days)
		},
	}
	c.Flags().Int("days", 0, "Number of daily records to show (defaults to QUIZZY_RECENT_DAYS)")
	return c
}

func printStats(cmd *cobra.Command, agg *stats.Aggregator, days int) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	ov, err := agg.Overview(ctx)
	if err != nil {
		return err
	}
	today, hasToday, err := agg.Today(ctx)
	if err != nil {
		return err
	}
	recent, err := agg.Recent(ctx, days)
	if err != nil {
		return err
	}
	banks, err := agg.AllBankStats(ctx)
	if err != nil {
		return err
	}
	exams, err := agg.ExamHistory(ctx, 5)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Overview")
	fmt.Fprintln(out, strings.Repeat("─", 40))
	fmt.Fprintf(out, "  Banks:       %d\n", ov.Banks)
	fmt.Fprintf(out, "  Questions:   %d\n", ov.TotalQuestions)
	fmt.Fprintf(out, "  Answered:    %d\n", ov.Answered)
	fmt.Fprintf(out, "  Attempts:    %d (%d correct, %d wrong)\n", ov.Attempts, ov.Correct, ov.Wrong)
	fmt.Fprintf(out, "  Accuracy:    %s\n", percent(ov.Accuracy, ov.Attempts))
	fmt.Fprintf(out, "  Favorites:   %d\n", ov.Favorites)

	fmt.Fprintln(out)
	if hasToday {
		fmt.Fprintf(out, "Today: %d answered, %d correct, %s accuracy\n",
			today.QuestionsAnswered, today.CorrectAnswers, dailyAccuracy(today))
	} else {
		fmt.Fprintln(out, "Today: no activity")
	}

	if len(recent) > 0 {
		fmt.Fprintf(out, "\nLast %d days\n", days)
		fmt.Fprintf(out, "  %-10s  %8s  %7s  %8s\n", "Date", "Answered", "Correct", "Accuracy")
		fmt.Fprintln(out, "  "+strings.Repeat("─", 40))
		for _, r := range recent {
			fmt.Fprintf(out, "  %-10s  %8d  %7d  %8s\n", r.Date, r.QuestionsAnswered, r.CorrectAnswers, dailyAccuracy(r))
		}
	}

	if len(banks) > 0 {
		fmt.Fprintln(out, "\nBanks")
		fmt.Fprintf(out, "  %-30s  %9s  %8s  %8s  %6s\n", "Name", "Questions", "Answered", "Accuracy", "Review")
		fmt.Fprintln(out, "  "+strings.Repeat("─", 71))
		for _, b := range banks {
			fmt.Fprintf(out, "  %-30s  %9d  %8d  %8s  %6d\n",
				truncate(b.Name, 30), b.TotalQuestions, b.Answered, percent(b.Accuracy, b.Attempts), b.WrongQuestions)
		}
	}

	if len(exams) > 0 {
		names := make(map[string]string, len(banks))
		for _, b := range banks {
			names[b.BankID] = b.Name
		}
		fmt.Fprintln(out, "\nRecent exams")
		for _, s := range exams {
			printExam(out, s, names)
		}
	}
	return nil
}

func printExam(out io.Writer, s quiz.StudySession, names map[string]string) {
	name, ok := names[s.BankID]
	if !ok {
		name = "(deleted bank)"
	}
	score := "-"
	if s.Score != nil {
		score = fmt.Sprintf("%.1f%%", *s.Score)
	}
	fmt.Fprintf(out, "  %s  %-30s  %3d questions  %6s\n",
		s.StartTime.Time().Local().Format("2006-01-02 15:04"), truncate(name, 30), len(s.Answers), score)
}

func dailyAccuracy(r quiz.DailyRecord) string {
	if r.QuestionsAnswered == 0 {
		return "-"
	}
	return percent(float64(r.CorrectAnswers)/float64(r.QuestionsAnswered), r.QuestionsAnswered)
}

// percent renders an accuracy fraction, or "-" when nothing was attempted.
func percent(acc float64, attempts int) string {
	if attempts == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", acc*100)
}
