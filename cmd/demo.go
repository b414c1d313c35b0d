package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magedabdelsalam/ustaz-sub000/internal/content"
	"github.com/magedabdelsalam/ustaz-sub000/internal/engine"
	"github.com/magedabdelsalam/ustaz-sub000/internal/llm"
	"github.com/magedabdelsalam/ustaz-sub000/internal/store"
	"github.com/magedabdelsalam/ustaz-sub000/internal/tutor"
)

var demoCmd = &cobra.Command{
	Use:   "demo [subject]",
	Short: "Run one plan/content/answer exchange against the configured provider",
	Long:  "Generates a lesson plan for a subject, requests one exercise, submits a few answers, and prints the resulting progress. Without an API key the mock provider is used and every call degrades to its deterministic fallback.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject := "Algebra"
		if len(args) > 0 {
			subject = args[0]
		}
		ctx := context.Background()

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		cfg := llm.ConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			fmt.Println("No provider configured, using mock (fallback content only).")
			cfg.Provider = "mock"
		}
		provider, err := llm.NewProvider(ctx, cfg, s.EventRepo())
		if err != nil {
			return fmt.Errorf("create provider: %w", err)
		}

		svc := tutor.NewService(provider, s.SessionRepo())

		if restored, err := svc.RestoreSnapshot(ctx, subject); err != nil {
			return fmt.Errorf("restore session: %w", err)
		} else if restored {
			fmt.Println("Restored previous session.")
		}

		plan, err := svc.EnsurePlan(ctx, subject)
		if err != nil {
			return learnerError(err)
		}
		fmt.Printf("Plan for %s (%d lessons):\n", plan.Subject, len(plan.Lessons))
		for i, l := range plan.Lessons {
			marker := " "
			if i == plan.CurrentLessonIndex {
				marker = ">"
			}
			fmt.Printf(" %s %d. %s: %s\n", marker, i+1, l.Title, l.Description)
		}

		lc, err := svc.NextContent(ctx, subject, content.KindMultipleChoice)
		if err != nil {
			return learnerError(err)
		}
		fmt.Printf("\nGenerated %s content: %s\n", lc.Type, string(lc.Data))

		for _, correct := range []bool{true, true, false, true} {
			p := svc.SubmitAnswer(subject, correct)
			fmt.Printf("Answer recorded: %d/%d correct, review=%v ready=%v\n",
				p.CorrectAnswers, p.TotalAttempts, p.NeedsReview, p.ReadyForNext)
		}
		fmt.Printf("State: %s\n", svc.State(subject))

		if err := svc.SaveSnapshot(ctx, subject); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		fmt.Println("Session saved.")
		return nil
	},
}

// learnerError rewraps a generation failure with the message shown to
// the learner, keeping the cause in the chain for logs.
func learnerError(err error) error {
	return fmt.Errorf("%s (%w)", engine.UserMessage(err), err)
}
