// Package cli wires the synthesis pipeline to a local command-line surface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"studybuddy/features/synthesis"
	"studybuddy/internal/adapter/postgres"
	"studybuddy/internal/config"
)

// ArtifactSink receives finished artifacts for durable storage. A nil sink
// means persistence is not configured; saves are best-effort either way.
type ArtifactSink interface {
	SaveDocument(ctx context.Context, row postgres.DocumentRow) error
	SaveQuiz(ctx context.Context, row postgres.QuizRow) error
}

var (
	cfg      *config.Config
	pipeline *synthesis.Service
	sink     ArtifactSink
)

var rootCmd = &cobra.Command{
	Use:           "studybuddy",
	Short:         "Turn PDFs into study guides, flashcards and quizzes",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Configure injects the shared dependencies before Execute runs a command.
func Configure(c *config.Config, svc *synthesis.Service, s ArtifactSink) {
	cfg = c
	pipeline = svc
	sink = s
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
