package cli

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"studybuddy/features/synthesis"
	"studybuddy/internal/adapter/postgres"
	"studybuddy/internal/trace"
)

var (
	quizTitle     string
	quizQuestions int
	quizUser      string
)

var quizCmd = &cobra.Command{
	Use:   "quiz <file.pdf>",
	Short: "Generate a multiple-choice quiz from a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuiz,
}

func init() {
	quizCmd.Flags().StringVarP(&quizTitle, "title", "t", "", "Display title (defaults to the file name)")
	quizCmd.Flags().IntVarP(&quizQuestions, "questions", "n", 12, "Number of questions (clamped to 10-40)")
	quizCmd.Flags().StringVar(&quizUser, "user", "local", "Owner recorded when persistence is configured")
	rootCmd.AddCommand(quizCmd)
}

func runQuiz(cmd *cobra.Command, args []string) error {
	ctx := trace.New(cmd.Context())

	raw, err := readUpload(args[0])
	if err != nil {
		return err
	}

	title := quizTitle
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}

	art, err := pipeline.Quiz(ctx, synthesis.Request{
		Raw:          raw,
		Title:        title,
		NumQuestions: quizQuestions,
	})
	if err != nil {
		return err
	}

	if sink != nil {
		row := postgres.QuizRow{
			DocID:        art.ContentID,
			UserID:       quizUser,
			Title:        art.Title,
			NumQuestions: art.NumQuestions,
			QuizJSON:     art.QuizJSON,
		}
		if err := sink.SaveQuiz(ctx, row); err != nil {
			slog.WarnContext(ctx, "failed to save quiz to library", "content_id", art.ContentID, "error", err)
		}
	}

	return printArtifact(cmd, art)
}
