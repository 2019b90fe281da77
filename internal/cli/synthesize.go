package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"studybuddy/features/synthesis"
	"studybuddy/internal/adapter/postgres"
	"studybuddy/internal/trace"
)

var (
	synthTitle      string
	synthSummary    bool
	synthCards      bool
	synthWordTarget int
	synthUser       string
)

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize <file.pdf>",
	Short: "Synthesize a study guide and flashcards from a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runSynthesize,
}

func init() {
	synthesizeCmd.Flags().StringVarP(&synthTitle, "title", "t", "", "Display title (defaults to the file name)")
	synthesizeCmd.Flags().BoolVar(&synthSummary, "summary", true, "Generate the long-form markdown summary")
	synthesizeCmd.Flags().BoolVar(&synthCards, "cards", true, "Generate flashcards")
	synthesizeCmd.Flags().IntVar(&synthWordTarget, "word-target", 0, "Summary word target (clamped to 2200-6000, 0 uses the configured default)")
	synthesizeCmd.Flags().StringVar(&synthUser, "user", "local", "Owner recorded when persistence is configured")
	rootCmd.AddCommand(synthesizeCmd)
}

func runSynthesize(cmd *cobra.Command, args []string) error {
	ctx := trace.New(cmd.Context())

	raw, err := readUpload(args[0])
	if err != nil {
		return err
	}

	title := synthTitle
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}
	wordTarget := synthWordTarget
	if wordTarget == 0 {
		wordTarget = cfg.WordTarget
	}

	art, err := pipeline.Synthesize(ctx, synthesis.Request{
		Raw:         raw,
		Title:       title,
		WantSummary: synthSummary,
		WantCards:   synthCards,
		WordTarget:  wordTarget,
	})
	if err != nil {
		return err
	}

	if sink != nil {
		row := postgres.DocumentRow{
			ID:        art.ContentID,
			UserID:    synthUser,
			Title:     art.Title,
			Summary:   art.Summary,
			CardsJSON: art.CardsJSON,
		}
		if err := sink.SaveDocument(ctx, row); err != nil {
			slog.WarnContext(ctx, "failed to save document to library", "content_id", art.ContentID, "error", err)
		}
	}

	return printArtifact(cmd, art)
}

// readUpload loads and guards an uploaded file: PDF extension, non-empty, and
// within the configured size cap.
func readUpload(path string) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("only .pdf files are supported, got %q", filepath.Ext(path))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, synthesis.ErrEmptyDocument
	}
	if max := cfg.MaxUploadMB * 1024 * 1024; int64(len(raw)) > max {
		return nil, fmt.Errorf("file exceeds the %d MB upload limit", cfg.MaxUploadMB)
	}
	return raw, nil
}

func printArtifact(cmd *cobra.Command, art *synthesis.Artifact) error {
	out, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}
