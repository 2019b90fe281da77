package synthesis

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"studybuddy/internal/llm"
	"studybuddy/internal/pdf"
)

const (
	pageSnippetChars  = 1500
	bulletMaxTokens   = 220
	digestPromptChars = 12000

	generationTemperature = 0.2
)

const bulletPrompt = "Return 3–6 dense, exam-focused bullets. No preface, no conclusion."

// summarizePages fans out one generation call per non-empty page, admitting
// at most cfg.Concurrency calls at a time, and joins the results in page
// order. Only the first cfg.MaxPages pages are processed. A single page
// failure fails the whole stage, but only after every sibling call has been
// awaited; partial results are discarded.
func (s *Service) summarizePages(ctx context.Context, pages []pdf.Page) (string, []string, error) {
	if len(pages) > s.cfg.MaxPages {
		pages = pages[:s.cfg.MaxPages]
	}

	results := make([]string, len(pages))
	sem := make(chan struct{}, s.cfg.Concurrency)

	var g errgroup.Group
	for i, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		i, page := i, page
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			snippet := truncate(page.Text, pageSnippetChars)
			out, err := s.gen.Complete(ctx, []llm.Message{
				{Role: llm.RoleSystem, Content: bulletPrompt},
				{Role: llm.RoleUser, Content: fmt.Sprintf("Page %d text:\n%s", page.Index, snippet)},
			}, bulletMaxTokens, generationTemperature)
			if err != nil {
				return err
			}
			results[i] = fmt.Sprintf("Page %d:\n%s", page.Index, out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", nil, &GenerationError{Stage: "bullets", Err: err}
	}

	bullets := make([]string, 0, len(results))
	for _, r := range results {
		if r != "" {
			bullets = append(bullets, r)
		}
	}
	joined := strings.Join(bullets, "\n\n")
	return joined, bullets, nil
}
