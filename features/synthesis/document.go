package synthesis

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"studybuddy/internal/llm"
	"studybuddy/internal/text"
)

const (
	chunkMaxChars     = 6000
	fragmentSeparator = "\n\n---\n\n"

	mapMaxTokens    = 2048
	reduceMaxTokens = 8192

	minWordTarget = 2200
	maxWordTarget = 6000
)

func mapPrompt(outline []string, wordTarget int) string {
	return fmt.Sprintf(
		"Rewrite this excerpt of a study digest as markdown study-guide prose. "+
			"Use ## headings drawn from this outline where they fit: %s. "+
			"Bold key terms. Target roughly %d words. No preamble.",
		strings.Join(outline, "; "), wordTarget)
}

func reducePrompt(title string, outline []string, wordTarget int) string {
	return fmt.Sprintf(
		"Merge the following markdown fragments (separated by ---) into one cohesive study guide. "+
			"Produce exactly one top-level heading: # %s. "+
			"Then ## sections, preferring this order: %s. "+
			"Target %d words overall, within 20 percent. Return markdown only.",
		title, strings.Join(outline, "; "), wordTarget)
}

// synthesizeDocument runs the outline-guided map-reduce over the bullet
// digest. Each chunk is mapped to a markdown fragment concurrently (the chunk
// count bounds the fan-out), fragments are reduced in original chunk order,
// and the result is normalized before being returned.
func (s *Service) synthesizeDocument(ctx context.Context, joined, title string, wordTarget int) (string, error) {
	outline := s.inferOutline(ctx, joined)

	chunks := text.Chunk(joined, chunkMaxChars)
	if len(chunks) == 0 {
		return "", nil
	}
	perChunkWords := wordTarget / len(chunks)

	fragments := make([]string, len(chunks))
	var g errgroup.Group
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			out, err := s.gen.Complete(ctx, []llm.Message{
				{Role: llm.RoleSystem, Content: mapPrompt(outline, perChunkWords)},
				{Role: llm.RoleUser, Content: chunk},
			}, mapMaxTokens, generationTemperature)
			if err != nil {
				return err
			}
			fragments[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", &GenerationError{Stage: "map", Err: err}
	}

	raw, err := s.gen.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: reducePrompt(title, outline, wordTarget)},
		{Role: llm.RoleUser, Content: strings.Join(fragments, fragmentSeparator)},
	}, reduceMaxTokens, generationTemperature)
	if err != nil {
		return "", &GenerationError{Stage: "reduce", Err: err}
	}

	return text.NormalizeMarkdown(raw), nil
}
