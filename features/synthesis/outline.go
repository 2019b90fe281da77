package synthesis

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"studybuddy/internal/llm"
)

const (
	outlineMaxTokens   = 400
	minOutlineTitleLen = 3
	maxOutlineSections = 14
)

const outlinePrompt = `Propose a section outline for a long-form study guide of this material. ` +
	`Return only valid JSON with no extra text. Schema: {"sections":[{"title":"..."}]}. 8-14 sections.`

// fallbackOutline is used whenever the generator's outline cannot be parsed.
// It is a fixed design constant, not derived from the document.
var fallbackOutline = []string{
	"Overview",
	"Key Terms and Definitions",
	"Core Concepts",
	"Foundational Principles",
	"Methods and Techniques",
	"Worked Examples",
	"Applications",
	"Common Pitfalls",
	"Comparisons and Contrasts",
	"Summary of Key Points",
	"Review Questions",
}

var codeFence = regexp.MustCompile("```(json|JSON)?")

func stripCodeFences(s string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(s, ""))
}

// inferOutline proposes 8-14 section titles for the synthesized document. It
// never fails: any generator error or malformed response falls back to the
// generic outline.
func (s *Service) inferOutline(ctx context.Context, joined string) []string {
	out, err := s.gen.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: outlinePrompt},
		{Role: llm.RoleUser, Content: truncate(joined, digestPromptChars)},
	}, outlineMaxTokens, generationTemperature)
	if err != nil {
		slog.WarnContext(ctx, "outline inference failed, using generic outline", "error", err)
		return fallbackOutline
	}

	var parsed struct {
		Sections []struct {
			Title string `json:"title"`
		} `json:"sections"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(out)), &parsed); err != nil {
		slog.WarnContext(ctx, "outline response is not valid JSON, using generic outline", "error", err)
		return fallbackOutline
	}

	titles := make([]string, 0, len(parsed.Sections))
	for _, sec := range parsed.Sections {
		title := strings.TrimSpace(sec.Title)
		if len(title) < minOutlineTitleLen {
			continue
		}
		titles = append(titles, title)
		if len(titles) == maxOutlineSections {
			break
		}
	}
	if len(titles) == 0 {
		slog.WarnContext(ctx, "outline response had no usable titles, using generic outline")
		return fallbackOutline
	}
	return titles
}
