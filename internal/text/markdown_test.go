package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMarkdown(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", NormalizeMarkdown(""))
	})

	t.Run("UnicodeNoise", func(t *testing.T) {
		in := "\uFEFF# Title\n\nBody​ text here"
		assert.Equal(t, "# Title\n\nBody text here", NormalizeMarkdown(in))
	})

	t.Run("LineEndings", func(t *testing.T) {
		assert.Equal(t, "# A\n\nB", NormalizeMarkdown("# A\r\nB\r\n"))
		assert.Equal(t, "# A\n\nB", NormalizeMarkdown("# A\rB"))
	})

	t.Run("IndentedBlockTokens", func(t *testing.T) {
		in := "   ## Section\n\n  - item one\n\t- item two\n\n   > quote\n\n  | a | b |"
		want := "## Section\n\n- item one\n- item two\n\n> quote\n\n| a | b |"
		assert.Equal(t, want, NormalizeMarkdown(in))
	})

	t.Run("OrphanHeadings", func(t *testing.T) {
		in := "# Title\n\n##\n\n###   \n\nBody"
		assert.Equal(t, "# Title\n\nBody", NormalizeMarkdown(in))
	})

	t.Run("HeadingSpacing", func(t *testing.T) {
		in := "Intro\n# Title\nBody\n\n\n\n## Section\n\n\nMore"
		want := "Intro\n\n# Title\n\nBody\n\n## Section\n\nMore"
		assert.Equal(t, want, NormalizeMarkdown(in))
	})

	t.Run("ListSpacing", func(t *testing.T) {
		in := "para\n- a\n- b\npara2"
		want := "para\n\n- a\n- b\n\npara2"
		assert.Equal(t, want, NormalizeMarkdown(in))

		in = "1. one\n2. two\ntrailing"
		want = "1. one\n2. two\n\ntrailing"
		assert.Equal(t, want, NormalizeMarkdown(in))
	})

	t.Run("CollapseBlankRuns", func(t *testing.T) {
		assert.Equal(t, "a\n\nb", NormalizeMarkdown("a\n\n\n\n\nb"))
		// runs of two blank lines are left alone
		assert.Equal(t, "a\n\n\nb", NormalizeMarkdown("a\n\n\nb"))
	})

	t.Run("TrimEnds", func(t *testing.T) {
		assert.Equal(t, "body", NormalizeMarkdown("\n\n  body  \n\n"))
	})

	t.Run("Idempotent", func(t *testing.T) {
		samples := []string{
			"",
			"plain text",
			"\uFEFF#\n   # Real Title\r\nintro\n- a\n-  b\n\n\n\n\n## Sec\ntext",
			"# Doc\n\n## One\n\n- x\n- y\n\n## Two\n\nBody ±20% stays.",
			"Intro\n# Title\nBody\n\n\n\n## Section\n\n\nMore",
			"para\n- a\n- b\npara2\n\n> quote\n\n| t | r |",
		}
		for _, s := range samples {
			once := NormalizeMarkdown(s)
			assert.Equal(t, once, NormalizeMarkdown(once), "input: %q", s)
		}
	})
}
