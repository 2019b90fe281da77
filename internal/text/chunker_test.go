package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		assert.Nil(t, Chunk("", 100))
	})

	t.Run("SingleSmallParagraph", func(t *testing.T) {
		chunks := Chunk("hello world", 100)
		assert.Equal(t, []string{"hello world"}, chunks)
	})

	t.Run("GreedyAccumulation", func(t *testing.T) {
		input := "aaaa\n\nbbbb\n\ncccc"
		chunks := Chunk(input, 10)
		// aaaa+bbbb would be 4+2+4 = 10 chars, cccc pushes past the budget
		assert.Equal(t, []string{"aaaa\n\nbbbb", "cccc"}, chunks)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		input := "one\n\ntwo two\n\nthree three three\n\nfour\n\nfive five five five five"
		for _, max := range []int{5, 12, 30, 1000} {
			chunks := Chunk(input, max)
			assert.Equal(t, input, strings.Join(chunks, ParagraphSeparator), "maxChars=%d", max)
		}
	})

	t.Run("NeverSplitsParagraph", func(t *testing.T) {
		input := strings.Repeat("x", 50) + "\n\n" + strings.Repeat("y", 50)
		chunks := Chunk(input, 30)
		assert.Len(t, chunks, 2)
		for _, c := range chunks {
			assert.NotContains(t, c, ParagraphSeparator)
		}
	})

	t.Run("OversizedParagraphOwnChunk", func(t *testing.T) {
		big := strings.Repeat("z", 200)
		input := "small\n\n" + big + "\n\ntail"
		chunks := Chunk(input, 50)
		assert.Equal(t, []string{"small", big, "tail"}, chunks)
	})
}
