package text

import "strings"

// ParagraphSeparator delimits the paragraph-aligned units Chunk never splits.
const ParagraphSeparator = "\n\n"

// Chunk partitions text into paragraph-preserving slices of at most maxChars
// characters. Paragraphs are accumulated greedily; a paragraph is never split
// across two chunks, so a single paragraph longer than maxChars is emitted as
// its own oversized chunk. Joining the result with ParagraphSeparator
// reproduces the input exactly.
func Chunk(text string, maxChars int) []string {
	if text == "" {
		return nil
	}

	paragraphs := strings.Split(text, ParagraphSeparator)

	var chunks []string
	var current strings.Builder
	for _, para := range paragraphs {
		if current.Len() == 0 {
			current.WriteString(para)
			continue
		}
		if current.Len()+len(ParagraphSeparator)+len(para) > maxChars {
			chunks = append(chunks, current.String())
			current.Reset()
			current.WriteString(para)
			continue
		}
		current.WriteString(ParagraphSeparator)
		current.WriteString(para)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
