package text

import (
	"regexp"
	"strings"
)

var (
	zeroWidth = strings.NewReplacer(
		"\uFEFF", "",
		"\u200B", "",
		"\u200C", "",
		"\u200D", "",
		"\u2060", "",
	)
	exoticSpace = regexp.MustCompile(`[\x{00A0}\x{1680}\x{2000}-\x{200A}\x{202F}\x{205F}\x{3000}]`)

	// Block-start tokens that must sit at column 0: headings, list markers,
	// ordered-list markers, blockquotes and table rows.
	indentedBlock = regexp.MustCompile(`^[ \t]+(#{1,6}\s|[-*+]\s|\d+[.)]\s|>|\|)`)

	orphanHeading = regexp.MustCompile(`^#{1,6}[ \t]*$`)
	headingLine   = regexp.MustCompile(`^#{1,6}\s+\S`)
	listItemLine  = regexp.MustCompile(`^([-*+]|\d+[.)])\s+`)
)

// NormalizeMarkdown rewrites markdown into a canonical shape: unicode noise
// stripped, one newline convention, block tokens at column 0, orphan heading
// lines removed, exactly one blank line around headings and list blocks, and
// runs of three or more blank lines collapsed. The transform is idempotent.
func NormalizeMarkdown(md string) string {
	if md == "" {
		return ""
	}

	md = zeroWidth.Replace(md)
	md = exoticSpace.ReplaceAllString(md, " ")

	md = strings.ReplaceAll(md, "\r\n", "\n")
	md = strings.ReplaceAll(md, "\r", "\n")

	lines := strings.Split(md, "\n")

	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if indentedBlock.MatchString(line) {
			line = strings.TrimLeft(line, " \t")
		}
		if orphanHeading.MatchString(line) {
			continue
		}
		cleaned = append(cleaned, line)
	}

	spaced := spaceBlocks(cleaned)
	collapsed := collapseBlankRuns(spaced)

	return strings.TrimSpace(strings.Join(collapsed, "\n"))
}

// spaceBlocks guarantees exactly one blank line before and after every
// heading line and every contiguous list block.
func spaceBlocks(lines []string) []string {
	var out []string

	// Replaces any trailing blank run with a single blank line, unless the
	// block sits at the start of the document.
	ensureOneBlank := func() {
		for len(out) > 0 && out[len(out)-1] == "" {
			out = out[:len(out)-1]
		}
		if len(out) > 0 {
			out = append(out, "")
		}
	}

	i := 0
	for i < len(lines) {
		line := lines[i]

		if strings.TrimSpace(line) == "" {
			out = append(out, "")
			i++
			continue
		}

		if headingLine.MatchString(line) {
			ensureOneBlank()
			out = append(out, line, "")
			i++
			for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
				i++
			}
			continue
		}

		if listItemLine.MatchString(line) {
			ensureOneBlank()
			for i < len(lines) && listItemLine.MatchString(lines[i]) {
				out = append(out, lines[i])
				i++
			}
			out = append(out, "")
			for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
				i++
			}
			continue
		}

		out = append(out, line)
		i++
	}

	return out
}

// collapseBlankRuns reduces runs of three or more blank lines to one.
func collapseBlankRuns(lines []string) []string {
	out := make([]string, 0, len(lines))
	run := 0
	flush := func() {
		if run >= 3 {
			out = append(out, "")
		} else {
			for j := 0; j < run; j++ {
				out = append(out, "")
			}
		}
		run = 0
	}
	for _, line := range lines {
		if line == "" {
			run++
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()
	return out
}
