package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return name
}

// Fit pads text to exactly width runes, truncating overflow to
// width-3 runes plus "..." so columns keep their alignment.
func Fit(text string, width int) string {
	runes := []rune(text)
	if len(runes) > width {
		if width <= 3 {
			return string(runes[:width])
		}
		return string(runes[:width-3]) + "..."
	}
	return text + strings.Repeat(" ", width-len(runes))
}

// ChunkLines packs lines into blocks no larger than budget bytes,
// flushing the current block before a line would overflow it. A
// single line larger than the budget becomes its own block, it is
// never split.
func ChunkLines(lines []string, budget int) []string {
	var blocks []string
	var current strings.Builder

	for _, line := range lines {
		if current.Len() > 0 && current.Len()+len(line)+1 > budget {
			blocks = append(blocks, current.String())
			current.Reset()
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if current.Len() > 0 {
		blocks = append(blocks, current.String())
	}
	return blocks
}
