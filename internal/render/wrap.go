package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// WrapText wraps text to fit within maxWidth display cells.
// Used as fallback when the terminal is too narrow for markdown
// rendering or when glamour fails.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		currentLine := words[0]
		currentWidth := runewidth.StringWidth(currentLine)
		for _, word := range words[1:] {
			w := runewidth.StringWidth(word)
			if currentWidth+1+w <= maxWidth {
				currentLine += " " + word
				currentWidth += 1 + w
			} else {
				lines = append(lines, currentLine)
				currentLine = word
				currentWidth = w
			}
		}
		lines = append(lines, currentLine)
	}

	// Trim trailing blank lines from paragraph splitting.
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
