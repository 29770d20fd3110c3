package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// highlightCode renders source through chroma for code chapters.
// lang is a lexer name (e.g. "go"), style a chroma style name.
func highlightCode(source, lang, style string) (string, error) {
	var buf strings.Builder
	if err := quick.Highlight(&buf, source, lang, "terminal256", style); err != nil {
		return "", err
	}
	return buf.String(), nil
}
