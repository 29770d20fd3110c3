// Package render turns raw chapter text into display-ready lines.
// Markdown goes through glamour, code chapters through chroma, and
// terminals too narrow for either get plain word wrapping. The renderer
// keeps no cache of its own: rendered chapters live in the rendered
// cache tier, owned by the session's cache coordinator.
package render

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"github.com/wilbur182/folio/internal/document"
	"github.com/wilbur182/folio/internal/styles"
)

// MinWidthForMarkdown is the minimum terminal width for markdown
// rendering. Below this, falls back to plain text wrapping.
const MinWidthForMarkdown = 30

// imageRefPattern matches markdown image references and captures the
// source path.
var imageRefPattern = regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)[^)]*\)`)

// Chapter is display-ready output for one chapter at one terminal width.
type Chapter struct {
	Title string
	Width int
	// Lines are styled (ANSI) lines ready for the viewport.
	Lines []string
	// Plain is the raw chapter text, kept for clipboard copy.
	Plain string
	// ImageRefs are the image sources referenced by the chapter, in
	// order of appearance, unresolved.
	ImageRefs []string
	// MaxLineWidth is the widest visible line, measured ANSI-aware.
	MaxLineWidth int
}

// SizeBytes reports the chapter's approximate footprint. The rendered
// tier is count-bounded so this is informational, surfaced by the stats
// overlay.
func (c Chapter) SizeBytes() int64 {
	n := int64(len(c.Plain))
	for _, line := range c.Lines {
		n += int64(len(line))
	}
	return n
}

// Renderer renders chapters at a fixed width. The underlying glamour
// renderer is created lazily and rebuilt when the width changes.
type Renderer struct {
	width     int
	lastTheme string
	tr        *glamour.TermRenderer
}

// New creates a renderer for the given terminal width.
func New(width int) *Renderer {
	return &Renderer{width: width}
}

// Width returns the current render width.
func (r *Renderer) Width() int { return r.width }

// SetWidth changes the render width, invalidating the glamour renderer.
// The caller owns clearing any rendered-tier entries produced at the old
// width.
func (r *Renderer) SetWidth(width int) {
	if width == r.width {
		return
	}
	r.width = width
	r.tr = nil
}

// Render produces display-ready output for one chapter.
func (r *Renderer) Render(raw string, info document.ChapterInfo) Chapter {
	ch := Chapter{
		Title:     info.Title,
		Width:     r.width,
		Plain:     raw,
		ImageRefs: extractImageRefs(raw),
	}

	switch {
	case info.Lang != "":
		ch.Lines = r.renderCode(raw, info.Lang)
	case r.width < MinWidthForMarkdown:
		ch.Lines = WrapText(raw, r.width)
	default:
		ch.Lines = r.renderMarkdown(raw)
	}

	for _, line := range ch.Lines {
		if w := ansi.StringWidth(line); w > ch.MaxLineWidth {
			ch.MaxLineWidth = w
		}
	}
	return ch
}

// renderMarkdown renders via glamour, falling back to plain wrapping on
// any renderer failure.
func (r *Renderer) renderMarkdown(raw string) []string {
	tr, err := r.glamourRenderer()
	if err != nil {
		return WrapText(raw, r.width)
	}
	rendered, err := tr.Render(raw)
	if err != nil {
		return WrapText(raw, r.width)
	}
	rendered = strings.TrimRight(rendered, "\n\r\t ")
	return strings.Split(rendered, "\n")
}

// renderCode highlights a code chapter, falling back to the unstyled
// source on failure.
func (r *Renderer) renderCode(raw, lang string) []string {
	highlighted, err := highlightCode(raw, lang, styles.GetSyntaxTheme())
	if err != nil {
		return strings.Split(strings.TrimRight(raw, "\n"), "\n")
	}
	return strings.Split(strings.TrimRight(highlighted, "\n"), "\n")
}

// glamourRenderer lazily creates or recreates the renderer for the
// current width and theme.
func (r *Renderer) glamourRenderer() (*glamour.TermRenderer, error) {
	theme := styles.GetMarkdownTheme()
	if r.tr != nil && r.lastTheme == theme {
		return r.tr, nil
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStylePath(theme),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		return nil, err
	}
	r.tr = tr
	r.lastTheme = theme
	return tr, nil
}

// extractImageRefs pulls image sources out of raw markdown.
func extractImageRefs(raw string) []string {
	matches := imageRefPattern.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil
	}
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, m[1])
	}
	return refs
}
