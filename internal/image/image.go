// Package image loads encoded images referenced by chapters and renders
// them for terminals that support inline graphics. Encoded payloads are
// what the byte-budgeted image cache tier stores: sizes span a few KB to
// several MB, so the tier tracks bytes, not counts.
package image

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blacktop/go-termimg"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/wilbur182/folio/internal/styles"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// IsImageRef reports whether a resource reference looks like an image.
func IsImageRef(ref string) bool {
	return imageExts[strings.ToLower(filepath.Ext(ref))]
}

// Encoded is an image payload exactly as read from disk. It implements
// the cache's size hint with the encoded byte length, measured once.
type Encoded struct {
	// Path is the resolved path the image was loaded from; also the
	// image tier's cache key.
	Path   string
	Format string
	Data   []byte
}

// SizeBytes returns the encoded payload size.
func (e *Encoded) SizeBytes() int64 {
	return int64(len(e.Data))
}

// Load reads an image file without decoding it.
func Load(path string) (*Encoded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	return &Encoded{
		Path:   path,
		Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Data:   data,
	}, nil
}

// Render draws the image inline via termimg. When the terminal has no
// graphics support (or rendering fails), a styled placeholder is
// returned instead; reading continues either way.
func Render(enc *Encoded, width int) string {
	img, err := termimg.Open(enc.Path)
	if err != nil {
		return Placeholder(enc, width)
	}
	rendered, err := img.Render()
	if err != nil {
		return Placeholder(enc, width)
	}
	return rendered
}

// Placeholder is the textual stand-in for an image the terminal cannot
// display.
func Placeholder(enc *Encoded, width int) string {
	label := fmt.Sprintf("[image: %s, %s %s]",
		filepath.Base(enc.Path),
		humanize.IBytes(uint64(len(enc.Data))),
		enc.Format,
	)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(styles.CurrentTheme().BorderNormal)).
		Padding(0, 1)
	if width > 4 {
		box = box.MaxWidth(width)
	}
	return box.Render(label)
}
