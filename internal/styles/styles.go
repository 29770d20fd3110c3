// Package styles holds the reader's visual theme: lipgloss styles for
// the chrome plus the glamour and chroma theme names the renderer uses.
package styles

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles the reader palette with third-party theme names.
type Theme struct {
	Name        string
	DisplayName string

	TextPrimary   string
	TextSecondary string
	TextMuted     string
	Accent        string
	Warning       string
	Error         string
	BorderNormal  string

	// SyntaxTheme is a chroma style name, MarkdownTheme a glamour style.
	SyntaxTheme   string
	MarkdownTheme string
}

// Built-in themes.
var (
	DefaultTheme = Theme{
		Name:          "default",
		DisplayName:   "Default Dark",
		TextPrimary:   "#F9FAFB",
		TextSecondary: "#9CA3AF",
		TextMuted:     "#6B7280",
		Accent:        "#F59E0B",
		Warning:       "#F59E0B",
		Error:         "#EF4444",
		BorderNormal:  "#374151",
		SyntaxTheme:   "monokai",
		MarkdownTheme: "dark",
	}

	LightTheme = Theme{
		Name:          "light",
		DisplayName:   "Paper Light",
		TextPrimary:   "#111827",
		TextSecondary: "#4B5563",
		TextMuted:     "#9CA3AF",
		Accent:        "#B45309",
		Warning:       "#B45309",
		Error:         "#B91C1C",
		BorderNormal:  "#D1D5DB",
		SyntaxTheme:   "github",
		MarkdownTheme: "light",
	}
)

var themeRegistry = map[string]Theme{
	"default": DefaultTheme,
	"light":   LightTheme,
}

var current = DefaultTheme

// Style variables used by the reader chrome, rebuilt by ApplyTheme.
var (
	Header    lipgloss.Style
	Footer    lipgloss.Style
	StatusKey lipgloss.Style
	StatusVal lipgloss.Style
	WarnText  lipgloss.Style
	ErrText   lipgloss.Style
	Muted     lipgloss.Style
)

func init() {
	ApplyTheme("default")
}

// IsValidTheme checks if a theme name exists in the registry.
func IsValidTheme(name string) bool {
	_, ok := themeRegistry[name]
	return ok
}

// GetTheme returns a theme by name, or the default theme if not found.
func GetTheme(name string) Theme {
	if theme, ok := themeRegistry[name]; ok {
		return theme
	}
	return DefaultTheme
}

// CurrentTheme returns the active theme.
func CurrentTheme() Theme {
	return current
}

// ListThemes returns all theme names in sorted order.
func ListThemes() []string {
	names := make([]string, 0, len(themeRegistry))
	for name := range themeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyTheme activates a theme and rebuilds the style variables.
func ApplyTheme(name string) {
	current = GetTheme(name)

	Header = lipgloss.NewStyle().
		Foreground(lipgloss.Color(current.TextPrimary)).
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color(current.BorderNormal))

	Footer = lipgloss.NewStyle().
		Foreground(lipgloss.Color(current.TextSecondary)).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(lipgloss.Color(current.BorderNormal))

	StatusKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(current.Accent)).
		Bold(true)

	StatusVal = lipgloss.NewStyle().
		Foreground(lipgloss.Color(current.TextPrimary))

	WarnText = lipgloss.NewStyle().
		Foreground(lipgloss.Color(current.Warning)).
		Bold(true)

	ErrText = lipgloss.NewStyle().
		Foreground(lipgloss.Color(current.Error))

	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color(current.TextMuted))
}

// GetSyntaxTheme returns the current chroma style name.
func GetSyntaxTheme() string {
	return current.SyntaxTheme
}

// GetMarkdownTheme returns the current glamour style name.
func GetMarkdownTheme() string {
	return current.MarkdownTheme
}
