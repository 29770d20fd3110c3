package styles

import "testing"

func TestThemeRegistry(t *testing.T) {
	if !IsValidTheme("default") || !IsValidTheme("light") {
		t.Error("built-in themes missing from registry")
	}
	if IsValidTheme("nope") {
		t.Error("unknown theme reported valid")
	}
	if GetTheme("nope").Name != "default" {
		t.Error("unknown theme should fall back to default")
	}
}

func TestApplyTheme(t *testing.T) {
	defer ApplyTheme("default")

	ApplyTheme("light")
	if CurrentTheme().Name != "light" {
		t.Errorf("current theme = %q, want light", CurrentTheme().Name)
	}
	if GetSyntaxTheme() != LightTheme.SyntaxTheme {
		t.Errorf("syntax theme = %q", GetSyntaxTheme())
	}
	if GetMarkdownTheme() != LightTheme.MarkdownTheme {
		t.Errorf("markdown theme = %q", GetMarkdownTheme())
	}
}

func TestListThemesSorted(t *testing.T) {
	names := ListThemes()
	if len(names) < 2 {
		t.Fatalf("ListThemes = %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("themes not sorted: %v", names)
		}
	}
}
