package render

import (
	"strings"
	"testing"

	"github.com/wilbur182/folio/internal/document"
)

func TestRenderMarkdown(t *testing.T) {
	r := New(80)
	ch := r.Render("# Title\n\nSome *emphasized* prose.\n", document.ChapterInfo{Title: "Title"})

	if len(ch.Lines) == 0 {
		t.Fatal("no rendered lines")
	}
	if ch.Width != 80 {
		t.Errorf("Width = %d, want 80", ch.Width)
	}
	if ch.Plain == "" {
		t.Error("Plain text not carried through")
	}
	joined := strings.Join(ch.Lines, "\n")
	if !strings.Contains(joined, "Title") {
		t.Errorf("rendered output missing heading text: %q", joined)
	}
}

func TestRenderNarrowFallsBackToWrap(t *testing.T) {
	r := New(20) // below MinWidthForMarkdown
	ch := r.Render("one two three four five six seven eight", document.ChapterInfo{})

	if len(ch.Lines) < 2 {
		t.Fatalf("narrow render should wrap, got %d line(s)", len(ch.Lines))
	}
	for _, line := range ch.Lines {
		if strings.Contains(line, "\x1b") {
			t.Errorf("wrap fallback should be unstyled, got %q", line)
		}
	}
}

func TestRenderCodeChapter(t *testing.T) {
	r := New(80)
	src := "package main\n\nfunc main() {}\n"
	ch := r.Render(src, document.ChapterInfo{Title: "main.go", Lang: "go"})

	if len(ch.Lines) == 0 {
		t.Fatal("no lines for code chapter")
	}
	if ch.Plain != src {
		t.Error("code chapter must keep raw source as Plain")
	}
}

func TestRenderExtractsImageRefs(t *testing.T) {
	r := New(80)
	raw := "intro\n\n![cover](images/cover.png)\n\n![](img/b.jpg \"title\")\n"
	ch := r.Render(raw, document.ChapterInfo{})

	want := []string{"images/cover.png", "img/b.jpg"}
	if len(ch.ImageRefs) != len(want) {
		t.Fatalf("ImageRefs = %v, want %v", ch.ImageRefs, want)
	}
	for i := range want {
		if ch.ImageRefs[i] != want[i] {
			t.Errorf("ImageRefs[%d] = %q, want %q", i, ch.ImageRefs[i], want[i])
		}
	}
}

func TestSetWidth(t *testing.T) {
	r := New(80)
	r.Render("hello", document.ChapterInfo{})

	r.SetWidth(80) // no-op
	if r.Width() != 80 {
		t.Errorf("Width = %d, want 80", r.Width())
	}

	r.SetWidth(40)
	if r.Width() != 40 {
		t.Errorf("Width = %d, want 40", r.Width())
	}
	ch := r.Render("some prose that is long enough to wrap at forty columns easily", document.ChapterInfo{})
	if ch.Width != 40 {
		t.Errorf("chapter Width = %d, want 40", ch.Width)
	}
}

func TestChapterSizeBytes(t *testing.T) {
	ch := Chapter{Plain: "abcd", Lines: []string{"ab", "cd"}}
	if got := ch.SizeBytes(); got != 8 {
		t.Errorf("SizeBytes = %d, want 8", got)
	}
}

func TestWrapText(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"simple wrap", "aa bb cc dd", 5, []string{"aa bb", "cc dd"}},
		{"single word", "hello", 10, []string{"hello"}},
		{"zero width", "hello", 0, []string{"hello"}},
		{"long word overflows alone", "abcdefgh xy", 4, []string{"abcdefgh", "xy"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WrapText(tc.text, tc.width)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}
