package reader

import (
	"fmt"
	"strings"

	"github.com/wilbur182/folio/internal/image"
	"github.com/wilbur182/folio/internal/render"
)

// LoadOutcome records which tier served a chapter load. The three
// values correspond to the three cost tiers of the cascade: no work,
// render only, and document I/O plus render.
type LoadOutcome int

const (
	// LoadRenderedHit means the rendered tier had the chapter; nothing
	// was fetched or rendered.
	LoadRenderedHit LoadOutcome = iota
	// LoadRawHit means the raw tier spared the document I/O, but the
	// chapter was re-rendered.
	LoadRawHit
	// LoadFetched means a full miss: document store fetch, then render.
	LoadFetched
)

func (o LoadOutcome) String() string {
	switch o {
	case LoadRenderedHit:
		return "cached"
	case LoadRawHit:
		return "re-rendered"
	case LoadFetched:
		return "loaded"
	default:
		return fmt.Sprintf("unknown(%d)", int(o))
	}
}

// chapterKey builds the chapter-tier cache key. The colon is a naming
// convention only; nothing ever splits the key back apart.
func chapterKey(docPath string, index int) string {
	return fmt.Sprintf("%s:%d", docPath, index)
}

// loadChapter runs the cascading lookup:
//
//  1. rendered tier hit: done.
//  2. raw tier hit: skip document I/O, render.
//  3. full miss: fetch from the document store, populate the raw tier,
//     render.
//
// After rendering, the rendered tier is populated and any images the
// chapter references are pulled through the image tier, which is an
// independent key space (resolved resource paths, not chapter keys).
func (s *Session) loadChapter(index int) (render.Chapter, LoadOutcome, error) {
	key := chapterKey(s.doc.Path(), index)

	if ch, ok := s.caches.Rendered().Get(key); ok {
		return ch, LoadRenderedHit, nil
	}

	raw, ok := s.caches.Raw().Get(key)
	outcome := LoadRawHit
	if !ok {
		fetched, err := s.doc.RawContent(index)
		if err != nil {
			return render.Chapter{}, outcome, err
		}
		s.caches.Raw().Set(key, fetched)
		raw = fetched
		outcome = LoadFetched
	}

	ch := s.renderer.Render(raw, s.chapters[index])
	s.caches.Rendered().Set(key, ch)
	s.cacheImages(ch)
	return ch, outcome, nil
}

// cacheImages pulls the chapter's image references through the image
// tier. Unloadable images are skipped; they degrade to nothing, not to
// an error, because a missing figure should never block reading.
func (s *Session) cacheImages(ch render.Chapter) {
	for _, ref := range ch.ImageRefs {
		if !image.IsImageRef(ref) {
			continue
		}
		path := s.doc.ResolvePath(ref)
		if path == "" {
			continue
		}
		if _, ok := s.caches.Images().Get(path); ok {
			continue
		}
		enc, err := image.Load(path)
		if err != nil {
			s.logger.Debug("image load failed", "path", path, "err", err)
			continue
		}
		s.caches.Images().Set(path, enc)
	}
}

// contentFor assembles the viewport content: rendered lines, then any
// displayable images the chapter references.
func (s *Session) contentFor(ch render.Chapter) string {
	var b strings.Builder
	b.WriteString(strings.Join(ch.Lines, "\n"))

	for _, ref := range ch.ImageRefs {
		path := s.doc.ResolvePath(ref)
		if path == "" {
			continue
		}
		enc, ok := s.caches.Images().Get(path)
		if !ok {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(image.Render(enc, s.width))
	}
	return b.String()
}
