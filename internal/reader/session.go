// Package reader is the bubbletea session that drives reading: it owns
// one cache coordinator per open document and executes the cascading
// lookup protocol (rendered tier, then raw tier, then document store)
// on every chapter load. All cache access happens on the event-loop
// goroutine; the caches themselves carry no locks.
package reader

import (
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/folio/internal/config"
	"github.com/wilbur182/folio/internal/document"
	"github.com/wilbur182/folio/internal/image"
	"github.com/wilbur182/folio/internal/library"
	"github.com/wilbur182/folio/internal/readcache"
	"github.com/wilbur182/folio/internal/render"
)

// Coordinator is the session's cache coordinator instantiation.
type Coordinator = readcache.Coordinator[render.Chapter, *image.Encoded]

// documentChangedMsg arrives when the document changed on disk.
type documentChangedMsg struct{}

// Session is the root model for one reading session.
type Session struct {
	cfg    *config.Config
	logger *slog.Logger

	doc      *document.Document
	chapters []document.ChapterInfo
	renderer *render.Renderer
	caches   *Coordinator
	lib      *library.Store    // may be nil: positions not persisted
	watcher  *document.Watcher // may be nil: no live reload

	chapter   int
	current   render.Chapter
	vp        viewport.Model
	width     int
	height    int
	ready     bool
	showStats bool
	statusMsg string
	err       error
}

// New builds a session for an opened document. lib and watcher are
// optional. The coordinator is constructed here and lives exactly as
// long as the session's document; switching documents rebuilds it whole.
func New(cfg *config.Config, doc *document.Document, lib *library.Store, watcher *document.Watcher, logger *slog.Logger) (*Session, error) {
	caches, err := newCoordinator(cfg)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:      cfg,
		logger:   logger,
		doc:      doc,
		chapters: doc.Chapters(),
		renderer: render.New(80),
		caches:   caches,
		lib:      lib,
		watcher:  watcher,
	}
	if lib != nil {
		if pos, ok := lib.Position(doc.Fingerprint()); ok && pos.Chapter < len(s.chapters) {
			s.chapter = pos.Chapter
		}
	}
	return s, nil
}

func newCoordinator(cfg *config.Config) (*Coordinator, error) {
	caches, err := readcache.NewCoordinator[render.Chapter, *image.Encoded](
		cfg.Caches.RenderedMaxItems,
		cfg.Caches.RawMaxItems,
		cfg.Caches.ImageMaxBytes,
		cfg.Memory.ThresholdBytes,
	)
	if err != nil {
		return nil, fmt.Errorf("cache configuration: %w", err)
	}
	return caches, nil
}

// Caches exposes the coordinator for the stats overlay and tests.
func (s *Session) Caches() *Coordinator { return s.caches }

// Init implements tea.Model.
func (s *Session) Init() tea.Cmd {
	return s.waitForDocumentChange()
}

// waitForDocumentChange blocks on the watcher outside the event loop.
func (s *Session) waitForDocumentChange() tea.Cmd {
	if s.watcher == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-s.watcher.Changed(); !ok {
			return nil
		}
		return documentChangedMsg{}
	}
}

// Update implements tea.Model.
func (s *Session) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.resize(msg.Width, msg.Height)
		return s, nil

	case documentChangedMsg:
		s.reloadDocument()
		return s, s.waitForDocumentChange()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return s, cmd
}

func (s *Session) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		s.savePosition()
		return s, tea.Quit

	case "n", "right":
		s.gotoChapter(s.chapter + 1)
		return s, nil

	case "p", "left":
		s.gotoChapter(s.chapter - 1)
		return s, nil

	case "g":
		s.vp.GotoTop()
		return s, nil

	case "G":
		s.vp.GotoBottom()
		return s, nil

	case "s":
		s.showStats = !s.showStats
		return s, nil

	case "c":
		s.copyChapter()
		return s, nil

	case "X":
		s.caches.ClearAll()
		s.statusMsg = "caches cleared"
		return s, nil
	}

	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return s, cmd
}

// resize adjusts the layout. Rendered chapters are width-dependent, so
// the rendered tier is cleared; the raw tier survives, keeping reflow at
// "partially cached" cost instead of a full refetch.
func (s *Session) resize(width, height int) {
	s.width = width
	s.height = height

	contentHeight := height - chromeHeight(s.cfg)
	if contentHeight < 1 {
		contentHeight = 1
	}
	if !s.ready {
		s.vp = viewport.New(width, contentHeight)
		s.ready = true
	} else {
		s.vp.Width = width
		s.vp.Height = contentHeight
	}

	if s.renderer.Width() != width {
		s.renderer.SetWidth(width)
		s.caches.Rendered().Clear()
	}
	s.showChapter(s.chapter, false)
}

// gotoChapter clamps and shows the requested chapter.
func (s *Session) gotoChapter(index int) {
	if index < 0 || index >= len(s.chapters) {
		return
	}
	prev := s.chapter
	s.chapter = index
	s.showChapter(index, true)
	if s.err != nil {
		s.chapter = prev
		return
	}
	s.savePosition()
}

// showChapter runs the cascading load and fills the viewport. Each full
// load triggers exactly one watchdog sample; scrolling does not.
func (s *Session) showChapter(index int, resetScroll bool) {
	if !s.ready || index < 0 || index >= len(s.chapters) {
		return
	}

	ch, outcome, err := s.loadChapter(index)
	if err != nil {
		s.err = err
		s.logger.Error("chapter load failed", "chapter", index, "err", err)
		return
	}
	s.err = nil
	s.current = ch
	s.statusMsg = outcome.String()

	s.vp.SetContent(s.contentFor(ch))
	if resetScroll {
		s.vp.GotoTop()
	}

	s.caches.SampleMemory(s.logger)
}

// reloadDocument reopens the document after an on-disk change and
// replaces the coordinator wholesale: every tier keyed by the old
// content is stale, and dropping the whole thing beats selective
// invalidation.
func (s *Session) reloadDocument() {
	doc, err := document.Open(s.doc.Path())
	if err != nil {
		s.err = err
		s.logger.Warn("document reload failed", "err", err)
		return
	}

	caches, err := newCoordinator(s.cfg)
	if err != nil {
		// Config was already validated at startup; keep the old caches.
		s.logger.Error("coordinator rebuild failed", "err", err)
		return
	}

	s.doc = doc
	s.chapters = doc.Chapters()
	s.caches = caches
	if s.chapter >= len(s.chapters) {
		s.chapter = len(s.chapters) - 1
	}
	s.statusMsg = "document reloaded"
	s.logger.Info("document reloaded", "chapters", len(s.chapters))
	s.showChapter(s.chapter, false)
}

// copyChapter puts the current chapter's plain text on the clipboard.
func (s *Session) copyChapter() {
	if err := clipboard.WriteAll(s.current.Plain); err != nil {
		s.statusMsg = "copy failed"
		s.logger.Debug("clipboard write failed", "err", err)
		return
	}
	s.statusMsg = "chapter copied"
}

// savePosition persists the reading position, best effort.
func (s *Session) savePosition() {
	if s.lib == nil {
		return
	}
	pos := library.Position{Chapter: s.chapter, Line: s.vp.YOffset}
	if err := s.lib.SavePosition(s.doc.Fingerprint(), pos); err != nil {
		s.logger.Debug("position save failed", "err", err)
	}
}
