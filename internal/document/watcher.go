package document

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the burst of fsnotify events editors produce
// on save into a single change notification.
const debounceWindow = 500 * time.Millisecond

// Watcher reports when the open document changes on disk so the session
// can reload it and rebuild its caches. It watches the containing
// directory rather than the file itself, because editors that
// write-and-rename would otherwise silently detach the watch.
type Watcher struct {
	fsw     *fsnotify.Watcher
	changed chan struct{}
	done    chan struct{}

	target string
	isDir  bool
}

// Watch starts watching the document at path.
func Watch(path string) (*Watcher, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
		target:  filepath.Clean(path),
		isDir:   info.IsDir(),
	}

	watchDir := w.target
	if !w.isDir {
		watchDir = filepath.Dir(w.target)
	}
	if err := fsw.Add(watchDir); err != nil {
		fsw.Close()
		return nil, err
	}

	go w.loop()
	return w, nil
}

// Changed delivers at most one pending change notification; coalesced,
// never blocking the watcher.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Close stops the watcher. Safe to call once.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	// All sends happen here, so closing on exit is safe and lets
	// receivers blocked on Changed unblock when the watcher shuts down.
	defer close(w.changed)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				fire = timer.C
			} else {
				timer.Reset(debounceWindow)
			}
		case <-fire:
			timer = nil
			fire = nil
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are not fatal to reading; drop them.
		}
	}
}

// relevant filters directory noise down to writes touching the document.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	if w.isDir {
		_, ok := chapterExts[strings.ToLower(filepath.Ext(ev.Name))]
		return ok
	}
	return filepath.Clean(ev.Name) == w.target
}
