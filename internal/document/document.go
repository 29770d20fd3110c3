// Package document is the reading pipeline's document store: it opens a
// book (a markdown/plain-text file or a directory of chapter files),
// exposes the chapter list, and fetches raw chapter content on demand.
// Fetching is the expensive I/O step the raw cache tier exists to
// amortize, so Open records where each chapter lives instead of holding
// every chapter's text in memory.
package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// chapterExts maps recognized chapter file extensions to a chroma lexer
// hint. Empty means prose (markdown/plain text).
var chapterExts = map[string]string{
	".md":       "",
	".markdown": "",
	".txt":      "",
	".go":       "go",
	".py":       "python",
	".js":       "javascript",
	".rs":       "rust",
	".sh":       "bash",
}

// ChapterInfo describes one chapter of an open document.
type ChapterInfo struct {
	Index int
	Title string
	// Lang is a syntax-highlight hint for code chapters, empty for prose.
	Lang string
}

// chapterSource records where a chapter's raw content lives: its own
// file for directory books, or a byte range of the book file.
type chapterSource struct {
	info       ChapterInfo
	file       string
	start, end int64
}

// Document is an open book. It is read-only after Open; the session owns
// exactly one at a time.
type Document struct {
	path        string
	root        string
	fingerprint string
	chapters    []chapterSource
}

// Open loads the chapter structure of the book at path. A directory is
// treated as one chapter per recognized file (sorted by name); a
// markdown file is split on level-1 headings; any other file is a single
// chapter.
func Open(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}

	d := &Document{path: path}
	if info.IsDir() {
		d.root = path
		err = d.loadDir()
	} else {
		d.root = filepath.Dir(path)
		err = d.loadFile()
	}
	if err != nil {
		return nil, err
	}
	if len(d.chapters) == 0 {
		return nil, fmt.Errorf("open document: %s has no readable chapters", path)
	}

	d.fingerprint = d.computeFingerprint()
	return d, nil
}

// Path returns the path the document was opened from.
func (d *Document) Path() string { return d.path }

// Title returns a display title derived from the path.
func (d *Document) Title() string {
	base := filepath.Base(d.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Fingerprint identifies this document revision for the library store.
// It changes when any chapter file's size or mtime changes.
func (d *Document) Fingerprint() string { return d.fingerprint }

// Chapters returns the chapter list in reading order.
func (d *Document) Chapters() []ChapterInfo {
	infos := make([]ChapterInfo, len(d.chapters))
	for i, ch := range d.chapters {
		infos[i] = ch.info
	}
	return infos
}

// RawContent fetches the raw text of one chapter from disk. This is the
// I/O step a raw-cache hit skips; callers cache the result, so no
// caching happens here.
func (d *Document) RawContent(index int) (string, error) {
	if index < 0 || index >= len(d.chapters) {
		return "", fmt.Errorf("chapter %d out of range [0,%d)", index, len(d.chapters))
	}
	ch := d.chapters[index]

	f, err := os.Open(ch.file)
	if err != nil {
		return "", fmt.Errorf("fetch chapter %d: %w", index, err)
	}
	defer f.Close()

	if ch.end == 0 {
		data, err := io.ReadAll(f)
		if err != nil {
			return "", fmt.Errorf("fetch chapter %d: %w", index, err)
		}
		return string(data), nil
	}

	buf := make([]byte, ch.end-ch.start)
	if _, err := f.ReadAt(buf, ch.start); err != nil && err != io.EOF {
		return "", fmt.Errorf("fetch chapter %d: %w", index, err)
	}
	return string(buf), nil
}

// ResolvePath normalizes an image or resource reference against the
// document root. The result is the image tier's cache key. Remote
// references return empty (not cacheable here).
func (d *Document) ResolvePath(ref string) string {
	if ref == "" || strings.Contains(ref, "://") {
		return ""
	}
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Clean(filepath.Join(d.root, ref))
}

func (d *Document) loadDir() error {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := chapterExts[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		ext := strings.ToLower(filepath.Ext(name))
		d.chapters = append(d.chapters, chapterSource{
			info: ChapterInfo{
				Index: len(d.chapters),
				Title: strings.TrimSuffix(name, filepath.Ext(name)),
				Lang:  chapterExts[ext],
			},
			file: filepath.Join(d.path, name),
		})
	}
	return nil
}

func (d *Document) loadFile() error {
	ext := strings.ToLower(filepath.Ext(d.path))
	lang := chapterExts[ext]

	if ext != ".md" && ext != ".markdown" {
		d.chapters = append(d.chapters, chapterSource{
			info: ChapterInfo{Index: 0, Title: d.Title(), Lang: lang},
			file: d.path,
		})
		return nil
	}

	data, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	d.splitMarkdown(string(data))
	return nil
}

// splitMarkdown slices the book on level-1 headings, recording byte
// ranges so RawContent can re-read a single chapter later. Text before
// the first heading becomes a front-matter chapter when present.
func (d *Document) splitMarkdown(text string) {
	type span struct {
		title      string
		start, end int64
	}
	var spans []span

	var offset int64
	cur := span{title: "Front Matter"}
	flush := func(end int64) {
		cur.end = end
		if strings.TrimSpace(text[cur.start:cur.end]) != "" {
			spans = append(spans, cur)
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		if strings.HasPrefix(line, "# ") {
			flush(offset)
			title := strings.TrimSpace(strings.TrimPrefix(line, "# "))
			cur = span{title: title, start: offset}
		}
		offset += int64(len(line))
	}
	flush(offset)

	for _, s := range spans {
		d.chapters = append(d.chapters, chapterSource{
			info: ChapterInfo{Index: len(d.chapters), Title: s.title},
			file:  d.path,
			start: s.start,
			end:   s.end,
		})
	}
}

// computeFingerprint hashes the path plus each chapter file's identity.
func (d *Document) computeFingerprint() string {
	h := xxhash.New()
	h.WriteString(d.path)
	seen := make(map[string]bool)
	for _, ch := range d.chapters {
		if seen[ch.file] {
			continue
		}
		seen[ch.file] = true
		h.WriteString(ch.file)
		if info, err := os.Stat(ch.file); err == nil {
			fmt.Fprintf(h, "%d:%d", info.Size(), info.ModTime().UnixNano())
		}
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
