package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/wilbur182/folio/internal/config"
	"github.com/wilbur182/folio/internal/document"
	"github.com/wilbur182/folio/internal/library"
	"github.com/wilbur182/folio/internal/reader"
	"github.com/wilbur182/folio/internal/styles"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	debugFlag   = flag.Bool("debug", false, "enable debug logging to the log file")
	logPath     = flag.String("log", "", "log file path (default ~/.config/folio/folio.log, only written with -debug)")
	themeFlag   = flag.String("theme", "", "theme name (overrides config)")
	noWatch     = flag.Bool("no-watch", false, "disable live reload when the document changes on disk")
	versionFlag = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("folio version %s\n", Version)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: folio [flags] <book.md | chapters-dir>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "folio: stdout is not a terminal")
		os.Exit(1)
	}

	logger, closeLog := setupLogger()
	defer closeLog()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "folio: load config: %v\n", err)
		os.Exit(1)
	}
	if *themeFlag != "" {
		cfg.UI.Theme = *themeFlag
	}
	styles.ApplyTheme(cfg.UI.Theme)

	doc, err := document.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "folio: %v\n", err)
		os.Exit(1)
	}

	// Reading positions are optional; a broken library means starting
	// at the beginning, not failing to open the book.
	var lib *library.Store
	if lib, err = library.Open(cfg.LibraryPath()); err != nil {
		logger.Warn("library unavailable", "err", err)
		lib = nil
	} else {
		defer lib.Close()
	}

	var watcher *document.Watcher
	if !*noWatch {
		if watcher, err = document.Watch(doc.Path()); err != nil {
			logger.Warn("live reload unavailable", "err", err)
			watcher = nil
		} else {
			defer watcher.Close()
		}
	}

	session, err := reader.New(cfg, doc, lib, watcher, logger)
	if err != nil {
		// Invalid cache configuration fails fast, before any UI starts.
		fmt.Fprintf(os.Stderr, "folio: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(session, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "folio: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger writes debug logs to a file so the TUI keeps the
// terminal; without -debug everything is discarded.
func setupLogger() (*slog.Logger, func()) {
	if !*debugFlag {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}

	path := *logPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return slog.New(slog.NewTextHandler(os.Stderr, nil)), func() {}
		}
		path = filepath.Join(home, ".config", "folio", "folio.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, nil)), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, nil)), func() {}
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return logger, func() { f.Close() }
}
