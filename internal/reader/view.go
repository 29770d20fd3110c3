package reader

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/wilbur182/folio/internal/config"
	"github.com/wilbur182/folio/internal/readcache"
	"github.com/wilbur182/folio/internal/styles"
)

// chromeHeight is the vertical space taken by header and footer.
func chromeHeight(cfg *config.Config) int {
	if cfg.UI.ShowFooter {
		return 4
	}
	return 2
}

// View implements tea.Model.
func (s *Session) View() string {
	if !s.ready {
		return "opening..."
	}

	var b strings.Builder
	b.WriteString(s.headerView())
	b.WriteString("\n")

	if s.showStats {
		b.WriteString(s.statsView())
	} else if s.err != nil {
		b.WriteString(styles.ErrText.Render(s.err.Error()))
	} else {
		b.WriteString(s.vp.View())
	}

	if s.cfg.UI.ShowFooter {
		b.WriteString("\n")
		b.WriteString(s.footerView())
	}
	return b.String()
}

func (s *Session) headerView() string {
	title := s.doc.Title()
	if s.chapter < len(s.chapters) {
		title = fmt.Sprintf("%s — %s", title, s.chapters[s.chapter].Title)
	}
	position := fmt.Sprintf("%d/%d", s.chapter+1, len(s.chapters))

	gap := s.width - lipgloss.Width(title) - lipgloss.Width(position)
	if gap < 1 {
		gap = 1
	}
	return styles.Header.Width(s.width).Render(title + strings.Repeat(" ", gap) + position)
}

func (s *Session) footerView() string {
	left := "n/p chapter · s stats · c copy · q quit"
	right := s.statusMsg
	if s.caches.Watchdog().Snapshot().OverThreshold {
		right = styles.WarnText.Render("high memory") + " " + right
	}

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return styles.Footer.Width(s.width).Render(
		styles.Muted.Render(left) + strings.Repeat(" ", gap) + right,
	)
}

// statsView renders the combined statistics overlay.
func (s *Session) statsView() string {
	stats := s.caches.CombinedStats()

	var b strings.Builder
	b.WriteString(styles.StatusKey.Render("cache statistics"))
	b.WriteString("\n\n")
	b.WriteString(countTierLine("rendered", stats.Rendered))
	b.WriteString(countTierLine("raw", stats.Raw))
	b.WriteString(memoryTierLine("images", stats.Images))

	mem := stats.Memory
	state := "normal"
	if mem.OverThreshold {
		state = styles.WarnText.Render("over threshold")
	}
	b.WriteString(fmt.Sprintf("%s  usage %s / limit %s  samples %d  %s\n",
		styles.StatusKey.Render(fmt.Sprintf("%-9s", "memory")),
		humanize.IBytes(uint64(max(mem.UsageBytes, 0))),
		humanize.IBytes(uint64(mem.ThresholdBytes)),
		mem.Samples,
		state,
	))
	return b.String()
}

func countTierLine(name string, st readcache.CountStats) string {
	return fmt.Sprintf("%s  %d/%d items  hits %d  misses %d  evictions %d  hit rate %.1f%%\n",
		styles.StatusKey.Render(fmt.Sprintf("%-9s", name)),
		st.Size, st.MaxItems, st.Hits, st.Misses, st.Evictions, st.HitRate,
	)
}

func memoryTierLine(name string, st readcache.MemoryStats) string {
	return fmt.Sprintf("%s  %s / %s (%.1f%%)  %d items  hits %d  misses %d  evictions %d\n",
		styles.StatusKey.Render(fmt.Sprintf("%-9s", name)),
		humanize.IBytes(uint64(st.MemoryBytes)),
		humanize.IBytes(uint64(st.MaxBytes)),
		st.MemoryUtilizationPct,
		st.Size, st.Hits, st.Misses, st.Evictions,
	)
}
