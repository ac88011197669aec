package tui

import (
	"fmt"
	"strings"
	"time"

	"autoclick/internal/core/autoclicker"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	feedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle    = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{
		cardStyle.Render(strings.Join([]string{
			m.renderHeader(),
			m.renderCounters(),
			m.renderConfig(),
			m.renderToggle(),
			m.renderLast(),
		}, "\n")),
	}
	if len(m.lines) > 0 {
		sections = append(sections, feedStyle.Render(strings.Join(m.lines, "\n")))
	}
	m.help.ShowAll = m.fullHelp
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	state := idleStyle.Render("○ idle")
	if m.snap.State == autoclicker.StateRunning {
		state = runningStyle.Render("● clicking")
	}
	return titleStyle.Render("autoclick") + "  " + state
}

func (m *Model) renderCounters() string {
	if m.snap.State != autoclicker.StateRunning {
		return labelStyle.Render("clicks ") + valueStyle.Render("-")
	}
	clicks := humanize.Comma(int64(m.snap.Clicks))
	if m.snap.Failures > 0 {
		clicks += warnStyle.Render(fmt.Sprintf(" (%s failed)", humanize.Comma(int64(m.snap.Failures))))
	}
	parts := []string{
		labelStyle.Render("clicks ") + valueStyle.Render(clicks),
		labelStyle.Render("elapsed ") + valueStyle.Render(m.snap.Elapsed.Round(100*time.Millisecond).String()),
		labelStyle.Render("next ") + valueStyle.Render(m.snap.NextDelay.String()),
	}
	if m.snap.HasClicked {
		parts = append(parts, labelStyle.Render("at ")+valueStyle.Render(fmt.Sprintf("(%d, %d)", m.snap.LastPoint.X, m.snap.LastPoint.Y)))
	}
	return strings.Join(parts, "   ")
}

func (m *Model) renderConfig() string {
	cfg := m.settings.ClickConfig()
	label := "next "
	if m.snap.State == autoclicker.StateRunning {
		cfg = m.snap.Config
		label = "now "
	}
	return labelStyle.Render(label) + valueStyle.Render(describeConfig(cfg))
}

func (m *Model) renderToggle() string {
	binding := m.toggle.Binding()
	if binding.IsZero() {
		return labelStyle.Render("toggle ") + warnStyle.Render("unbound")
	}
	scope := "global"
	if !m.toggle.HotkeyActive() {
		scope = "this terminal only"
		if binding.TermKey() == "" {
			scope = "no terminal form; global hotkey unavailable"
		}
	}
	return labelStyle.Render("toggle ") + valueStyle.Render(binding.String()) + labelStyle.Render(" ("+scope+")")
}

func (m *Model) renderLast() string {
	last := m.snap.Last
	if last == nil {
		return labelStyle.Render("last ") + valueStyle.Render("-")
	}
	return labelStyle.Render("last ") + valueStyle.Render(fmt.Sprintf("%s clicks in %s (%s)",
		humanize.Comma(int64(last.Clicks)),
		last.Duration().Round(100*time.Millisecond),
		last.Reason,
	))
}

func describeConfig(cfg autoclicker.ClickConfig) string {
	parts := []string{cfg.Button.String() + " button"}

	switch cfg.Delay.Mode {
	case autoclicker.DelayRandom:
		parts = append(parts, fmt.Sprintf("every %d-%dms", cfg.Delay.MinMs, cfg.Delay.MaxMs))
	default:
		parts = append(parts, fmt.Sprintf("every %dms", cfg.Delay.FixedMs))
	}

	switch cfg.Position.Mode {
	case autoclicker.PositionRectangle:
		p := cfg.Position
		parts = append(parts, fmt.Sprintf("in (%d,%d)-(%d,%d)", p.X1, p.Y1, p.X2, p.Y2))
	default:
		parts = append(parts, "at cursor")
	}

	switch cfg.Stop.Mode {
	case autoclicker.StopClickCount:
		parts = append(parts, "stop after "+humanize.Comma(cfg.Stop.Limit)+" clicks")
	case autoclicker.StopDuration:
		parts = append(parts, "stop after "+(time.Duration(cfg.Stop.Limit)*time.Millisecond).String())
	default:
		parts = append(parts, "until stopped")
	}
	return strings.Join(parts, " · ")
}
