package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"nerikeshi/internal/logx"
	"nerikeshi/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	badgeBase = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	toolStyles = map[session.Tool]lipgloss.Style{
		session.Eraser:    badgeBase.Copy().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#ffffff")),
		session.NeriKeshi: badgeBase.Copy().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#000000")),
		session.Pencil:    badgeBase.Copy().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#fff0b3")),
	}

	barFull    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a9aa8"))
	barEmpty   = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#87d787"))
)

func toolBadge(t session.Tool) string {
	style, ok := toolStyles[t]
	if !ok {
		style = badgeBase
	}
	return style.Render(strings.ToUpper(t.String()))
}

// growthBar draws percent (0-100) as a fixed width bar followed by the
// number.
func growthBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return barFull.Render(strings.Repeat("█", filled)) +
		barEmpty.Render(strings.Repeat("░", width-filled)) +
		fmt.Sprintf(" %3d%%", percent)
}

// setupLogging sends the core packages' logs to path. The returned file
// must be closed by the caller; with no path logging stays silent.
func setupLogging(path string, level slog.Level) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	f, err := tea.LogToFile(path, "nerikeshi")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logx.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return f, nil
}
