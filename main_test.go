package main

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nerikeshi/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) model {
	t.Helper()
	cfg := defaultConfig()
	cfg.Seed = 3
	cfg.SaveDirectory = t.TempDir()
	m, err := initialModel(cfg)
	require.NoError(t, err)
	return send(t, m, tea.WindowSizeMsg{Width: 128, Height: 73})
}

func send(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(model)
	require.True(t, ok)
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(x, y int, action tea.MouseAction) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func TestMouseDrawsWithPencil(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, key("3"))
	require.Equal(t, session.Pencil, m.session.Tool())

	m = send(t, m, mouse(10, 10, tea.MouseActionPress))
	for x := 11; x <= 40; x++ {
		m = send(t, m, mouse(x, 10, tea.MouseActionMotion))
	}
	m = send(t, m, mouse(40, 10, tea.MouseActionRelease))

	store, ok := m.session.Strokes()
	require.True(t, ok)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 31, store.PointCount())
	assert.False(t, store.Active())
	assert.Contains(t, m.View(), "PENCIL")
}

func TestSpaceCyclesTools(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, session.Eraser, m.session.Tool())
	m = send(t, m, key(" "))
	assert.Equal(t, session.NeriKeshi, m.session.Tool())
	assert.Contains(t, m.successMessage, "nerikeshi")
	m = send(t, m, key(" "))
	m = send(t, m, key(" "))
	assert.Equal(t, session.Eraser, m.session.Tool())
}

func TestKeyboardPointer(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, key("3"))
	m = send(t, m, key("enter"))
	assert.True(t, m.keyboardDown)
	for i := 0; i < 10; i++ {
		m = send(t, m, key("l"))
	}
	m = send(t, m, key("enter"))
	assert.False(t, m.keyboardDown)

	store, _ := m.session.Strokes()
	assert.Equal(t, 11, store.PointCount())
	assert.Equal(t, 10, m.cursorX)
}

func TestCursorStaysOnCanvas(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, key("h"))
	m = send(t, m, key("k"))
	assert.Equal(t, 0, m.cursorX)
	assert.Equal(t, 0, m.cursorY)
	m.cursorX, m.cursorY = 500, 500
	m.ensureCursorInBounds()
	assert.Equal(t, 127, m.cursorX)
	assert.Equal(t, 71, m.cursorY)
}

func TestQuitNeedsConfirmation(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, key("q"))
	assert.Equal(t, ModeConfirm, m.mode)
	assert.Contains(t, m.View(), "Quit nerikeshi?")
	m = send(t, m, key("n"))
	assert.Equal(t, ModeNormal, m.mode)

	m = send(t, m, key("q"))
	_, cmd := m.Update(key("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestClearAfterConfirm(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, key("3"))
	m = send(t, m, mouse(10, 10, tea.MouseActionPress))
	m = send(t, m, mouse(20, 10, tea.MouseActionMotion))
	m = send(t, m, mouse(20, 10, tea.MouseActionRelease))

	m = send(t, m, key("c"))
	m = send(t, m, key("y"))
	store, _ := m.session.Strokes()
	assert.Zero(t, store.Len())
	assert.Equal(t, "Cleared", m.successMessage)
}

func TestTextExportWithOverwrite(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, key("t"))
	require.Equal(t, ModeFileInput, m.mode)
	m = send(t, m, key("enter"))
	require.Equal(t, ModeNormal, m.mode, m.errorMessage)
	path := filepath.Join(m.config.SaveDirectory, "nerikeshi.txt")
	assert.FileExists(t, path)

	m = send(t, m, key("t"))
	m = send(t, m, key("enter"))
	require.Equal(t, ModeConfirm, m.mode)
	assert.Equal(t, ConfirmOverwriteFile, m.confirmAction)
	m = send(t, m, key("y"))
	assert.Equal(t, ModeNormal, m.mode)
	assert.True(t, strings.HasPrefix(m.successMessage, "Saved"))
}

func TestFileInputEditing(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, key("p"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "nerikesh", m.filename)
	m = send(t, m, key("i-2"))
	assert.Equal(t, "nerikeshi-2", m.filename)
	assert.Equal(t, filepath.Join(m.config.SaveDirectory, "nerikeshi-2.png"), m.exportPath())

	m = send(t, m, key("enter"))
	assert.Equal(t, ModeNormal, m.mode, m.errorMessage)
	assert.FileExists(t, filepath.Join(m.config.SaveDirectory, "nerikeshi-2.png"))
}

func TestTickAdvancesAndReschedules(t *testing.T) {
	m := newTestModel(t)
	now := time.Now()
	next, cmd := m.Update(tickMsg(now))
	assert.NotNil(t, cmd)
	m = next.(model)
	assert.Equal(t, now, m.lastTick)
}

func TestHelpScrolls(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})
	m = send(t, m, key("?"))
	require.True(t, m.help)
	assert.Contains(t, m.View(), "nerikeshi Help")
	m = send(t, m, key("j"))
	assert.Equal(t, 1, m.helpScroll)
	m = send(t, m, key("k"))
	assert.Equal(t, 0, m.helpScroll)
	m = send(t, m, key("esc"))
	assert.False(t, m.help)
}

func TestGrowthBar(t *testing.T) {
	assert.True(t, strings.HasSuffix(growthBar(14, 20), " 14%"))
	assert.True(t, strings.HasSuffix(growthBar(150, 20), "100%"))
	assert.Equal(t, 20, strings.Count(growthBar(0, 20), "░"))
}
