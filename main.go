package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"nerikeshi/internal/logx"
	"nerikeshi/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	config, configErr := loadConfig()
	logFile, err := setupLogging(config.LogFile, config.logLevel())
	if err != nil {
		log.Fatal(err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	m, err := initialModel(config)
	if err != nil {
		log.Fatal(err)
	}
	if configErr != nil {
		m.errorMessage = configErr.Error()
	}
	if path, err := configPath(); err == nil {
		if w, err := newConfigWatcher(path); err == nil {
			defer w.Close()
			m.watcher = w
		} else {
			logx.Logger().Warn("config reload disabled", "err", err)
		}
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

func initialModel(config *Config) (model, error) {
	opts, err := config.sessionOptions()
	if err != nil {
		return model{}, fmt.Errorf("config: %w", err)
	}
	return model{
		mode:     ModeNormal,
		config:   config,
		session:  session.New(opts),
		canvas:   NewCanvas(opts.Width, opts.Height),
		filename: defaultName,
	}, nil
}

func tick(fps int) tea.Cmd {
	return tea.Tick(frameInterval(fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	if m.watcher == nil {
		return tick(m.config.FPS)
	}
	return tea.Batch(tick(m.config.FPS), m.watcher.wait())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Leave room for status line
		m.canvas.SetViewport(m.width, m.height-1)
		m.ensureCursorInBounds()
		return m, nil

	case tickMsg:
		m.advance(time.Time(msg))
		return m, tick(m.config.FPS)

	case configReloadMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
		} else {
			m.applyConfig(msg.config)
		}
		if m.watcher == nil {
			return m, nil
		}
		return m, m.watcher.wait()

	case tea.MouseMsg:
		if m.mode == ModeNormal && !m.help {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.help {
			return m.handleHelpKey(msg.String()), nil
		}
		switch m.mode {
		case ModeFileInput:
			return m.handleFileInputKey(msg)
		case ModeConfirm:
			return m.handleConfirmKey(msg.String())
		default:
			return m.handleNormalKey(msg.String())
		}
	}
	return m, nil
}

// advance runs one simulation step. Frames longer than maxFrameDT are
// shortened so a stalled terminal does not fling debris across the world.
func (m *model) advance(now time.Time) {
	dt := frameInterval(m.config.FPS).Seconds()
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick).Seconds()
	}
	if dt > maxFrameDT {
		dt = maxFrameDT
	}
	m.lastTick = now
	if n := m.session.Tick(dt); n > 0 {
		logx.Logger().Debug("absorbed", "pieces", n, "percent", m.session.Growth().Percent())
	}
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	p := m.canvas.ToWorld(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.keyboardDown = false
		m.mouseDown = true
		m.session.PointerDown(p)
	case tea.MouseActionMotion:
		if m.mouseDown {
			m.session.PointerMove(p)
		}
	case tea.MouseActionRelease:
		if m.mouseDown {
			m.mouseDown = false
			m.session.PointerUp()
		}
	}
	m.cursorX, m.cursorY = msg.X, msg.Y
	m.ensureCursorInBounds()
}

func (m *model) releasePointer() {
	if m.mouseDown || m.keyboardDown {
		m.session.PointerUp()
	}
	m.mouseDown = false
	m.keyboardDown = false
}

func (m model) handleNormalKey(key string) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if !m.config.Confirmations {
			return m, tea.Quit
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmQuit
	case " ":
		m.releasePointer()
		m.successMessage = fmt.Sprintf("Tool: %s", m.session.CycleTool())
	case "1", "2", "3":
		m.releasePointer()
		m.session.SetTool(session.Tool(key[0] - '1'))
		m.successMessage = fmt.Sprintf("Tool: %s", m.session.Tool())
	case "c":
		if !m.config.Confirmations {
			m.clearDrawing()
			break
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmClear
	case "p":
		m.startFileInput(FileOpSavePNG)
	case "t":
		m.startFileInput(FileOpSaveVisualTXT)
	case "y":
		if err := m.copyVisualToClipboard(); err != nil {
			m.errorMessage = err.Error()
		} else {
			m.successMessage = "Copied to clipboard"
		}
	case "?":
		m.help = true
		m.helpScroll = 0
	case "enter":
		m.toggleKeyboardPointer()
	case "esc":
		m.releasePointer()
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		m.handleCursorMove(key, m.getMoveSpeed(key))
	}
	return m, nil
}

func (m *model) clearDrawing() {
	m.releasePointer()
	m.session.Clear()
	m.successMessage = "Cleared"
}

func (m *model) startFileInput(op FileOperation) {
	m.releasePointer()
	m.mode = ModeFileInput
	m.fileOp = op
	m.filename = defaultName
}

func (m model) handleFileInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.errorMessage = ""
	case tea.KeyEnter:
		path := m.exportPath()
		if _, err := os.Stat(path); err == nil && m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmOverwriteFile
			return m, nil
		}
		m.save(path)
	case tea.KeyBackspace:
		if len(m.filename) > 0 {
			runes := []rune(m.filename)
			m.filename = string(runes[:len(runes)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.filename += string(msg.Runes)
	}
	return m, nil
}

func (m *model) save(path string) {
	if err := m.saveFile(path); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.mode = ModeNormal
	m.errorMessage = ""
	m.successMessage = fmt.Sprintf("Saved %s", path)
}

func (m model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmClear:
			m.clearDrawing()
		case ConfirmOverwriteFile:
			m.save(m.exportPath())
		}
	case "n", "N", "esc":
		if m.confirmAction == ConfirmOverwriteFile {
			m.mode = ModeFileInput
		} else {
			m.mode = ModeNormal
		}
	}
	return m, nil
}

func (m model) handleHelpKey(key string) tea.Model {
	switch key {
	case "j", "down":
		maxScroll := len(helpLines) - m.visibleHelpHeight()
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	cols, rows := m.canvas.Size()
	showCursor := m.mode == ModeNormal
	lines := m.canvas.Render(m.session.Snapshot(cols, rows), m.cursorX, m.cursorY, showCursor)

	var result strings.Builder
	for _, line := range lines {
		result.WriteString(line)
		result.WriteString("\n")
	}
	result.WriteString(m.statusLine())
	return result.String()
}

func (m model) statusLine() string {
	switch m.mode {
	case ModeFileInput:
		opStr := "Export PNG"
		if m.fileOp == FileOpSaveVisualTXT {
			opStr = "Export TXT"
		}
		status := fmt.Sprintf("Mode: FILE | %s filename: %s█ | Enter=confirm, Esc=cancel", opStr, m.filename)
		if m.errorMessage != "" {
			status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
		}
		return status
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmQuit:
			message = "Quit nerikeshi? (y/n)"
		case ConfirmClear:
			message = "Clear the drawing and debris? Growth is kept. (y/n)"
		case ConfirmOverwriteFile:
			message = fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.exportPath())
		}
		return fmt.Sprintf("Mode: CONFIRM | %s", message)
	}

	g := m.session.Growth()
	status := fmt.Sprintf("%s %s | %s | absorbed %d",
		toolBadge(m.session.Tool()),
		m.session.Backend(),
		growthBar(g.Percent(), growthBarW),
		g.Absorbed(),
	)
	if m.keyboardDown {
		status += " | pointer down"
	}
	switch {
	case m.errorMessage != "":
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		status += " | " + okStyle.Render(m.successMessage)
	default:
		status += " | space=tool ? for help | q to quit"
	}
	return status
}

var helpLines = []string{
	"nerikeshi Help",
	"==============",
	"",
	"Drag with the left mouse button to use the current tool.",
	"",
	"Tools:",
	"------",
	"  Space            Cycle eraser -> nerikeshi -> pencil",
	"  1/2/3            Eraser / nerikeshi / pencil",
	"",
	"  Eraser           Rub out ink; crumbs fall where it touches",
	"  Nerikeshi        Drag the kneaded eraser over crumbs to absorb them",
	"  Pencil           Draw freehand strokes",
	"",
	"Keyboard pointer:",
	"-----------------",
	"  h/←/j/↓/k/↑/l/→  Move cursor around the screen",
	"  Shift+h/j/k/l    Move cursor 2x faster",
	"  Enter            Press/release the pointer at the cursor",
	"  Esc              Release the pointer",
	"",
	"Canvas:",
	"-------",
	"  c                Clear drawing and crumbs (growth is kept)",
	"  p                Export PNG snapshot",
	"  t                Export text snapshot",
	"  y                Copy text snapshot to clipboard",
	"",
	"General:",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m model) visibleHelpHeight() int {
	visibleHeight := m.height - 1 // Leave room for status line
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	return visibleHeight
}

func (m model) helpView() string {
	visibleHeight := m.visibleHelpHeight()

	startLine := m.helpScroll
	if startLine > len(helpLines)-visibleHeight {
		startLine = len(helpLines) - visibleHeight
	}
	if startLine < 0 {
		startLine = 0
	}
	endLine := startLine + visibleHeight
	if endLine > len(helpLines) {
		endLine = len(helpLines)
	}

	result := strings.Join(helpLines[startLine:endLine], "\n")
	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result + "\n" + statusLine
}
