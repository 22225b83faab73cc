package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// visualLines renders the current frame without the cursor, exactly as it
// appears on screen.
func (m *model) visualLines() []string {
	cols, rows := m.canvas.Size()
	return m.canvas.Render(m.session.Snapshot(cols, rows), -1, -1, false)
}

func (m *model) exportVisualTXT(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, line := range m.visualLines() {
		if _, err := fmt.Fprintln(file, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func (m *model) exportPNG(filename string) error {
	return m.canvas.ExportToPNG(filename, m.session)
}

func (m *model) copyVisualToClipboard() error {
	lines := m.visualLines()
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	if err := clipboard.WriteAll(strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

func (m *model) saveFile(filename string) error {
	var err error
	switch m.fileOp {
	case FileOpSavePNG:
		err = m.exportPNG(filename)
	case FileOpSaveVisualTXT:
		err = m.exportVisualTXT(filename)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}
	return nil
}

func (m *model) fileExtension() string {
	if m.fileOp == FileOpSavePNG {
		return ".png"
	}
	return ".txt"
}

// exportPath adds the extension for the current operation and resolves
// the name against the configured save directory.
func (m *model) exportPath() string {
	name := strings.TrimSpace(m.filename)
	if name == "" {
		name = defaultName
	}
	if !strings.HasSuffix(strings.ToLower(name), m.fileExtension()) {
		name += m.fileExtension()
	}
	return m.config.GetSavePath(name)
}
