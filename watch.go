package main

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

type configReloadMsg struct {
	config *Config
	err    error
}

// configWatcher reports edits to the config file. The directory is watched
// rather than the file because editors often replace the file on save.
type configWatcher struct {
	watcher *fsnotify.Watcher
	path    string
}

func newConfigWatcher(path string) (*configWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	return &configWatcher{watcher: w, path: filepath.Clean(path)}, nil
}

// wait blocks until the config file is written and returns the reloaded
// config. It returns nil once the watcher is closed.
func (w *configWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				config, err := loadConfigFrom(w.path)
				return configReloadMsg{config: config, err: err}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				return configReloadMsg{err: err}
			}
		}
	}
}

func (w *configWatcher) Close() error {
	return w.watcher.Close()
}

// applyConfig takes over the settings that can change while running.
// Backend and world size are fixed for the life of the session.
func (m *model) applyConfig(config *Config) {
	opts, err := config.sessionOptions()
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.config.SaveDirectory = config.SaveDirectory
	m.config.Confirmations = config.Confirmations
	m.config.FPS = config.FPS
	m.config.Brush = config.Brush
	m.config.Eraser = config.Eraser

	m.session.SetEraseRadius(opts.Erase.EraseRadius)
	p := opts.Surface.Paint
	m.session.SetBrush(p.BrushRadius, p.Color, p.Opacity)
	m.successMessage = "Config reloaded"
}
