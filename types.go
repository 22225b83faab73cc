package main

import (
	"time"

	"nerikeshi/internal/session"
)

type model struct {
	width          int
	height         int
	cursorX        int
	cursorY        int
	mode           Mode
	help           bool
	helpScroll     int
	filename       string
	fileOp         FileOperation
	confirmAction  ConfirmAction
	errorMessage   string
	successMessage string
	config         *Config
	session        *session.Session
	canvas         *Canvas
	watcher        *configWatcher
	lastTick       time.Time
	mouseDown      bool
	keyboardDown   bool // enter pressed, pointer held at the keyboard cursor
}

type tickMsg time.Time
