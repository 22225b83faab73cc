package main

import "time"

type Mode int

const (
	ModeNormal Mode = iota
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSavePNG FileOperation = iota
	FileOpSaveVisualTXT
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmClear
	ConfirmOverwriteFile
)

const (
	// Pixel size of one terminal cell in PNG snapshots.
	charWidth  = 8.0
	charHeight = 16.0

	defaultFPS  = 60
	maxFrameDT  = 0.1
	growthBarW  = 20
	configName  = ".nerikeshi.toml"
	defaultName = "nerikeshi"
)

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = defaultFPS
	}
	return time.Second / time.Duration(fps)
}
