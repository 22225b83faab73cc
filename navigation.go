package main

func (m *model) handleCursorMove(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursorX -= speed
	case "l", "right", "L", "shift+right":
		m.cursorX += speed
	case "k", "up", "K", "shift+up":
		m.cursorY -= speed
	case "j", "down", "J", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()
	if m.keyboardDown {
		m.session.PointerMove(m.canvas.ToWorld(m.cursorX, m.cursorY))
	}
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

func (m *model) ensureCursorInBounds() {
	cols, rows := m.canvas.Size()
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if m.cursorX >= cols {
		m.cursorX = cols - 1
	}
	if m.cursorY >= rows {
		m.cursorY = rows - 1
	}
}

// toggleKeyboardPointer presses or releases the pointer at the cursor.
func (m *model) toggleKeyboardPointer() {
	if m.keyboardDown {
		m.keyboardDown = false
		m.session.PointerUp()
		return
	}
	m.keyboardDown = true
	m.session.PointerDown(m.canvas.ToWorld(m.cursorX, m.cursorY))
}
