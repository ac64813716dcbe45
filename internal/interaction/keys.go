package interaction

// Key names match fyne.KeyName values so the UI can forward events verbatim.
const (
	KeySpace     = "Space"
	KeyDelete    = "Delete"
	KeyBackspace = "BackSpace"
	KeyZ         = "Z"
	KeyY         = "Y"
	KeyShiftL    = "LeftShift"
	KeyShiftR    = "RightShift"
	KeyEscape    = "Escape"
)

// KeyDown handles shortcuts. The UI must not forward events here while a text
// input has focus. Ctrl stands in for Cmd on darwin; the UI maps both to
// Mods.Ctrl.
func (en *Engine) KeyDown(key string, mods Modifiers) {
	switch key {
	case KeySpace:
		if !en.spaceHeld {
			en.spaceHeld = true
			en.spaceDownAt = en.Now()
			en.prevTool = en.tool
		}
	case KeyDelete, KeyBackspace:
		en.DeleteSelection()
	case KeyZ:
		if mods.Ctrl && mods.Shift {
			en.store.Redo()
		} else if mods.Ctrl {
			en.store.Undo()
		}
	case KeyY:
		if mods.Ctrl {
			en.store.Redo()
		}
	case KeyShiftL, KeyShiftR:
		// Shift during draw/highlighter temporarily erases.
		if (en.tool == ToolDraw || en.tool == ToolHighlighter) && !en.shiftErase {
			en.shiftErase = true
			en.prevTool = en.tool
			en.tool = ToolErase
		}
	case KeyEscape:
		en.CancelCrop()
		en.CancelRef()
		en.CancelAIRotate()
		en.store.ClearSelection()
	}
}

// KeyUp resolves the momentary overrides. A space tap shorter than the
// threshold toggles the pan tool; a longer hold was a momentary pan and
// reverts to the previous tool.
func (en *Engine) KeyUp(key string) {
	switch key {
	case KeySpace:
		if !en.spaceHeld {
			return
		}
		en.spaceHeld = false
		if en.Now().Sub(en.spaceDownAt) < spacePanTap {
			if en.tool == ToolPan {
				en.tool = en.prevTool
			} else {
				en.prevTool = en.tool
				en.tool = ToolPan
			}
		} else {
			en.tool = en.prevTool
		}
	case KeyShiftL, KeyShiftR:
		if en.shiftErase {
			en.shiftErase = false
			en.tool = en.prevTool
		}
	}
}
