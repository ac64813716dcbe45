package ui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"GenCanvas/internal/export"
	"GenCanvas/internal/geom"
	"GenCanvas/internal/interaction"
	"GenCanvas/internal/scene"
)

// RunApp builds the window and blocks until it closes.
func RunApp(store *scene.Store, engine *interaction.Engine) {
	myApp := app.New()
	myWindow := myApp.NewWindow("GenCanvas")
	myWindow.Resize(fyne.NewSize(1280, 800))

	cw := NewCanvasWidget(store, engine)
	engine.OnStatus = cw.SetStatus
	engine.OnUploadAt = func(p geom.Point) { showUploadDialog(cw, myWindow, p) }
	engine.OnEditText = func(id string) { showTextDialog(cw, myWindow, id) }

	toolbar := NewToolbar(cw)
	actions := NewActionBar(cw, myWindow)
	top := container.NewVBox(toolbar, actions)

	content := container.NewBorder(top, cw.StatusBar(), nil, nil, cw)
	myWindow.SetContent(content)

	setupKeys(myWindow, engine)
	myWindow.SetMainMenu(buildMenu(cw, myWindow))

	myWindow.ShowAndRun()
}

// setupKeys forwards raw key events to the engine with tracked modifiers.
// fyne key events carry no modifier mask, so ctrl/shift are tracked from their
// own key-down/up events.
func setupKeys(win fyne.Window, engine *interaction.Engine) {
	deskCanvas, ok := win.Canvas().(desktop.Canvas)
	if !ok {
		log.Println("[ui] no desktop canvas; keyboard shortcuts disabled")
		return
	}

	var mods interaction.Modifiers
	deskCanvas.SetOnKeyDown(func(e *fyne.KeyEvent) {
		switch e.Name {
		case desktop.KeyControlLeft, desktop.KeyControlRight,
			desktop.KeySuperLeft, desktop.KeySuperRight:
			mods.Ctrl = true
		case desktop.KeyShiftLeft, desktop.KeyShiftRight:
			mods.Shift = true
		case desktop.KeyAltLeft, desktop.KeyAltRight:
			mods.Alt = true
		}
		if win.Canvas().Focused() != nil {
			return // a text entry has focus
		}
		engine.KeyDown(string(e.Name), mods)
	})
	deskCanvas.SetOnKeyUp(func(e *fyne.KeyEvent) {
		switch e.Name {
		case desktop.KeyControlLeft, desktop.KeyControlRight,
			desktop.KeySuperLeft, desktop.KeySuperRight:
			mods.Ctrl = false
		case desktop.KeyShiftLeft, desktop.KeyShiftRight:
			mods.Shift = false
		case desktop.KeyAltLeft, desktop.KeyAltRight:
			mods.Alt = false
		}
		if win.Canvas().Focused() != nil {
			return
		}
		engine.KeyUp(string(e.Name))
	})
}

func buildMenu(w *CanvasWidget, win fyne.Window) *fyne.MainMenu {
	saveItem := fyne.NewMenuItem("Save board…", func() { saveBoardDialog(w, win) })
	loadItem := fyne.NewMenuItem("Load board…", func() { loadBoardDialog(w, win) })
	pdfItem := fyne.NewMenuItem("Export PDF…", func() { exportPDFDialog(w, win) })
	return fyne.NewMainMenu(fyne.NewMenu("File", saveItem, loadItem, pdfItem))
}

func saveBoardDialog(w *CanvasWidget, win fyne.Window) {
	dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := export.SaveBoard(wc, w.store.Active()); err != nil {
			log.Printf("[ui] save board: %v", err)
			w.SetStatus("Save failed: " + err.Error())
			return
		}
		w.SetStatus("Board saved")
	}, win)
}

func loadBoardDialog(w *CanvasWidget, win fyne.Window) {
	dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		b, err := export.LoadBoard(rc)
		if err != nil {
			log.Printf("[ui] load board: %v", err)
			w.SetStatus("Load failed: " + err.Error())
			return
		}
		w.store.AdoptBoard(b)
		w.SetStatus("Loaded board " + b.Name)
	}, win)
}

func exportPDFDialog(w *CanvasWidget, win fyne.Window) {
	dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		path := wc.URI().Path()
		wc.Close()
		if err := export.PDF(path, w.store.Active()); err != nil {
			log.Printf("[ui] export pdf: %v", err)
			w.SetStatus("Export failed: " + err.Error())
			return
		}
		w.SetStatus("Exported " + path)
	}, win)
}

// showTextDialog edits a text element's content or a frame's name inline.
func showTextDialog(w *CanvasWidget, win fyne.Window, id string) {
	e := scene.Find(w.store.Elements(), id)
	if e == nil {
		return
	}
	entry := widget.NewMultiLineEntry()
	title := "Edit text"
	if e.Kind == scene.KindFrame {
		entry = widget.NewEntry()
		entry.SetText(e.Name)
		title = "Rename frame"
	} else {
		entry.SetText(e.Content)
	}
	d := dialog.NewCustomConfirm(title, "Apply", "Cancel", entry, func(ok bool) {
		if !ok {
			return
		}
		w.engine.SetTextContent(id, entry.Text)
	}, win)
	d.Resize(fyne.NewSize(420, 200))
	d.Show()
}

// promptDialog asks for a free-text prompt and hands it to run.
func promptDialog(w *CanvasWidget, win fyne.Window, title string, run func(prompt string)) {
	entry := widget.NewEntry()
	entry.PlaceHolder = "Describe what you want…"
	d := dialog.NewCustomConfirm(title, "Go", "Cancel", entry, func(ok bool) {
		if !ok || entry.Text == "" {
			return
		}
		run(entry.Text)
	}, win)
	d.Resize(fyne.NewSize(420, 120))
	d.Show()
}

// screenCenterOnCanvas maps the viewport center to canvas space.
func screenCenterOnCanvas(b *scene.Board, size fyne.Size) geom.Point {
	return geom.ScreenToCanvas(geom.Pt(size.Width/2, size.Height/2), b.PanX, b.PanY, b.Zoom)
}
