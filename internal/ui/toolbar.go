package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"GenCanvas/internal/interaction"
	"GenCanvas/internal/scene"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	Hex      string
	OnTapped func(hex string)
}

func newColorSwatch(hex string, tapped func(hex string)) *colorSwatch {
	s := &colorSwatch{Color: parseColor(hex, color.Black), Hex: hex, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

var toolChoices = []struct {
	label string
	tool  interaction.Tool
}{
	{"Select", interaction.ToolSelect},
	{"Pan", interaction.ToolPan},
	{"Draw", interaction.ToolDraw},
	{"Highlighter", interaction.ToolHighlighter},
	{"Shape", interaction.ToolShape},
	{"Frame", interaction.ToolFrame},
	{"Arrow", interaction.ToolArrow},
	{"Line", interaction.ToolLine},
	{"Text", interaction.ToolText},
	{"Erase", interaction.ToolErase},
	{"Lasso", interaction.ToolLasso},
}

var swatchHexes = []string{
	"#1a1a1a", "#e03131", "#2f9e44", "#1971c2", "#f08c00", "#ae3ec9", "#ffffff",
}

// --- The Main Toolbar ---
func NewToolbar(w *CanvasWidget) fyne.CanvasObject {
	engine := w.engine

	// --- Tool picker ---
	labels := make([]string, len(toolChoices))
	for i, tc := range toolChoices {
		labels[i] = tc.label
	}
	toolSelect := widget.NewSelect(labels, func(label string) {
		for _, tc := range toolChoices {
			if tc.label == label {
				engine.SetTool(tc.tool)
				return
			}
		}
	})
	toolSelect.SetSelected("Select")

	shapeSelect := widget.NewSelect([]string{"Rectangle", "Circle", "Triangle"}, func(label string) {
		switch label {
		case "Circle":
			engine.SetShapeKind(scene.ShapeCircle)
		case "Triangle":
			engine.SetShapeKind(scene.ShapeTriangle)
		default:
			engine.SetShapeKind(scene.ShapeRectangle)
		}
	})
	shapeSelect.SetSelected("Rectangle")

	// --- Color Palette ---
	// Swatches restyle the selection when one exists, otherwise they set the
	// default for the next drawn element.
	strokeMode := true
	onColorTapped := func(hex string) {
		if strokeMode {
			engine.StrokeColor = hex
			engine.SetSelectionStroke(hex, false)
		} else {
			engine.FillColor = hex
			engine.SetSelectionFill(hex, false)
		}
	}
	colorBox := container.NewHBox()
	for _, hex := range swatchHexes {
		colorBox.Add(newColorSwatch(hex, onColorTapped))
	}
	targetSelect := widget.NewSelect([]string{"Stroke", "Fill"}, func(label string) {
		strokeMode = label == "Stroke"
	})
	targetSelect.SetSelected("Stroke")

	// --- Stroke Width Slider ---
	strokeSlider := widget.NewSlider(1.0, 24.0)
	strokeSlider.SetValue(float64(engine.StrokeWidth))
	strokeSlider.OnChanged = func(val float64) {
		engine.StrokeWidth = float32(val)
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), strokeSlider)

	// --- Opacity Slider (live preview, commits on release) ---
	opacitySlider := widget.NewSlider(0.1, 1.0)
	opacitySlider.Step = 0.05
	opacitySlider.SetValue(1.0)
	opacitySlider.OnChanged = func(val float64) {
		engine.SetSelectionOpacity(float32(val), true)
	}
	opacitySlider.OnChangeEnded = func(val float64) {
		engine.SetSelectionOpacity(float32(val), false)
	}
	opacityContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(90, 35)), opacitySlider)

	// --- History / arrangement actions ---
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), w.store.Undo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), w.store.Redo),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentCopyIcon(), engine.DuplicateSelection),
		widget.NewToolbarAction(theme.DeleteIcon(), engine.DeleteSelection),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.MoveUpIcon(), engine.BringForward),
		widget.NewToolbarAction(theme.MoveDownIcon(), engine.SendBackward),
		widget.NewToolbarAction(theme.FolderNewIcon(), engine.GroupSelection),
		widget.NewToolbarAction(theme.FolderOpenIcon(), engine.UngroupSelection),
	)

	return container.NewHBox(
		toolSelect,
		shapeSelect,
		widget.NewSeparator(),
		tb,
		widget.NewSeparator(),
		targetSelect,
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		widget.NewLabel("Opacity:"),
		opacityContainer,
		layout.NewSpacer(),
	)
}

// NewActionBar builds the second row: selection actions that need dialogs, AI
// operations and board management.
func NewActionBar(w *CanvasWidget, win fyne.Window) fyne.CanvasObject {
	engine := w.engine

	alignSelect := widget.NewSelect(
		[]string{"Left", "Right", "Top", "Bottom", "Center X", "Center Y"},
		func(label string) {
			switch label {
			case "Left":
				engine.AlignSelection(interaction.AlignLeft)
			case "Right":
				engine.AlignSelection(interaction.AlignRight)
			case "Top":
				engine.AlignSelection(interaction.AlignTop)
			case "Bottom":
				engine.AlignSelection(interaction.AlignBottom)
			case "Center X":
				engine.AlignSelection(interaction.AlignCenterX)
			case "Center Y":
				engine.AlignSelection(interaction.AlignCenterY)
			}
		})
	alignSelect.PlaceHolder = "Align"

	mergeBtn := widget.NewButton("Merge to image", engine.MergeSelectionToImage)

	zoomFrameBtn := widget.NewButton("Zoom to frame", func() {
		if !w.ZoomToSelectedFrame() {
			w.SetStatus("Select a single frame to zoom to")
		}
	})

	cropBtn := widget.NewButton("Crop", func() {
		if !engine.BeginCrop() {
			w.SetStatus("Select a single image to crop")
			return
		}
		w.SetStatus("Adjust the crop box, then confirm")
		w.Refresh()
	})
	cropOkBtn := widget.NewButton("Apply crop", func() {
		engine.ConfirmCrop()
		w.Refresh()
	})

	refBtn := widget.NewButton("Reference", func() {
		ids := w.store.SelectedIds()
		if len(ids) != 1 || !engine.BeginRef(ids[0]) {
			w.SetStatus("Select a single image to take a reference from")
			return
		}
		w.SetStatus("Drag the reference box, then confirm")
		w.Refresh()
	})
	refOkBtn := widget.NewButton("Place reference", func() {
		engine.ConfirmRef()
		w.Refresh()
	})

	aiEditBtn := widget.NewButton("AI edit", func() { promptDialog(w, win, "Edit selection", engine.EditSelection) })
	aiGenBtn := widget.NewButton("AI generate", func() {
		promptDialog(w, win, "Generate image", func(prompt string) {
			b := w.store.Active()
			center := screenCenterOnCanvas(b, w.Size())
			engine.GenerateImageAt(center, prompt, "1:1", 1)
		})
	})
	aiBgBtn := widget.NewButton("Remove bg", engine.RemoveBackgroundSelection)
	aiCombineBtn := widget.NewButton("Combine", engine.AutoCombineSelection)
	aiRotateBtn := widget.NewButton("AI rotate", func() {
		ids := w.store.SelectedIds()
		if len(ids) != 1 || !engine.BeginAIRotate(ids[0], interaction.AICamera) {
			w.SetStatus("Select a single generated image to rotate")
			return
		}
		w.SetStatus("Drag on the image to choose a new camera angle")
	})
	aiDescribeBtn := widget.NewButton("Describe", engine.DescribeSelection)
	aiVideoBtn := widget.NewButton("AI video", func() {
		promptDialog(w, win, "Generate video", engine.GenerateVideoSelection)
	})

	return container.NewHBox(
		alignSelect,
		mergeBtn,
		zoomFrameBtn,
		widget.NewSeparator(),
		cropBtn, cropOkBtn,
		refBtn, refOkBtn,
		widget.NewSeparator(),
		aiEditBtn, aiGenBtn, aiBgBtn, aiCombineBtn, aiRotateBtn, aiDescribeBtn, aiVideoBtn,
		layout.NewSpacer(),
		newBoardBar(w),
	)
}

// newBoardBar builds the board switcher with add/delete controls.
func newBoardBar(w *CanvasWidget) fyne.CanvasObject {
	boardSelect := widget.NewSelect(nil, nil)

	rebuild := func() {
		boards := w.store.Boards()
		names := make([]string, len(boards))
		active := w.store.Active()
		selected := ""
		for i, b := range boards {
			names[i] = b.Name
			if b.Id == active.Id {
				selected = b.Name
			}
		}
		boardSelect.Options = names
		boardSelect.Selected = selected
		boardSelect.Refresh()
	}

	boardSelect.OnChanged = func(name string) {
		for _, b := range w.store.Boards() {
			if b.Name == name {
				w.store.SetActiveBoard(b.Id)
				return
			}
		}
	}

	addBtn := widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() {
		w.store.AddBoard(fmt.Sprintf("Board %d", len(w.store.Boards())+1))
		rebuild()
	})
	delBtn := widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), func() {
		if !w.store.DeleteBoard(w.store.Active().Id) {
			w.SetStatus("Cannot delete the last board")
		}
		rebuild()
	})

	rebuild()
	return container.NewHBox(widget.NewLabel("Board:"), boardSelect, addBtn, delBtn)
}
