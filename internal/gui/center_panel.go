// Image display area: the two inputs on top, operation outputs below
package gui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-transform-lab/internal/core"
)

type CenterPanel struct {
	logger logrus.FieldLogger

	container *fyne.Container

	inputImages [2]*canvas.Image
	inputCards  [2]*widget.Card
	outputGrid  *fyne.Container
}

func NewCenterPanel(logger logrus.FieldLogger) *CenterPanel {
	panel := &CenterPanel{logger: logger}
	panel.initializeUI()
	return panel
}

func (cp *CenterPanel) initializeUI() {
	placeholder := createPlaceholderImage()

	for i, title := range []string{"Image A", "Image B"} {
		img := canvas.NewImageFromImage(placeholder)
		img.FillMode = canvas.ImageFillContain
		img.ScaleMode = canvas.ImageScalePixels
		img.SetMinSize(fyne.NewSize(320, 240))

		cp.inputImages[i] = img
		cp.inputCards[i] = widget.NewCard(title, "Not loaded", img)
	}

	cp.outputGrid = container.NewGridWrap(fyne.NewSize(320, 280))
	cp.ClearOutputs()

	inputs := container.NewGridWithColumns(2, cp.inputCards[0], cp.inputCards[1])
	split := container.NewVSplit(inputs, container.NewScroll(cp.outputGrid))
	split.SetOffset(0.45)

	cp.container = container.NewBorder(nil, nil, nil, nil, split)
}

// SetInput shows img in the card of slot
func (cp *CenterPanel) SetInput(slot core.Slot, img image.Image, subtitle string) {
	cp.inputImages[slot].Image = img
	cp.inputImages[slot].Refresh()
	cp.inputCards[slot].SetSubTitle(subtitle)
}

// ShowOutputs replaces the output grid with one card per image
func (cp *CenterPanel) ShowOutputs(images []core.RenderedImage) {
	cp.outputGrid.RemoveAll()
	for _, out := range images {
		img := canvas.NewImageFromImage(out.Image)
		img.FillMode = canvas.ImageFillContain
		img.ScaleMode = canvas.ImageScalePixels
		cp.outputGrid.Add(widget.NewCard(out.Name, "", img))
	}
	cp.outputGrid.Refresh()
	cp.logger.WithField("count", len(images)).Debug("Output grid updated")
}

func (cp *CenterPanel) ClearOutputs() {
	cp.outputGrid.RemoveAll()
	cp.outputGrid.Add(widget.NewLabel("Run an operation to see its outputs here."))
	cp.outputGrid.Refresh()
}

func (cp *CenterPanel) GetContainer() fyne.CanvasObject {
	return cp.container
}

func createPlaceholderImage() image.Image {
	img := image.NewGray(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: 230})
		}
	}
	return img
}
