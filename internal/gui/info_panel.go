// Info panel with quality metrics, output statistics and run history
package gui

import (
	"fmt"
	"image"
	"sort"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"image-transform-lab/internal/core"
)

// InfoPanel provides the right panel with metrics and image details
type InfoPanel struct {
	logger    logrus.FieldLogger
	debugMode bool

	container *fyne.Container

	metricsContent *fyne.Container
	summaryContent *fyne.Container
	imageContent   *fyne.Container
	statsContent   *fyne.Container

	inputHistogram  *canvas.Image
	outputHistogram *canvas.Image
}

func NewInfoPanel(logger logrus.FieldLogger, debugMode bool) *InfoPanel {
	panel := &InfoPanel{
		logger:    logger,
		debugMode: debugMode,
	}

	panel.initializeUI()
	return panel
}

func (ip *InfoPanel) initializeUI() {
	ip.metricsContent = container.NewVBox()
	ip.summaryContent = container.NewVBox()
	ip.imageContent = container.NewVBox(widget.NewLabel("No image loaded"))
	ip.statsContent = container.NewVBox()
	ip.inputHistogram = newHistogramImage()
	ip.outputHistogram = newHistogramImage()

	cards := []fyne.CanvasObject{
		widget.NewCard("📄 Images", "", ip.imageContent),
		widget.NewCard("📊 Quality Metrics", "vs. image A", ip.metricsContent),
		widget.NewCard("📈 Output Statistics", "", ip.summaryContent),
		widget.NewCard("📉 Histogram", "gray levels of A and of the output", container.NewVBox(
			widget.NewLabel("Image A"),
			ip.inputHistogram,
			widget.NewLabel("Output"),
			ip.outputHistogram,
		)),
	}
	if ip.debugMode {
		cards = append(cards, widget.NewCard("🐞 Run History", "", ip.statsContent))
	}

	scroll := container.NewScroll(container.NewVBox(cards...))
	scroll.SetMinSize(fyne.NewSize(300, 600))

	ip.container = container.NewBorder(nil, nil, nil, nil, scroll)
	ip.Clear()
}

func (ip *InfoPanel) GetContainer() fyne.CanvasObject {
	return ip.container
}

// ShowResult displays metrics and statistics of a completed run
func (ip *InfoPanel) ShowResult(result core.Result) {
	ip.logger.WithField("operation", result.Operation).Debug("Showing result")

	ip.metricsContent.RemoveAll()
	if len(result.Metrics) == 0 {
		ip.metricsContent.Add(widget.NewLabel("Not comparable with image A"))
	}
	names := lo.Keys(result.Metrics)
	sort.Strings(names)
	for _, name := range names {
		ip.metricsContent.Add(ip.createMetricWidget(name, result.Metrics[name]))
	}
	ip.metricsContent.Refresh()

	s := result.Summary
	ip.summaryContent.RemoveAll()
	ip.summaryContent.Add(widget.NewLabel(fmt.Sprintf("Size: %dx%d", s.Width, s.Height)))
	ip.summaryContent.Add(widget.NewLabel(fmt.Sprintf("Mean: %.2f", s.Mean)))
	ip.summaryContent.Add(widget.NewLabel(fmt.Sprintf("Variance: %.2f", s.Variance)))
	ip.summaryContent.Add(widget.NewLabel(fmt.Sprintf("Entropy: %.3f bits (%s)", s.Entropy, s.Level)))
	description := widget.NewLabel(s.Level.Description())
	description.Wrapping = fyne.TextWrapWord
	ip.summaryContent.Add(description)
	ip.summaryContent.Add(widget.NewLabel(fmt.Sprintf("Took %s", result.Duration.Round(time.Millisecond))))
	ip.summaryContent.Refresh()

	setHistogram(ip.outputHistogram, result.Histogram)
}

// ShowInputHistogram displays the gray-level plot of image A
func (ip *InfoPanel) ShowInputHistogram(plot image.Image) {
	setHistogram(ip.inputHistogram, plot)
}

func newHistogramImage() *canvas.Image {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(256, 200))
	return img
}

func setHistogram(target *canvas.Image, plot image.Image) {
	target.Image = plot
	target.Refresh()
}

// ShowStats lists per-operation run counts in debug mode
func (ip *InfoPanel) ShowStats(stats []core.OperationStats) {
	if !ip.debugMode {
		return
	}
	ip.statsContent.RemoveAll()
	for _, s := range stats {
		ip.statsContent.Add(widget.NewLabel(fmt.Sprintf("%s: %d runs, %d failed, avg %s",
			s.Operation, s.Runs, s.Failures, s.AvgDuration.Round(time.Millisecond))))
	}
	ip.statsContent.Refresh()
}

func (ip *InfoPanel) createMetricWidget(name string, value float64) fyne.CanvasObject {
	var displayText, qualityText string
	var qualityIcon fyne.Resource

	grade := func(excellent, good, fair bool) {
		switch {
		case excellent:
			qualityText, qualityIcon = "Excellent", theme.ConfirmIcon()
		case good:
			qualityText, qualityIcon = "Good", theme.InfoIcon()
		case fair:
			qualityText, qualityIcon = "Fair", theme.WarningIcon()
		default:
			qualityText, qualityIcon = "Poor", theme.ErrorIcon()
		}
	}

	switch name {
	case "psnr":
		displayText = fmt.Sprintf("PSNR: %.2f dB", value)
		grade(value > 40, value > 30, value > 20)
	case "ssim":
		displayText = fmt.Sprintf("SSIM: %.3f", value)
		grade(value > 0.95, value > 0.8, value > 0.6)
	case "mse":
		displayText = fmt.Sprintf("MSE: %.2f", value)
		grade(value < 100, value < 500, value < 1000)
	default:
		return container.NewVBox(widget.NewLabel(fmt.Sprintf("%s: %.3f", name, value)), widget.NewSeparator())
	}

	return container.NewVBox(
		widget.NewLabel(displayText),
		container.NewHBox(widget.NewIcon(qualityIcon), widget.NewLabel(qualityText)),
		widget.NewSeparator(),
	)
}

// ShowImageInfo lists the loaded inputs
func (ip *InfoPanel) ShowImageInfo(ws *core.Workspace) {
	ip.imageContent.RemoveAll()
	for _, slot := range []core.Slot{core.SlotA, core.SlotB} {
		if !ws.HasInput(slot) {
			ip.imageContent.Add(widget.NewLabel(fmt.Sprintf("%s: not loaded", slot)))
			continue
		}
		meta := ws.Metadata(slot)
		ip.imageContent.Add(widget.NewLabel(fmt.Sprintf("%s: %dx%d, %d ch, %s",
			slot, meta.Width, meta.Height, meta.Channels, meta.Format)))
	}
	ip.imageContent.Refresh()
}

func (ip *InfoPanel) Clear() {
	ip.metricsContent.RemoveAll()
	ip.metricsContent.Add(widget.NewLabel("Quality metrics will appear here after a run."))
	ip.metricsContent.Refresh()

	ip.summaryContent.RemoveAll()
	ip.summaryContent.Add(widget.NewLabel("No output yet"))
	ip.summaryContent.Refresh()

	setHistogram(ip.outputHistogram, nil)
}

// StatusManager handles status messages and notifications
type StatusManager struct {
	widget    *widget.Card
	container *fyne.Container
}

func NewStatusManager() *StatusManager {
	manager := &StatusManager{}
	manager.container = container.NewHBox()
	manager.widget = widget.NewCard("", "", manager.container)
	manager.ShowInfo("Application ready")
	return manager
}

func (sm *StatusManager) GetWidget() fyne.CanvasObject {
	return sm.widget
}

func (sm *StatusManager) ShowInfo(message string) {
	sm.updateStatus(message, theme.InfoIcon())
}

func (sm *StatusManager) ShowSuccess(message string) {
	sm.updateStatus(message, theme.ConfirmIcon())
}

func (sm *StatusManager) ShowError(err error) {
	sm.updateStatus(fmt.Sprintf("Error: %s", err.Error()), theme.ErrorIcon())
}

func (sm *StatusManager) updateStatus(message string, icon fyne.Resource) {
	sm.container.RemoveAll()
	sm.container.Add(widget.NewIcon(icon))
	sm.container.Add(widget.NewLabel(message))
	sm.container.Refresh()
}
