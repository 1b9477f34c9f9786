// Main application window
package gui

import (
	"fmt"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"github.com/sirupsen/logrus"

	"image-transform-lab/internal/config"
	"image-transform-lab/internal/core"
	"image-transform-lab/internal/io"
	"image-transform-lab/internal/metrics"
)

// Application represents the main application
type Application struct {
	app       fyne.App
	window    fyne.Window
	logger    logrus.FieldLogger
	cfg       config.Config
	debugMode bool

	// Core components
	workspace *core.Workspace
	runner    *core.Runner
	loader    *io.ImageLoader

	// GUI components
	center      *CenterPanel
	controls    *ControlPanel
	info        *InfoPanel
	status      *StatusManager
	menuHandler *MenuHandler
}

func NewApplication(app fyne.App, logger logrus.FieldLogger, cfg config.Config) *Application {
	window := app.NewWindow("Image Transform Lab")
	window.Resize(fyne.NewSize(1500, 950))
	window.CenterOnScreen()

	appInstance := &Application{
		app:       app,
		window:    window,
		logger:    logger,
		cfg:       cfg,
		debugMode: cfg.Debug,
	}

	appInstance.initializeCore()
	appInstance.initializeGUI()
	appInstance.setupLayout()
	appInstance.setupCallbacks()

	return appInstance
}

func (a *Application) initializeCore() {
	a.workspace = core.NewWorkspace()
	a.runner = core.NewRunner(a.workspace, a.logger, fyne.Do)
	a.loader = io.NewImageLoader(a.logger)
}

func (a *Application) initializeGUI() {
	a.center = NewCenterPanel(a.logger)
	a.controls = NewControlPanel(a.cfg, a.logger)
	a.info = NewInfoPanel(a.logger, a.debugMode)
	a.status = NewStatusManager()
	a.menuHandler = NewMenuHandler(a.window, a.workspace, a.loader, a.logger)
}

func (a *Application) setupLayout() {
	centerAndRight := container.NewHSplit(
		a.center.GetContainer(),
		a.info.GetContainer(),
	)
	centerAndRight.SetOffset(0.75)

	mainContent := container.NewHSplit(
		a.controls.GetContainer(),
		centerAndRight,
	)
	mainContent.SetOffset(0.22)

	a.window.SetMainMenu(a.menuHandler.GetMainMenu())
	a.window.SetContent(container.NewBorder(nil, a.status.GetWidget(), nil, nil, mainContent))
}

func (a *Application) setupCallbacks() {
	// Runner callbacks arrive on the UI thread through fyne.Do
	a.runner.SetCallbacks(
		func(result core.Result) {
			a.controls.SetBusy(false)
			a.center.ShowOutputs(result.Images)
			a.info.ShowResult(result)
			a.info.ShowStats(a.runner.Debugger().GetStats())
			a.status.ShowSuccess(fmt.Sprintf("%s done in %s", result.Operation, result.Duration.Round(time.Millisecond)))
		},
		func(err error) {
			a.controls.SetBusy(false)
			a.info.ShowStats(a.runner.Debugger().GetStats())
			a.showError("Processing Error", err)
		},
	)

	a.controls.SetCallbacks(func(name string, params map[string]interface{}) {
		if err := a.runner.Run(name, params); err != nil {
			a.showError("Cannot Run", err)
			return
		}
		a.controls.SetBusy(true)
		a.status.ShowInfo(fmt.Sprintf("Running %s...", name))
	})

	a.menuHandler.SetCallbacks(
		// onImageLoaded
		func(slot core.Slot, path string) {
			a.runner.Stop()
			fyne.Do(func() {
				a.controls.SetBusy(false)
				a.refreshInput(slot)
				a.center.ClearOutputs()
				a.info.Clear()
				a.info.ShowImageInfo(a.workspace)
				a.controls.Enable()
				a.status.ShowSuccess(fmt.Sprintf("Loaded %s: %s", slot, filepath.Base(path)))
			})
		},
		// onOutputsSaved
		func(paths []string) {
			fyne.Do(func() {
				a.status.ShowSuccess(fmt.Sprintf("Saved %d images", len(paths)))
			})
		},
		// onReset
		func() {
			a.center.ClearOutputs()
			a.info.Clear()
			a.status.ShowInfo("Outputs cleared")
		},
	)
}

func (a *Application) refreshInput(slot core.Slot) {
	mat := a.workspace.Input(slot)
	defer mat.Close()

	img, err := mat.ToImage()
	if err != nil {
		a.showError("Display Error", err)
		return
	}
	meta := a.workspace.Metadata(slot)
	a.center.SetInput(slot, img, fmt.Sprintf("%dx%d %s", meta.Width, meta.Height, filepath.Base(a.workspace.Path(slot))))

	if slot != core.SlotA {
		return
	}
	plot := metrics.PlotHistogram(mat)
	defer plot.Close()
	if rendered, err := plot.ToImage(); err == nil {
		a.info.ShowInputHistogram(rendered)
	} else {
		a.logger.WithError(err).Warn("Could not render input histogram")
	}
}

// LoadImages preloads inputs given on the command line
func (a *Application) LoadImages(pathA, pathB string) {
	for slot, path := range map[core.Slot]string{core.SlotA: pathA, core.SlotB: pathB} {
		if path == "" {
			continue
		}
		if err := a.menuHandler.LoadInto(slot, path); err != nil {
			a.logger.WithError(err).WithField("slot", slot).Warn("Could not preload image")
		}
	}
}

func (a *Application) ShowAndRun() {
	a.logger.Info("Showing main application window")

	a.window.SetCloseIntercept(func() {
		a.cleanup()
		a.app.Quit()
	})

	a.window.ShowAndRun()
}

func (a *Application) cleanup() {
	a.logger.Info("Cleaning up application resources")
	a.runner.Stop()
	a.runner.Wait()
	a.workspace.Close()
}

func (a *Application) showError(title string, err error) {
	a.logger.WithError(err).Error(title)
	dialog.ShowError(err, a.window)
	a.status.ShowError(err)
}
