// Menu handler for application actions
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-transform-lab/internal/core"
	"image-transform-lab/internal/io"
)

// MenuHandler handles menu actions
type MenuHandler struct {
	window    fyne.Window
	workspace *core.Workspace
	loader    *io.ImageLoader
	logger    logrus.FieldLogger

	onImageLoaded  func(core.Slot, string)
	onOutputsSaved func([]string)
	onReset        func()
}

func NewMenuHandler(window fyne.Window, workspace *core.Workspace, loader *io.ImageLoader, logger logrus.FieldLogger) *MenuHandler {
	return &MenuHandler{
		window:    window,
		workspace: workspace,
		loader:    loader,
		logger:    logger,
	}
}

func (mh *MenuHandler) GetMainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image A...", func() { mh.openImage(core.SlotA) }),
		fyne.NewMenuItem("Open Image B...", func() { mh.openImage(core.SlotB) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Outputs...", mh.saveOutputs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Exit", func() {
			mh.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Clear Outputs", func() {
			mh.workspace.ClearOutputs()
			mh.logger.Info("Outputs cleared")
			if mh.onReset != nil {
				mh.onReset()
			}
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mh.showAbout),
	)

	return fyne.NewMainMenu(fileMenu, editMenu, helpMenu)
}

func (mh *MenuHandler) openImage(slot core.Slot) {
	mh.logger.WithField("slot", slot).Info("Opening file dialog for image selection")

	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mh.showError("File Dialog Error", err)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		if err := mh.loadURI(slot, reader); err != nil {
			mh.showError("Failed to Load Image", err)
		}
	}, mh.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter(io.SupportedExtensions()))
	fileDialog.Show()
}

// loadURI reads local files by path so OpenCV handles every format it
// knows, and decodes any other URI from its stream.
func (mh *MenuHandler) loadURI(slot core.Slot, reader fyne.URIReadCloser) error {
	uri := reader.URI()
	if uri.Scheme() == "file" {
		return mh.LoadInto(slot, uri.Path())
	}

	mh.logger.WithField("uri", uri.String()).Debug("Decoding image from stream")
	if !io.IsSupportedFormat(uri.Name()) {
		return fmt.Errorf("%w: %s", io.ErrUnsupportedFormat, uri.Name())
	}
	mat, err := io.DecodeImage(reader)
	if err != nil {
		return err
	}
	defer mat.Close()
	return mh.store(slot, mat, uri.Name())
}

// LoadInto reads path and stores it in slot
func (mh *MenuHandler) LoadInto(slot core.Slot, path string) error {
	mat, err := mh.loader.LoadImage(path)
	if err != nil {
		return err
	}
	defer mat.Close()
	return mh.store(slot, mat, path)
}

func (mh *MenuHandler) store(slot core.Slot, mat gocv.Mat, path string) error {
	if err := mh.workspace.SetInput(slot, mat, path); err != nil {
		return err
	}

	if mh.onImageLoaded != nil {
		mh.onImageLoaded(slot, path)
	}
	return nil
}

func (mh *MenuHandler) saveOutputs() {
	if !mh.workspace.HasOutputs() {
		mh.showError("Nothing to Save", fmt.Errorf("run an operation first"))
		return
	}

	folderDialog := dialog.NewFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			mh.showError("File Dialog Error", err)
			return
		}
		if dir == nil {
			return
		}

		operation, outputs := mh.workspace.Outputs()
		defer func() {
			for _, out := range outputs {
				out.Mat.Close()
			}
		}()

		paths, err := mh.loader.SaveAll(dir.Path(), operation, outputs)
		if err != nil {
			mh.showError("Failed to Save Outputs", err)
			return
		}

		mh.logger.WithFields(logrus.Fields{
			"dir":   dir.Path(),
			"count": len(paths),
		}).Info("Outputs saved")

		if mh.onOutputsSaved != nil {
			mh.onOutputsSaved(paths)
		}
	}, mh.window)

	folderDialog.Show()
}

func (mh *MenuHandler) showAbout() {
	content := container.NewVBox(
		widget.NewLabel("Image Transform Lab"),
		widget.NewSeparator(),
		widget.NewLabel("Spatial edge detection: Sobel, Prewitt, Roberts, Canny"),
		widget.NewLabel("Frequency domain: Gaussian low and high pass, hybrid images"),
		widget.NewSeparator(),
		widget.NewLabel("Built with Go, Fyne and OpenCV"),
	)

	aboutDialog := dialog.NewCustom("About", "Close", content, mh.window)
	aboutDialog.Resize(fyne.NewSize(400, 250))
	aboutDialog.Show()
}

func (mh *MenuHandler) showError(title string, err error) {
	mh.logger.WithError(err).Error(title)
	dialog.ShowError(err, mh.window)
}

func (mh *MenuHandler) SetCallbacks(onImageLoaded func(core.Slot, string), onOutputsSaved func([]string), onReset func()) {
	mh.onImageLoaded = onImageLoaded
	mh.onOutputsSaved = onOutputsSaved
	mh.onReset = onReset
}
