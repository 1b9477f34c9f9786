// Image Transform Lab desktop application
package main

import (
	"os"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"image-transform-lab/internal/config"
	"image-transform-lab/internal/gui"
	"image-transform-lab/internal/logging"
)

const (
	AppID      = "com.imagetransformlab.desktop"
	AppVersion = "1.0.0"
)

func main() {
	cfg := config.Default()
	cfg.BindFlags(pflag.CommandLine)
	imageA := pflag.String("image-a", "", "Image to open in slot A at startup")
	imageB := pflag.String("image-b", "", "Image to open in slot B at startup")
	pflag.Parse()

	logger := logging.New(os.Stdout, cfg.Debug)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": cfg.Debug,
	}).Info("Starting Image Transform Lab")

	myApp := app.NewWithID(AppID)
	myApp.SetIcon(theme.DocumentIcon())
	myApp.Settings().SetTheme(theme.DefaultTheme())

	mainApp := gui.NewApplication(myApp, logger, cfg)
	mainApp.LoadImages(*imageA, *imageB)
	mainApp.ShowAndRun()

	logger.Info("Application shutting down gracefully")
	os.Exit(0)
}
