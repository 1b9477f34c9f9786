// Operation picker with parameter widgets generated from ParameterInfo
package gui

import (
	"fmt"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"image-transform-lab/internal/algorithms"
	"image-transform-lab/internal/config"
)

type ControlPanel struct {
	cfg    config.Config
	logger logrus.FieldLogger

	container *fyne.Container

	operationSelect *widget.Select
	currentParams   *fyne.Container
	descriptionText *widget.Label
	applyBtn        *widget.Button
	autoApply       *widget.Check

	// display label -> registry name
	labels    map[string]string
	operation string
	params    map[string]interface{}
	enabled   bool

	onApply func(name string, params map[string]interface{})
}

func NewControlPanel(cfg config.Config, logger logrus.FieldLogger) *ControlPanel {
	panel := &ControlPanel{
		cfg:    cfg,
		logger: logger,
		labels: make(map[string]string),
	}

	panel.initializeUI()
	return panel
}

func (cp *ControlPanel) initializeUI() {
	options := cp.operationOptions()

	cp.descriptionText = widget.NewLabel("")
	cp.descriptionText.Wrapping = fyne.TextWrapWord

	cp.currentParams = container.NewVBox(
		widget.NewLabel("Select an operation to edit parameters"),
	)

	cp.applyBtn = widget.NewButtonWithIcon("Apply", theme.MediaPlayIcon(), cp.apply)
	cp.applyBtn.Importance = widget.HighImportance

	cp.autoApply = widget.NewCheck("Apply on parameter change", nil)

	cp.operationSelect = widget.NewSelect(options, func(label string) {
		cp.selectOperation(cp.labels[label])
	})

	content := container.NewVBox(
		widget.NewCard("Operation", "", container.NewVBox(cp.operationSelect, cp.descriptionText)),
		widget.NewSeparator(),
		widget.NewCard("Parameters", "", cp.currentParams),
		cp.autoApply,
		cp.applyBtn,
	)

	cp.container = container.NewBorder(nil, nil, nil, nil, container.NewScroll(content))

	cp.operationSelect.SetSelected(options[0])
	cp.Disable()
}

// operationOptions lists "Category: Name" labels grouped by category
func (cp *ControlPanel) operationOptions() []string {
	categories := algorithms.GetAlgorithmsByCategory()
	keys := lo.Keys(categories)
	sort.Strings(keys)

	var options []string
	for _, category := range keys {
		for _, name := range categories[category] {
			algorithm, ok := algorithms.Get(name)
			if !ok {
				continue
			}
			label := fmt.Sprintf("%s: %s", category, algorithm.GetName())
			cp.labels[label] = name
			options = append(options, label)
		}
	}
	return options
}

func (cp *ControlPanel) selectOperation(name string) {
	algorithm, ok := algorithms.Get(name)
	if !ok {
		return
	}

	cp.operation = name
	cp.params = algorithms.ParamsFromConfig(name, cp.cfg)
	cp.descriptionText.SetText(algorithm.GetDescription())
	cp.logger.WithField("operation", name).Debug("Operation selected")

	cp.currentParams.RemoveAll()
	if algorithm.InputCount() > 1 {
		cp.currentParams.Add(widget.NewLabel("Needs both image A and image B."))
	}
	for _, param := range algorithm.GetParameterInfo() {
		cp.createParameterWidget(param)
	}
	if len(algorithm.GetParameterInfo()) == 0 {
		cp.currentParams.Add(widget.NewLabel("No parameters"))
	}
	cp.currentParams.Refresh()
}

func (cp *ControlPanel) createParameterWidget(param algorithms.ParameterInfo) {
	cp.currentParams.Add(widget.NewLabel(param.Name + ":"))

	switch param.Type {
	case "float":
		slider := widget.NewSlider(param.Min.(float64), param.Max.(float64))
		slider.Step = 0.5
		if val, ok := cp.params[param.Name].(float64); ok {
			slider.SetValue(val)
		}

		valueLabel := widget.NewLabel(fmt.Sprintf("%.1f", slider.Value))
		slider.OnChanged = func(value float64) {
			valueLabel.SetText(fmt.Sprintf("%.1f", value))
			cp.params[param.Name] = value
		}
		slider.OnChangeEnded = func(float64) { cp.refreshProcessing() }

		cp.currentParams.Add(container.NewBorder(nil, nil, nil, valueLabel, slider))

	case "bool":
		check := widget.NewCheck("", nil)
		if val, ok := cp.params[param.Name].(bool); ok {
			check.SetChecked(val)
		}
		check.OnChanged = func(checked bool) {
			cp.params[param.Name] = checked
			cp.refreshProcessing()
		}
		cp.currentParams.Add(check)
	}

	cp.currentParams.Add(widget.NewLabel(param.Description))
	cp.currentParams.Add(widget.NewSeparator())
}

func (cp *ControlPanel) refreshProcessing() {
	if cp.enabled && cp.autoApply.Checked {
		cp.apply()
	}
}

func (cp *ControlPanel) apply() {
	if cp.onApply == nil || cp.operation == "" {
		return
	}
	params := make(map[string]interface{}, len(cp.params))
	for k, v := range cp.params {
		params[k] = v
	}
	cp.onApply(cp.operation, params)
}

func (cp *ControlPanel) GetContainer() fyne.CanvasObject {
	return cp.container
}

func (cp *ControlPanel) Enable() {
	cp.enabled = true
	cp.applyBtn.Enable()
}

func (cp *ControlPanel) Disable() {
	cp.enabled = false
	cp.applyBtn.Disable()
}

// SetBusy relabels Apply while a run is in flight
func (cp *ControlPanel) SetBusy(busy bool) {
	if busy {
		cp.applyBtn.SetText("Running...")
		return
	}
	cp.applyBtn.SetText("Apply")
}

func (cp *ControlPanel) SetCallbacks(onApply func(string, map[string]interface{})) {
	cp.onApply = onApply
}
