// Workspace holding the two input images and the latest operation's outputs
package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"gocv.io/x/gocv"

	"image-transform-lab/internal/algorithms"
)

// Slot identifies one of the two input positions.
type Slot int

const (
	// SlotA is the primary input. Hybrid images take their low frequencies from it.
	SlotA Slot = iota
	// SlotB is the secondary input, used only by two-input operations.
	SlotB
)

func (s Slot) String() string {
	if s == SlotB {
		return "B"
	}
	return "A"
}

var ErrNoImage = errors.New("no image loaded")

// ImageMetadata contains image information
type ImageMetadata struct {
	Width    int
	Height   int
	Channels int
	Type     gocv.MatType
	Format   string
}

type input struct {
	mat      gocv.Mat
	path     string
	metadata ImageMetadata
}

// Workspace manages input and output images with thread safety. Every getter
// returns a clone the caller must close.
type Workspace struct {
	mu        sync.RWMutex
	inputs    [2]input
	outputs   algorithms.Output
	operation string

	// version changes whenever an input is replaced or cleared
	version uint64
}

// NewWorkspace creates an empty workspace
func NewWorkspace() *Workspace {
	ws := &Workspace{}
	for i := range ws.inputs {
		ws.inputs[i].mat = gocv.NewMat()
	}
	return ws
}

// SetInput validates mat and stores a copy of it in slot. Replacing an input
// discards the outputs computed from the old one.
func (ws *Workspace) SetInput(slot Slot, mat gocv.Mat, path string) error {
	if err := ValidateImage(mat); err != nil {
		return fmt.Errorf("image %s: %w", slot, err)
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	in := &ws.inputs[slot]
	in.mat.Close()
	in.mat = mat.Clone()
	in.path = path
	in.metadata = ImageMetadata{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		Type:     mat.Type(),
		Format:   formatFromPath(path),
	}

	ws.outputs.Close()
	ws.operation = ""
	ws.version++
	return nil
}

// Input returns a copy of the image in slot
func (ws *Workspace) Input(slot Slot) gocv.Mat {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.cloneInput(slot)
}

// Inputs returns copies of both inputs. Close both when done.
func (ws *Workspace) Inputs() algorithms.Inputs {
	inputs, _ := ws.Snapshot()
	return inputs
}

// Snapshot returns copies of both inputs together with the version they
// belong to. Pass the version to CommitOutputs.
func (ws *Workspace) Snapshot() (algorithms.Inputs, uint64) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	return algorithms.Inputs{
		Primary:   ws.cloneInput(SlotA),
		Secondary: ws.cloneInput(SlotB),
	}, ws.version
}

func (ws *Workspace) cloneInput(slot Slot) gocv.Mat {
	if ws.inputs[slot].mat.Empty() {
		return gocv.NewMat()
	}
	return ws.inputs[slot].mat.Clone()
}

func (ws *Workspace) HasInput(slot Slot) bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return !ws.inputs[slot].mat.Empty()
}

func (ws *Workspace) Metadata(slot Slot) ImageMetadata {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.inputs[slot].metadata
}

func (ws *Workspace) Path(slot Slot) string {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.inputs[slot].path
}

// CommitOutputs stores out as the latest outputs if the inputs are still the
// ones snapshotted at version. On success the workspace owns out; otherwise
// the caller keeps it.
func (ws *Workspace) CommitOutputs(version uint64, operation string, out algorithms.Output) bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if version != ws.version {
		return false
	}
	ws.outputs.Close()
	ws.outputs = out
	ws.operation = operation
	return true
}

// Outputs returns copies of the latest outputs and the operation that made them.
func (ws *Workspace) Outputs() (string, []algorithms.NamedImage) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	images := make([]algorithms.NamedImage, 0, len(ws.outputs.Images))
	for _, img := range ws.outputs.Images {
		images = append(images, algorithms.NamedImage{Name: img.Name, Mat: img.Mat.Clone()})
	}
	return ws.operation, images
}

func (ws *Workspace) HasOutputs() bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return len(ws.outputs.Images) > 0
}

// ClearOutputs drops the latest outputs but keeps the inputs
func (ws *Workspace) ClearOutputs() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	ws.outputs.Close()
	ws.operation = ""
}

// Clear clears all image data
func (ws *Workspace) Clear() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	for i := range ws.inputs {
		ws.inputs[i].mat.Close()
		ws.inputs[i] = input{mat: gocv.NewMat()}
	}
	ws.outputs.Close()
	ws.operation = ""
	ws.version++
}

// Close releases all resources
func (ws *Workspace) Close() {
	ws.Clear()
}

func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}

// ValidateImage validates an OpenCV Mat for basic requirements
func ValidateImage(mat gocv.Mat) error {
	if mat.Empty() {
		return algorithms.ErrEmptyInput
	}

	if mat.Cols() <= 0 || mat.Rows() <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", mat.Cols(), mat.Rows())
	}

	channels := mat.Channels()
	if channels != 1 && channels != 3 && channels != 4 {
		return fmt.Errorf("unsupported channel count: %d", channels)
	}

	const maxDimension = 16384
	if mat.Cols() > maxDimension || mat.Rows() > maxDimension {
		return fmt.Errorf("image too large: %dx%d (max: %d)", mat.Cols(), mat.Rows(), maxDimension)
	}

	return nil
}
