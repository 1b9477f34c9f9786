// Runner executes one operation at a time against the workspace, off the UI
// thread, and reports rendered results back through a dispatcher.
package core

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-transform-lab/internal/algorithms"
	"image-transform-lab/internal/metrics"
)

var ErrSuperseded = errors.New("run superseded by a newer request")

// RenderedImage is an output already converted for display.
type RenderedImage struct {
	Name  string
	Image image.Image
}

// Result describes a completed run. It holds no OpenCV memory, so it is safe
// to hand to the UI thread.
type Result struct {
	Operation string
	Images    []RenderedImage
	Metrics   map[string]float64
	Summary   metrics.Summary
	Histogram image.Image
	Duration  time.Duration
}

// Dispatcher schedules fn on the thread that owns the UI. fyne.Do in the
// desktop app.
type Dispatcher func(fn func())

// Runner runs registered algorithms on the workspace inputs
type Runner struct {
	mu          sync.Mutex
	workspace   *Workspace
	metricsEval *metrics.Evaluator
	logger      logrus.FieldLogger
	dispatch    Dispatcher
	debugger    *PipelineDebugger

	processing bool
	cancel     context.CancelFunc
	generation uint64
	wg         sync.WaitGroup

	onResult func(Result)
	onError  func(error)
}

// NewRunner creates a runner. A nil dispatch calls callbacks directly.
func NewRunner(ws *Workspace, logger logrus.FieldLogger, dispatch Dispatcher) *Runner {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &Runner{
		workspace:   ws,
		metricsEval: metrics.NewEvaluator(),
		logger:      logger.WithField("component", "runner"),
		dispatch:    dispatch,
		debugger:    NewPipelineDebugger(logger, 100),
	}
}

// Debugger returns the run history
func (r *Runner) Debugger() *PipelineDebugger {
	return r.debugger
}

// SetCallbacks sets result and error callbacks
func (r *Runner) SetCallbacks(onResult func(Result), onError func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResult = onResult
	r.onError = onError
}

// Check reports whether name can run with params on the current workspace.
func (r *Runner) Check(name string, params map[string]interface{}) error {
	algorithm, ok := algorithms.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", algorithms.ErrNotFound, name)
	}
	if err := algorithm.Validate(params); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	if !r.workspace.HasInput(SlotA) {
		return fmt.Errorf("image A: %w", ErrNoImage)
	}
	if algorithm.InputCount() > 1 && !r.workspace.HasInput(SlotB) {
		return algorithms.ErrMissingSecondary
	}
	return nil
}

// Run starts name in the background, cancelling any run still in flight.
// Errors found before starting are returned directly; later ones go to the
// error callback. Only the latest run reaches a callback.
func (r *Runner) Run(name string, params map[string]interface{}) error {
	if err := r.Check(name, params); err != nil {
		r.logger.WithError(err).WithField("operation", name).Warn("Rejected run")
		return err
	}

	ctx, gen := r.begin()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.finish(gen)

		result, err := r.execute(ctx, name, params, func() bool {
			return ctx.Err() == nil && gen == r.generation
		})
		if errors.Is(err, ErrSuperseded) || ctx.Err() != nil {
			r.logger.WithField("operation", name).Debug("Discarded superseded result")
			return
		}

		r.mu.Lock()
		onResult, onError := r.onResult, r.onError
		r.mu.Unlock()

		if err != nil {
			if onError != nil {
				r.dispatch(func() {
					if r.isCurrent(gen) {
						onError(err)
					}
				})
			}
			return
		}
		if onResult != nil {
			r.dispatch(func() {
				if r.isCurrent(gen) {
					onResult(result)
				}
			})
		}
	}()
	return nil
}

// Execute runs name synchronously. Outputs are stored in the workspace unless
// ctx was cancelled or an input was replaced while the algorithm ran.
func (r *Runner) Execute(ctx context.Context, name string, params map[string]interface{}) (Result, error) {
	return r.execute(ctx, name, params, func() bool { return ctx.Err() == nil })
}

// execute runs name and commits its outputs. live is evaluated under r.mu
// right before the commit.
func (r *Runner) execute(ctx context.Context, name string, params map[string]interface{}, live func() bool) (Result, error) {
	start := time.Now()
	log := r.logger.WithField("operation", name)
	log.Debug("Starting run")

	inputs, version := r.workspace.Snapshot()
	defer inputs.Primary.Close()
	defer inputs.Secondary.Close()

	out, err := algorithms.Apply(name, inputs, params)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ErrSuperseded
		}
		log.WithError(err).Error("Operation failed")
		r.debugger.LogRun(name, time.Since(start), err)
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}

	if ctx.Err() != nil {
		out.Close()
		return Result{}, ErrSuperseded
	}

	primary := primaryOutput(out)
	result := Result{
		Operation: name,
		Metrics:   r.metricsEval.Compare(inputs.Primary, primary),
		Summary:   metrics.Summarize(primary),
	}

	plot := metrics.PlotHistogram(primary)
	result.Histogram, err = plot.ToImage()
	plot.Close()
	if err != nil {
		out.Close()
		return Result{}, fmt.Errorf("render histogram: %w", err)
	}

	for _, img := range out.Images {
		rendered, err := img.Mat.ToImage()
		if err != nil {
			out.Close()
			log.WithError(err).WithField("output", img.Name).Error("Failed to convert output")
			return Result{}, fmt.Errorf("convert %s: %w", img.Name, err)
		}
		result.Images = append(result.Images, RenderedImage{Name: img.Name, Image: rendered})
	}

	r.mu.Lock()
	committed := live() && r.workspace.CommitOutputs(version, name, out)
	r.mu.Unlock()
	if !committed {
		out.Close()
		log.Debug("Inputs changed or run superseded, outputs dropped")
		return Result{}, ErrSuperseded
	}

	result.Duration = time.Since(start)
	r.debugger.LogRun(name, result.Duration, nil)

	log.WithFields(logrus.Fields{
		"outputs":  len(result.Images),
		"entropy":  result.Summary.Entropy,
		"psnr":     result.Metrics["psnr"],
		"duration": result.Duration,
	}).Info("Run completed")
	return result, nil
}

// primaryOutput picks the image that metrics describe: the gradient
// magnitude when present, otherwise the first output.
func primaryOutput(out algorithms.Output) gocv.Mat {
	if mag, ok := out.Get("magnitude"); ok {
		return mag
	}
	return lo.FirstOrEmpty(out.Images).Mat
}

func (r *Runner) begin() (context.Context, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.logger.Debug("Cancelling previous run")
		r.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.generation++
	r.processing = true
	return ctx, r.generation
}

func (r *Runner) finish(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.generation {
		return
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.processing = false
}

// IsProcessing returns current processing state
func (r *Runner) IsProcessing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.processing
}

func (r *Runner) isCurrent(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return gen == r.generation
}

// Stop cancels the run in flight, if any. Callbacks still queued for it are
// dropped.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.generation++
	r.processing = false
}

// Wait blocks until every background run has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}
