package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"image-transform-lab/internal/algorithms"
	"image-transform-lab/internal/config"
	"image-transform-lab/internal/core"
	"image-transform-lab/internal/frequency"
	"image-transform-lab/internal/io"
	"image-transform-lab/internal/logging"
	"image-transform-lab/internal/metrics"
	"image-transform-lab/internal/spatial"
)

// app carries the state shared by every subcommand
type app struct {
	cfg    config.Config
	logger *logrus.Logger
	loader *io.ImageLoader
}

func newRootCommand() *cobra.Command {
	a := &app{cfg: config.Default()}

	root := &cobra.Command{
		Use:           "imagelab",
		Short:         "Edge detection, frequency filtering and hybrid images",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			a.logger = logging.New(cmd.ErrOrStderr(), a.cfg.Debug)
			a.loader = io.NewImageLoader(a.logger)
			return nil
		},
	}
	a.cfg.BindFlags(root.PersistentFlags())

	root.AddCommand(
		a.edgesCommand(),
		a.filterCommand(),
		a.hybridCommand(),
		a.entropyCommand(),
		a.listCommand(),
	)
	return root
}

func (a *app) edgesCommand() *cobra.Command {
	var operator string
	var strip bool

	cmd := &cobra.Command{
		Use:   "edges IMAGE",
		Short: "Run a Sobel, Prewitt, Roberts or Canny edge detector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := spatial.ParseOperator(operator)
			if err != nil {
				return err
			}
			name := op.String()
			params := algorithms.ParamsFromConfig(name, a.cfg)
			if op.IsGradient() {
				params["preview_strip"] = strip
			}
			return a.run(cmd, name, params, args[0], "")
		},
	}
	cmd.Flags().StringVar(&operator, "operator", "sobel", "sobel, prewitt, roberts or canny")
	cmd.Flags().BoolVar(&strip, "strip", false, "Also write X | Y | magnitude side by side")
	return cmd
}

func (a *app) filterCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "filter IMAGE",
		Short: "Apply a Gaussian low- or high-pass filter in the frequency domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := frequency.ParseMode(mode)
			if err != nil {
				return err
			}
			name := "gaussian_low_pass"
			if m == frequency.HighPass {
				name = "gaussian_high_pass"
			}
			return a.run(cmd, name, algorithms.ParamsFromConfig(name, a.cfg), args[0], "")
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "low", "low or high")
	return cmd
}

func (a *app) hybridCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hybrid IMAGE_A IMAGE_B",
		Short: "Combine the low frequencies of A with the high frequencies of B",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, "hybrid", algorithms.ParamsFromConfig("hybrid", a.cfg), args[0], args[1])
		},
	}
}

func (a *app) entropyCommand() *cobra.Command {
	var plot bool

	cmd := &cobra.Command{
		Use:   "entropy IMAGE...",
		Short: "Print mean, variance and Shannon entropy of grayscale images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				img, err := a.loader.LoadImageGrayscale(path)
				if err != nil {
					return err
				}
				s := metrics.Summarize(img)

				var saved []string
				if plot {
					graph := metrics.PlotHistogram(img)
					base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
					saved, err = a.loader.SaveAll(a.cfg.OutputDir, base, []algorithms.NamedImage{{Name: "histogram", Mat: graph}})
					graph.Close()
				}
				img.Close()
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "%s\t%dx%d\tmean=%.2f\tvariance=%.2f\tentropy=%.3f\t%s\n",
					path, s.Width, s.Height, s.Mean, s.Variance, s.Entropy, s.Level)
				for _, p := range saved {
					fmt.Fprintln(out, p)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&plot, "plot", false, "Also write a histogram graph to the output directory")
	return cmd
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered operations and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			categories := algorithms.GetAlgorithmsByCategory()
			keys := lo.Keys(categories)
			sort.Strings(keys)

			for _, category := range keys {
				fmt.Fprintf(out, "%s:\n", category)
				for _, name := range categories[category] {
					algorithm, _ := algorithms.Get(name)
					params := lo.Map(algorithm.GetParameterInfo(), func(p algorithms.ParameterInfo, _ int) string {
						return fmt.Sprintf("%s=%v", p.Name, p.Default)
					})
					fmt.Fprintf(out, "  %-20s %s [%s]\n", name, algorithm.GetDescription(), strings.Join(params, ", "))
				}
			}
			return nil
		},
	}
}

// run loads the inputs, executes name through the runner and writes every
// output to the configured directory.
func (a *app) run(cmd *cobra.Command, name string, params map[string]interface{}, pathA, pathB string) error {
	ws := core.NewWorkspace()
	defer ws.Close()

	for slot, path := range map[core.Slot]string{core.SlotA: pathA, core.SlotB: pathB} {
		if path == "" {
			continue
		}
		mat, err := a.loader.LoadImage(path)
		if err != nil {
			return err
		}
		err = ws.SetInput(slot, mat, path)
		mat.Close()
		if err != nil {
			return err
		}
	}

	runner := core.NewRunner(ws, a.logger, nil)
	if err := runner.Check(name, params); err != nil {
		return err
	}
	result, err := runner.Execute(cmd.Context(), name, params)
	if err != nil {
		return err
	}

	operation, outputs := ws.Outputs()
	defer func() {
		for _, o := range outputs {
			o.Mat.Close()
		}
	}()

	paths, err := a.loader.SaveAll(a.cfg.OutputDir, operation, outputs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	names := lo.Keys(result.Metrics)
	sort.Strings(names)
	for _, m := range names {
		fmt.Fprintf(out, "%s=%.3f\n", m, result.Metrics[m])
	}
	fmt.Fprintf(out, "entropy=%.3f (%s)\n", result.Summary.Entropy, result.Summary.Level)
	return nil
}
