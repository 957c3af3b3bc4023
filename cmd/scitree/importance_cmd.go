package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/scitree/pkg/errors"
)

type importanceCmdConfig struct {
	*rootCmdConfig
	jobInput string
	output   string
}

func importanceCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &importanceCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "importance",
		Short: "Report how much each feature contributes to a grown tree",
		Long:  `Grow a tree as described by a YAML job file and print the normalized error decrease credited to each feature. With --output the values are also drawn as a bar chart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Validate(); err != nil {
				return err
			}
			j, err := readJobFile(config.jobInput)
			if err != nil {
				return err
			}
			res, err := train(j, config.verbose)
			if err != nil {
				return errors.Wrap(err, "growing the tree")
			}

			out := cmd.OutOrStdout()
			for i, name := range res.names {
				fmt.Fprintf(out, "%s\t%.4f\n", name, res.importances[i])
			}
			if config.output == "" {
				return nil
			}
			title := fmt.Sprintf("Feature importances for %s", j.Target)
			return errors.SafeExecute("rendering importances", func() error {
				return renderImportances(config.output, title, res.names, res.importances)
			})
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.jobInput), "job", "c", "", "path to a YAML job file describing the data, target and hyperparameters (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path of an image file (.png, .svg, .pdf) to draw the importances to")
	return cmd
}

func (ic *importanceCmdConfig) Validate() error {
	if ic.jobInput == "" {
		return errors.New("required job flag was not set")
	}
	return nil
}

// renderImportances draws one bar per feature. The image format follows
// the extension of path.
func renderImportances(path, title string, names []string, importances []float64) error {
	if len(names) == 0 || len(names) != len(importances) {
		return errors.NewDimensionError("renderImportances", len(names), len(importances), 1)
	}
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "importance"
	p.Y.Min = 0
	p.Y.Max = 1

	bars, err := plotter.NewBarChart(plotter.Values(importances), vg.Points(20))
	if err != nil {
		return errors.Wrap(err, "building bar chart")
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)

	width := vg.Length(len(names))*vg.Centimeter + 8*vg.Centimeter
	if err := p.Save(width, 10*vg.Centimeter, path); err != nil {
		return errors.Wrapf(err, "saving chart to %s", path)
	}
	return nil
}
