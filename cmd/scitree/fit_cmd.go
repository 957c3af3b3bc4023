package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
)

type fitCmdConfig struct {
	*rootCmdConfig
	jobInput string
}

func fitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &fitCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Grow a tree from a CSV file",
		Long:  `Grow a tree as described by a YAML job file, print it and report its score on the training set.`,
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
			logScore(res)

			out := cmd.OutOrStdout()
			if len(res.classes) > 0 {
				fmt.Fprintf(out, "classes: %s\n", strings.Join(res.classes, ", "))
			}
			fmt.Fprint(out, res.tree)
			fmt.Fprintf(out, "%s: %.4f\n", res.scoreName(), res.score)
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.jobInput), "job", "c", "", "path to a YAML job file describing the data, target and hyperparameters (required)")
	return cmd
}

func (fc *fitCmdConfig) Validate() error {
	if fc.jobInput == "" {
		return errors.New("required job flag was not set")
	}
	return nil
}

func logScore(res *result) {
	key := log.AccuracyKey
	if res.task == taskRegression {
		key = log.R2ScoreKey
	}
	log.GetLoggerWithName("cli").Info("Training scored", key, res.score)
}
