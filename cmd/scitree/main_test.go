package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
)

const weatherCSV = `outlook,humidity,play
sunny,85,no
sunny,90,no
overcast,78,yes
rain,96,yes
rain,80,yes
rain,70,no
overcast,65,yes
sunny,95,no
sunny,70,yes
rain,80,yes
sunny,70,yes
overcast,90,yes
overcast,75,yes
rain,91,no
`

const stepCSV = `x,y
1,1
2,1
3,1
4,5
5,5
6,5
`

// writeJob stores data and a job referring to it in a temp dir and returns
// the job path.
func writeJob(t *testing.T, data, job string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte(data), 0o600))
	path := filepath.Join(dir, "job.yml")
	require.NoError(t, os.WriteFile(path, []byte(job), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() {
		errors.SetZerologWarnFunc(nil)
		log.SetProvider(log.NewZerologProvider(os.Stderr, log.LevelWarn, false))
	})
	var stdout, stderr bytes.Buffer
	cmd := cliParser()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "scitree v0.1.0\n", out)
}

func TestFitCmdClassification(t *testing.T) {
	path := writeJob(t, weatherCSV, `
data: data.csv
target: play
features:
  outlook: nominal
  humidity: numeric
params:
  min_samples_split: 2
  min_samples_leaf: 1
`)
	out, _, err := runCLI(t, "fit", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "classes: no, yes\n")
	assert.Contains(t, out, "training accuracy: ")
	assert.Contains(t, out, "|--- ")
}

func TestFitCmdRegression(t *testing.T) {
	path := writeJob(t, stepCSV, `
data: data.csv
target: y
task: regression
`)
	out, _, err := runCLI(t, "fit", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "|--- x <= 3.5: ")
	assert.Contains(t, out, "|--- x > 3.5: ")
	assert.Contains(t, out, "training r2: 1.0000\n")
	assert.NotContains(t, out, "classes:")
}

func TestFitCmdVerboseLogs(t *testing.T) {
	path := writeJob(t, stepCSV, "data: data.csv\ntarget: y\ntask: regression\n")
	_, stderr, err := runCLI(t, "fit", "-v", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Training set loaded")
	assert.Contains(t, stderr, `"tree.condition":"x <= 3.5"`)
	assert.Contains(t, stderr, log.R2ScoreKey)
}

func TestFitCmdErrors(t *testing.T) {
	t.Run("missing job flag", func(t *testing.T) {
		_, _, err := runCLI(t, "fit")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "required job flag")
	})

	t.Run("missing job file", func(t *testing.T) {
		_, _, err := runCLI(t, "fit", "-c", filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading job file")
	})

	t.Run("unknown parameter", func(t *testing.T) {
		path := writeJob(t, stepCSV, "data: data.csv\ntarget: y\ntask: regression\nparams:\n  depth: 3\n")
		_, _, err := runCLI(t, "fit", "-c", path)
		var verr *errors.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "depth", verr.ParamName)
	})

	t.Run("class weight for unseen label", func(t *testing.T) {
		path := writeJob(t, weatherCSV, "data: data.csv\ntarget: play\nclass_weight:\n  maybe: 2\n")
		_, _, err := runCLI(t, "fit", "-c", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "class_weight")
	})

	t.Run("single class", func(t *testing.T) {
		path := writeJob(t, "x,y\n1,a\n2,a\n", "data: data.csv\ntarget: y\n")
		_, _, err := runCLI(t, "fit", "-c", path)
		var verr *errors.ValueError
		require.True(t, errors.As(err, &verr))
	})

	t.Run("non numeric regression target", func(t *testing.T) {
		path := writeJob(t, "x,y\n1,a\n2,b\n", "data: data.csv\ntarget: y\ntask: regression\n")
		_, _, err := runCLI(t, "fit", "-c", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `target column "y"`)
	})

	t.Run("bad log level", func(t *testing.T) {
		_, _, err := runCLI(t, "version", "--log-level", "loud")
		var verr *errors.ValidationError
		require.True(t, errors.As(err, &verr))
	})
}

func TestImportanceCmd(t *testing.T) {
	path := writeJob(t, stepCSV, "data: data.csv\ntarget: y\ntask: regression\n")
	chart := filepath.Join(t.TempDir(), "importances.png")

	out, _, err := runCLI(t, "importance", "-c", path, "-o", chart)
	require.NoError(t, err)
	assert.Equal(t, "x\t1.0000\n", out)

	info, err := os.Stat(chart)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestImportanceCmdListsEveryFeature(t *testing.T) {
	path := writeJob(t, weatherCSV, `
data: data.csv
target: play
params:
  min_samples_split: 2
  min_samples_leaf: 1
`)
	out, _, err := runCLI(t, "importance", "-c", path)
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^outlook\t[01]\.\d{4}$`, out)
	assert.Regexp(t, `(?m)^humidity\t[01]\.\d{4}$`, out)
}

func TestRenderImportancesRejectsEmptyInput(t *testing.T) {
	err := renderImportances(filepath.Join(t.TempDir(), "c.png"), "t", nil, nil)
	var derr *errors.DimensionError
	assert.True(t, errors.As(err, &derr))
}
