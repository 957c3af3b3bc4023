package main

import (
	"encoding/csv"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/tree"
)

// table is a CSV file split into the feature frame and the raw target
// column.
type table struct {
	features *tree.Frame
	target   []string
}

func loadTable(j *job) (*table, error) {
	f, err := os.Open(j.Data)
	if err != nil {
		return nil, errors.Wrap(err, "reading training set")
	}
	defer f.Close()
	t, err := readTable(f, j)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing CSV file %s", j.Data)
	}
	return t, nil
}

// readTable reads a CSV stream whose first record is the header.
func readTable(r io.Reader, j *job) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading records")
	}
	if len(records) < 2 {
		return nil, errors.NewModelError("readTable", "no data rows", errors.ErrEmptyData)
	}
	header, body := records[0], records[1:]

	targetIdx := slices.Index(header, j.Target)
	if targetIdx < 0 {
		return nil, errors.NewValidationError("target", "column not found in CSV header", j.Target)
	}
	for name := range j.Features {
		if !slices.Contains(header, name) {
			return nil, errors.NewValidationError("features", "column not found in CSV header", name)
		}
	}

	target := make([]string, len(body))
	for i, rec := range body {
		target[i] = rec[targetIdx]
	}

	var columns []tree.Column
	for c, name := range header {
		if c == targetIdx {
			continue
		}
		kind, declared := j.Features[name]
		if !declared && len(j.Features) > 0 {
			continue
		}
		values := make([]string, len(body))
		for i, rec := range body {
			values[i] = rec[c]
		}
		col, err := parseColumn(name, kind, values)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	if len(columns) == 0 {
		return nil, errors.NewValidationError("features", "no feature columns besides the target", header)
	}

	frame, err := tree.NewFrame(columns...)
	if err != nil {
		return nil, err
	}
	return &table{features: frame, target: target}, nil
}

// parseColumn builds a column of the declared kind. An empty kind is
// inferred: numeric when every value parses as a float, nominal otherwise.
func parseColumn(name, kind string, values []string) (tree.Column, error) {
	if kind == "" {
		if nums, err := parseFloats(values); err == nil {
			return tree.NumericColumn(name, nums), nil
		}
		return tree.NominalColumn(name, values), nil
	}
	k, err := tree.ParseKind(kind)
	if err != nil {
		return tree.Column{}, err
	}
	if k == tree.Nominal {
		return tree.NominalColumn(name, values), nil
	}
	nums, err := parseFloats(values)
	if err != nil {
		return tree.Column{}, errors.Wrapf(err, "column %q", name)
	}
	return tree.NumericColumn(name, nums), nil
}

// parseFloats converts every value. Errors name the CSV line, counting the
// header as line 1.
func parseFloats(values []string) ([]float64, error) {
	nums := make([]float64, len(values))
	for i, v := range values {
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", i+2)
		}
		nums[i] = x
	}
	return nums, nil
}
