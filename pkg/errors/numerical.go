package errors

import "math"

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// CheckNumericalStability reports a NumericalInstabilityError listing the
// NaN or infinite entries of values. index is the position recorded on the
// error, typically a row.
func CheckNumericalStability(operation string, values []float64, index int) error {
	var bad []float64
	for _, v := range values {
		if !finite(v) {
			bad = append(bad, v)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return NewNumericalInstabilityError(operation, bad, index)
}

// CheckMatrix runs CheckNumericalStability row by row and stops at the
// first row holding a non-finite value.
func CheckMatrix(operation string, m interface{ At(int, int) float64 }, rows, cols int) error {
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := range row {
			row[j] = m.At(i, j)
		}
		if err := CheckNumericalStability(operation, row, i); err != nil {
			return err
		}
	}
	return nil
}
