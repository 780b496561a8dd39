package reliability

import (
	"fmt"
	"math"
)

// Orientation controls how the input grid is interpreted.
type Orientation int

const (
	// OrientAuto treats rows as items. A 2xN grid with N>2 is
	// transposed to Nx2 on the assumption that two-rater designs are
	// entered rater-wise. The heuristic cannot tell ambiguous shapes
	// such as 2x2 apart; pass an explicit orientation when it matters.
	OrientAuto Orientation = iota
	// OrientItemsRows takes rows as items and columns as raters, as given.
	OrientItemsRows
	// OrientRatersRows takes rows as raters and transposes.
	OrientRatersRows
)

// normalize validates the grid shape and returns an items x raters matrix.
// The returned matrix shares rows with the input unless a transpose was
// needed; it is read-only for the rest of the computation.
func normalize(data [][]float64, orient Orientation) ([][]float64, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return nil, NewInputShapeError("empty ratings matrix")
	}
	width := len(data[0])
	for i, row := range data {
		if len(row) != width {
			return nil, NewInputShapeError(fmt.Sprintf("row %d has %d entries, want %d", i, len(row), width))
		}
	}
	switch orient {
	case OrientRatersRows:
		return transpose(data), nil
	case OrientAuto:
		if len(data) == 2 && width > 2 {
			return transpose(data), nil
		}
	}
	return data, nil
}

func transpose(data [][]float64) [][]float64 {
	out := make([][]float64, len(data[0]))
	for i := range out {
		out[i] = make([]float64, len(data))
		for j := range data {
			out[i][j] = data[j][i]
		}
	}
	return out
}

// missingFunc builds the predicate for entries excluded from pairing.
// NaN is always missing; marker adds one explicit sentinel value.
func missingFunc(marker *float64) func(float64) bool {
	if marker == nil {
		return func(v float64) bool { return math.IsNaN(v) }
	}
	m := *marker
	return func(v float64) bool { return math.IsNaN(v) || v == m }
}
