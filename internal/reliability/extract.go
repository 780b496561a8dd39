package reliability

import "fmt"

// pairable is the reduction of the matrix to items that can contribute
// at least one comparison pair, plus the flattened multiset of their
// values.
type pairable struct {
	items [][]float64 // per-item non-missing values, each len >= 2
	flat  []float64   // all retained values in item order
}

// extractPairable drops missing entries and items with fewer than two
// remaining ratings. Items dropped here contribute to neither observed
// nor expected disagreement.
func extractPairable(matrix [][]float64, missing func(float64) bool) (*pairable, error) {
	p := &pairable{}
	for _, row := range matrix {
		vals := make([]float64, 0, len(row))
		for _, v := range row {
			if !missing(v) {
				vals = append(vals, v)
			}
		}
		if len(vals) >= 2 {
			p.items = append(p.items, vals)
			p.flat = append(p.flat, vals...)
		}
	}
	if len(p.items) < 2 {
		return nil, NewInsufficientDataError(fmt.Sprintf("need at least 2 pairable items, have %d", len(p.items)))
	}
	if len(p.flat) < 2 {
		return nil, NewInsufficientDataError(fmt.Sprintf("need at least 2 pairable values, have %d", len(p.flat)))
	}
	return p, nil
}
