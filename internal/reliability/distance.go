package reliability

import "fmt"

// deltaFunc is the pairwise dissimilarity between two rating values.
// Every implementation is symmetric with a zero diagonal.
type deltaFunc func(v, w float64) float64

func deltaNominal(v, w float64) float64 {
	if v == w {
		return 0
	}
	return 1
}

func deltaInterval(v, w float64) float64 {
	d := v - w
	return d * d
}

func deltaRatio(v, w float64) float64 {
	if v == 0 && w == 0 {
		return 0
	}
	if v == 0 || w == 0 {
		// The ratio difference is undefined against a lone zero;
		// treated as maximum disagreement.
		return 1
	}
	d := (v - w) / (v + w)
	return d * d
}

// newDelta selects the distance function once, outside the comparison
// loops. Ordinal distance needs the frequency table over the full
// pairable multiset, not just the two compared values.
func newDelta(level Level, ft *freqTable) (deltaFunc, error) {
	switch level {
	case Nominal:
		return deltaNominal, nil
	case Ordinal:
		return ft.ordinalDelta, nil
	case Interval:
		return deltaInterval, nil
	case Ratio:
		return deltaRatio, nil
	}
	return nil, NewUnsupportedLevelError(fmt.Sprintf("unknown measurement level %d", int(level)))
}
