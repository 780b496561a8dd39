package reliability

import (
	"fmt"
	"strings"
)

// Level is the measurement level of the rating data. It selects the
// distance function applied to every pairwise value comparison.
type Level int

const (
	Nominal Level = iota
	Ordinal
	Interval
	Ratio
)

func (l Level) String() string {
	switch l {
	case Nominal:
		return "nominal"
	case Ordinal:
		return "ordinal"
	case Interval:
		return "interval"
	case Ratio:
		return "ratio"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel maps a level name to its Level value.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nominal":
		return Nominal, nil
	case "ordinal":
		return Ordinal, nil
	case "interval":
		return Interval, nil
	case "ratio":
		return Ratio, nil
	}
	return 0, NewUnsupportedLevelError(fmt.Sprintf("unknown measurement level %q", s))
}
