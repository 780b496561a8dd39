package reliability

import "fmt"

const defaultConfidence = 0.95

// Options configures a single alpha computation. The zero value yields a
// point estimate with NaN entries treated as missing.
type Options struct {
	// Missing marks one explicit value as missing in addition to NaN.
	Missing *float64
	// Orientation overrides the 2xN auto-transpose heuristic.
	Orientation Orientation
	// Bootstrap is the number of with-replacement item resamples for
	// the confidence interval; 0 disables bootstrapping.
	Bootstrap int
	// Confidence is the two-sided confidence level, default 0.95.
	Confidence float64
	// Seed fixes the resampling streams. Results for a given seed are
	// identical regardless of worker count.
	Seed *int64
	// ItemStats requests per-item descriptive statistics.
	ItemStats bool
	// Workers bounds bootstrap parallelism; 0 uses GOMAXPROCS.
	Workers int
}

// Result is one alpha evaluation. Alpha is never clamped: values below
// zero (worse than chance) are reported as computed.
type Result struct {
	Alpha float64
	Level Level

	// Observed and Expected are the disagreement components D_o and D_e.
	Observed float64
	Expected float64

	// PairableItems and PairableValues count what survived extraction.
	PairableItems  int
	PairableValues int

	Bootstrap *BootstrapResult
	Items     []ItemStat
}

// Compute evaluates Krippendorff's alpha for an items x raters matrix.
// No state survives the call; the input matrix is only read.
func Compute(data [][]float64, level Level, opts *Options) (*Result, error) {
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.Confidence == 0 {
		o.Confidence = defaultConfidence
	}
	if o.Confidence <= 0 || o.Confidence >= 1 {
		return nil, NewInvalidOptionError(fmt.Sprintf("confidence level must be in (0,1), got %v", o.Confidence))
	}
	if o.Bootstrap < 0 {
		return nil, NewInvalidOptionError(fmt.Sprintf("bootstrap iterations must be non-negative, got %d", o.Bootstrap))
	}
	if level < Nominal || level > Ratio {
		return nil, NewUnsupportedLevelError(fmt.Sprintf("unknown measurement level %d", int(level)))
	}

	matrix, err := normalize(data, o.Orientation)
	if err != nil {
		return nil, err
	}
	missing := missingFunc(o.Missing)
	p, err := extractPairable(matrix, missing)
	if err != nil {
		return nil, err
	}
	if level == Ratio {
		for _, v := range p.flat {
			if v < 0 {
				return nil, NewUnsupportedLevelError(fmt.Sprintf("ratio level requires non-negative values, found %v", v))
			}
		}
	}

	ft := newFreqTable(p.flat)
	delta, err := newDelta(level, ft)
	if err != nil {
		return nil, err
	}
	est, err := estimateWith(p, ft, delta)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Alpha:          est.alpha,
		Level:          level,
		Observed:       est.observed,
		Expected:       est.expected,
		PairableItems:  len(p.items),
		PairableValues: len(p.flat),
	}
	if o.ItemStats {
		res.Items = itemStats(matrix, missing, delta)
	}
	if o.Bootstrap > 0 {
		br, err := bootstrap(p, level, &o, est.alpha)
		if err != nil {
			return nil, err
		}
		res.Bootstrap = br
	}
	return res, nil
}

type estimateOut struct {
	alpha    float64
	observed float64
	expected float64
}

// estimate runs the frequency-to-alpha pipeline on an already pairable
// set. Bootstrap resamples reenter here with their own frequency tables.
func estimate(p *pairable, level Level) (estimateOut, error) {
	ft := newFreqTable(p.flat)
	delta, err := newDelta(level, ft)
	if err != nil {
		return estimateOut{}, err
	}
	return estimateWith(p, ft, delta)
}

func estimateWith(p *pairable, ft *freqTable, delta deltaFunc) (estimateOut, error) {
	obsSum, pairs := observedDisagreement(p, delta)
	observed := obsSum / float64(pairs)
	expected := expectedDisagreement(ft, delta)
	if expected == 0 {
		return estimateOut{}, NewExpectedZeroError("expected disagreement is zero: all pairable values are identical")
	}
	return estimateOut{alpha: 1 - observed/expected, observed: observed, expected: expected}, nil
}
