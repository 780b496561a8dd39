package reliability

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// BootstrapResult is the outcome of the resampling procedure.
type BootstrapResult struct {
	// Samples holds the retained bootstrap alphas, sorted ascending.
	Samples []float64
	// Discarded counts resamples dropped as degenerate (too few
	// pairable values, or zero expected disagreement).
	Discarded int
	// Low and High are the bias-corrected percentile bounds.
	Low, High  float64
	Confidence float64
}

// bootstrap draws o.Bootstrap with-replacement resamples of the pairable
// items, recomputes alpha per resample and derives a bias-corrected
// percentile interval around the point estimate. The resampling unit is
// the item, never the individual rating, preserving within-item rater
// correlation.
func bootstrap(p *pairable, level Level, o *Options, point float64) (*BootstrapResult, error) {
	iters := o.Bootstrap
	seed := rand.Int63()
	if o.Seed != nil {
		seed = *o.Seed
	}
	workers := o.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// NaN marks a discarded resample; the slice is indexed by resample
	// so completion order never affects the outcome.
	alphas := make([]float64, iters)
	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < iters; i++ {
		i := i
		g.Go(func() error {
			rng := rand.New(rand.NewSource(subSeed(seed, i)))
			sample := resample(p, rng)
			est, err := estimate(sample, level)
			if err != nil {
				if HasCode(err, ErrorInsufficientData) || HasCode(err, ErrorExpectedZero) {
					alphas[i] = math.NaN()
					return nil
				}
				return err
			}
			alphas[i] = est.alpha
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kept := make([]float64, 0, iters)
	for _, a := range alphas {
		if !math.IsNaN(a) {
			kept = append(kept, a)
		}
	}
	discarded := iters - len(kept)
	if discarded*2 > iters {
		return nil, NewBootstrapDegenerateError(fmt.Sprintf("discarded %d of %d bootstrap resamples", discarded, iters))
	}

	sort.Float64s(kept)
	low, high := percentileCI(kept, o.Confidence, point)
	return &BootstrapResult{
		Samples:    kept,
		Discarded:  discarded,
		Low:        low,
		High:       high,
		Confidence: o.Confidence,
	}, nil
}

// resample builds one ephemeral with-replacement draw of the pairable
// items, same size as the original.
func resample(p *pairable, rng *rand.Rand) *pairable {
	n := len(p.items)
	sample := &pairable{items: make([][]float64, n)}
	for j := 0; j < n; j++ {
		sample.items[j] = p.items[rng.Intn(n)]
	}
	for _, vals := range sample.items {
		sample.flat = append(sample.flat, vals...)
	}
	return sample
}

// subSeed derives an independent per-resample seed (splitmix64 over the
// base seed and the resample index) so parallel draws are independent of
// scheduling order.
func subSeed(seed int64, i int) int64 {
	z := uint64(seed) + uint64(i+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}

// percentileCI returns the bias-corrected percentile bounds over the
// sorted bootstrap distribution. The plain percentile indices are
// shifted through the normal quantile of the below-estimate fraction
// when that fraction leaves room for a meaningful correction.
func percentileCI(sorted []float64, confidence, point float64) (float64, float64) {
	n := len(sorted)
	pLow := (1 - confidence) / 2
	pHigh := (1 + confidence) / 2
	low := sorted[clampIndex(int(math.Floor(pLow*float64(n))), n)]
	high := sorted[clampIndex(int(math.Floor(pHigh*float64(n))), n)]

	below := 0
	for _, a := range sorted {
		if a < point {
			below++
		}
	}
	frac := float64(below) / float64(n)
	if frac < 0.1 || frac > 0.9 {
		return low, high
	}
	z0 := normQuantile(frac)
	bcLow := normCDF(2*z0 + normQuantile(pLow))
	bcHigh := normCDF(2*z0 + normQuantile(pHigh))
	if bcLow <= 0 || bcHigh >= 1 || bcLow >= bcHigh {
		return low, high
	}
	low = sorted[clampIndex(int(bcLow*float64(n)), n)]
	high = sorted[clampIndex(int(bcHigh*float64(n)), n)]
	return low, high
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// normQuantile is the standard normal inverse CDF.
func normQuantile(p float64) float64 { return math.Sqrt2 * math.Erfinv(2*p-1) }

// normCDF is the standard normal CDF.
func normCDF(x float64) float64 { return 0.5 * (1 + math.Erf(x/math.Sqrt2)) }
