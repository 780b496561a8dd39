package reliability

import (
	"math"
	"testing"
)

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestComputeNominalReference(t *testing.T) {
	data := [][]float64{
		{1, 1, 2, 1},
		{2, 2, 2, 2},
		{3, 3, 1, 3},
		{1, 1, 1, 1},
	}
	res, err := Compute(data, Nominal, nil)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if !approx(res.Alpha, 0.6203, 1e-4) {
		t.Fatalf("alpha expected 0.6203, got %f", res.Alpha)
	}
	if !approx(res.Observed, 0.25, 1e-12) {
		t.Fatalf("observed disagreement expected 0.25, got %f", res.Observed)
	}
	if res.PairableItems != 4 || res.PairableValues != 16 {
		t.Fatalf("pairable counts: got %d items, %d values", res.PairableItems, res.PairableValues)
	}
}

func TestComputePerfectAgreementAllLevels(t *testing.T) {
	data := [][]float64{
		{1, 1, 1},
		{2, 2, 2},
		{3, 3, 3},
	}
	for _, level := range []Level{Nominal, Ordinal, Interval, Ratio} {
		res, err := Compute(data, level, nil)
		if err != nil {
			t.Fatalf("%s: Compute error: %v", level, err)
		}
		if res.Alpha != 1.0 {
			t.Fatalf("%s: alpha expected exactly 1.0, got %v", level, res.Alpha)
		}
	}
}

func TestComputeIntervalReference(t *testing.T) {
	data := [][]float64{
		{1, 2, 1},
		{3, 3, 4},
		{5, 5, 5},
		{2, 2, 3},
	}
	res, err := Compute(data, Interval, nil)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if !approx(res.Alpha, 0.8854166666666666, 1e-9) {
		t.Fatalf("interval alpha expected 0.885417, got %f", res.Alpha)
	}
	if !approx(res.Observed, 0.5, 1e-12) {
		t.Fatalf("observed expected 0.5, got %f", res.Observed)
	}
}

func TestComputeRatioReference(t *testing.T) {
	data := [][]float64{
		{1, 1},
		{2, 4},
		{3, 3},
		{0, 1},
	}
	res, err := Compute(data, Ratio, nil)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if !approx(res.Alpha, 0.23335851553175413, 1e-9) {
		t.Fatalf("ratio alpha expected 0.233359, got %f", res.Alpha)
	}
}

func TestComputeOrdinalReference(t *testing.T) {
	data := [][]float64{
		{1, 1, 2},
		{2, 2, 2},
		{3, 3, 2},
		{1, 1, 1},
		{2, 3, 3},
	}
	res, err := Compute(data, Ordinal, nil)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if !approx(res.Alpha, 0.6973737373737374, 1e-9) {
		t.Fatalf("ordinal alpha expected 0.697374, got %f", res.Alpha)
	}
}

func TestComputeNegativeAlphaNotClamped(t *testing.T) {
	data := [][]float64{
		{1, 2},
		{2, 1},
		{1, 2},
		{2, 1},
	}
	res, err := Compute(data, Nominal, nil)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if res.Alpha >= 0 {
		t.Fatalf("expected negative alpha for systematic disagreement, got %f", res.Alpha)
	}
}

func TestComputeUnderRatedItemExcluded(t *testing.T) {
	nan := math.NaN()
	withSingle := [][]float64{
		{1, 1, 2, 1},
		{2, 2, 2, 2},
		{3, nan, nan, nan},
		{1, 1, 1, 1},
	}
	without := [][]float64{
		{1, 1, 2, 1},
		{2, 2, 2, 2},
		{1, 1, 1, 1},
	}
	a, err := Compute(withSingle, Nominal, nil)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	b, err := Compute(without, Nominal, nil)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if a.Alpha != b.Alpha {
		t.Fatalf("single-rating item should be inert: %v vs %v", a.Alpha, b.Alpha)
	}
	if a.PairableItems != 3 {
		t.Fatalf("expected 3 pairable items, got %d", a.PairableItems)
	}
}

func TestComputeExplicitMissingMarker(t *testing.T) {
	marker := -999.0
	withMarker := [][]float64{
		{1, 1, 2, 1},
		{2, 2, 2, 2},
		{3, -999, -999, -999},
		{1, 1, 1, 1},
	}
	nan := math.NaN()
	withNaN := [][]float64{
		{1, 1, 2, 1},
		{2, 2, 2, 2},
		{3, nan, nan, nan},
		{1, 1, 1, 1},
	}
	a, err := Compute(withMarker, Nominal, &Options{Missing: &marker})
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	b, err := Compute(withNaN, Nominal, nil)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if a.Alpha != b.Alpha {
		t.Fatalf("marker and NaN handling differ: %v vs %v", a.Alpha, b.Alpha)
	}
}

func TestComputeAutoTranspose(t *testing.T) {
	raterWise := [][]float64{
		{1, 2, 3, 2, 1},
		{1, 2, 3, 2, 2},
	}
	itemWise := [][]float64{
		{1, 1},
		{2, 2},
		{3, 3},
		{2, 2},
		{1, 2},
	}
	a, err := Compute(raterWise, Nominal, nil)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	b, err := Compute(itemWise, Nominal, nil)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if a.Alpha != b.Alpha {
		t.Fatalf("2xN auto-transpose mismatch: %v vs %v", a.Alpha, b.Alpha)
	}

	// Explicit orientation keeps the 2x5 grid as two items.
	c, err := Compute(raterWise, Nominal, &Options{Orientation: OrientItemsRows})
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if c.PairableItems != 2 {
		t.Fatalf("expected 2 items under OrientItemsRows, got %d", c.PairableItems)
	}
}

func TestComputeErrors(t *testing.T) {
	nan := math.NaN()
	cases := []struct {
		name  string
		data  [][]float64
		level Level
		opts  *Options
		code  ErrorCode
	}{
		{"empty matrix", [][]float64{}, Nominal, nil, ErrorInputShape},
		{"ragged rows", [][]float64{{1, 2}, {1}}, Nominal, nil, ErrorInputShape},
		{"one pairable item", [][]float64{{1, 2}, {1, nan}, {nan, nan}}, Nominal, nil, ErrorInsufficientData},
		{"all values identical", [][]float64{{1, 1}, {1, 1}}, Nominal, nil, ErrorExpectedZero},
		{"negative ratio values", [][]float64{{1, -2}, {3, 3}}, Ratio, nil, ErrorUnsupportedLevel},
		{"bad level", [][]float64{{1, 2}, {3, 3}}, Level(9), nil, ErrorUnsupportedLevel},
		{"bad confidence", [][]float64{{1, 2}, {3, 3}}, Nominal, &Options{Confidence: 1.5}, ErrorInvalidOption},
		{"negative bootstrap", [][]float64{{1, 2}, {3, 3}}, Nominal, &Options{Bootstrap: -1}, ErrorInvalidOption},
	}
	for _, tc := range cases {
		_, err := Compute(tc.data, tc.level, tc.opts)
		if !HasCode(err, tc.code) {
			t.Fatalf("%s: expected code %s, got %v", tc.name, tc.code, err)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]Level{
		"nominal": Nominal, "Ordinal": Ordinal, " interval ": Interval, "RATIO": Ratio,
	} {
		got, err := ParseLevel(name)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseLevel("likert"); !HasCode(err, ErrorUnsupportedLevel) {
		t.Fatalf("expected unsupported level error, got %v", err)
	}
}

func TestItemStats(t *testing.T) {
	nan := math.NaN()
	data := [][]float64{
		{1, 1, 2, 1},
		{2, 2, 2, 2},
		{3, nan, nan, nan},
	}
	res, err := Compute(data, Nominal, &Options{ItemStats: true})
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected stats for 2 pairable items, got %d", len(res.Items))
	}
	first := res.Items[0]
	if first.Index != 0 || first.Ratings != 4 || first.UniqueValues != 2 {
		t.Fatalf("unexpected first item stats: %+v", first)
	}
	// 3 of 6 pairs disagree in {1,1,2,1}.
	if !approx(first.Disagreement, 0.5, 1e-12) || !approx(first.Agreement, 0.5, 1e-12) {
		t.Fatalf("unexpected disagreement/agreement: %+v", first)
	}
	second := res.Items[1]
	if second.Index != 1 || second.Agreement != 1.0 || second.StdDev != 0 {
		t.Fatalf("unexpected second item stats: %+v", second)
	}
}
