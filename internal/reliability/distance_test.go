package reliability

import "testing"

func TestOrdinalDistanceConcrete(t *testing.T) {
	// Frequencies n1=2, n2=1, n3=1: delta(1,3) = (4 - (2+1)/2)^2 = 6.25.
	ft := newFreqTable([]float64{1, 1, 2, 3})
	if got := ft.ordinalDelta(1, 3); got != 6.25 {
		t.Fatalf("ordinal delta(1,3) expected 6.25, got %v", got)
	}
	if ft.ordinalDelta(3, 1) != ft.ordinalDelta(1, 3) {
		t.Fatalf("ordinal delta not symmetric")
	}
	if ft.ordinalDelta(2, 2) != 0 {
		t.Fatalf("ordinal delta(v,v) must be 0")
	}
}

func TestDistanceSymmetryAndZeroDiagonal(t *testing.T) {
	ft := newFreqTable([]float64{1, 1, 2, 3, 3, 4})
	deltas := map[string]deltaFunc{
		"nominal":  deltaNominal,
		"interval": deltaInterval,
		"ratio":    deltaRatio,
		"ordinal":  ft.ordinalDelta,
	}
	vals := []float64{1, 2, 3, 4}
	for name, delta := range deltas {
		for _, v := range vals {
			if d := delta(v, v); d != 0 {
				t.Fatalf("%s: delta(%v,%v) = %v, want 0", name, v, v, d)
			}
			for _, w := range vals {
				if delta(v, w) != delta(w, v) {
					t.Fatalf("%s: delta(%v,%v) != delta(%v,%v)", name, v, w, w, v)
				}
				if delta(v, w) < 0 {
					t.Fatalf("%s: negative distance for (%v,%v)", name, v, w)
				}
			}
		}
	}
}

func TestRatioDistanceZeroHandling(t *testing.T) {
	if d := deltaRatio(0, 0); d != 0 {
		t.Fatalf("delta(0,0) expected 0, got %v", d)
	}
	if d := deltaRatio(0, 3); d != 1 {
		t.Fatalf("delta(0,3) expected 1, got %v", d)
	}
	if d := deltaRatio(2, 4); d != 1.0/9.0 {
		t.Fatalf("delta(2,4) expected 1/9, got %v", d)
	}
}

func TestObservedPairCount(t *testing.T) {
	// k=4 and k=3 yield 6+3 pairs; the a<b loop must never double count.
	p := &pairable{
		items: [][]float64{{1, 1, 2, 1}, {2, 3, 2}},
		flat:  []float64{1, 1, 2, 1, 2, 3, 2},
	}
	_, pairs := observedDisagreement(p, deltaNominal)
	if pairs != 9 {
		t.Fatalf("expected 9 pairs, got %d", pairs)
	}
}

func TestExpectedDisagreementWithoutReplacement(t *testing.T) {
	// Counts 8,5,3 over 16 values: D_e = 2*(8*5+8*3+5*3)/(16*15).
	flat := make([]float64, 0, 16)
	for i := 0; i < 8; i++ {
		flat = append(flat, 1)
	}
	for i := 0; i < 5; i++ {
		flat = append(flat, 2)
	}
	for i := 0; i < 3; i++ {
		flat = append(flat, 3)
	}
	ft := newFreqTable(flat)
	got := expectedDisagreement(ft, deltaNominal)
	want := 2.0 * (8*5 + 8*3 + 5*3) / (16.0 * 15.0)
	if !approx(got, want, 1e-12) {
		t.Fatalf("expected disagreement %v, got %v", want, got)
	}
}
