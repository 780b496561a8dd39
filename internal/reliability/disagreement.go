package reliability

// observedDisagreement sums delta over every a<b index pair within each
// pairable item. Pairs never cross items, and each unordered pair is
// counted exactly once.
func observedDisagreement(p *pairable, delta deltaFunc) (sum float64, pairs int) {
	for _, vals := range p.items {
		k := len(vals)
		for a := 0; a < k; a++ {
			for b := a + 1; b < k; b++ {
				sum += delta(vals[a], vals[b])
				pairs++
			}
		}
	}
	return sum, pairs
}

// expectedDisagreement is the chance baseline under independence,
// drawing value pairs without replacement: distinct values weigh
// n_c*n_c', a value against itself n_c*(n_c-1), over n*(n-1) draws.
// The diagonal term is always zero since delta(c,c)=0, but it runs
// through the same weighting path as the off-diagonal terms.
func expectedDisagreement(ft *freqTable, delta deltaFunc) float64 {
	var sum float64
	for i, v := range ft.values {
		for j, w := range ft.values {
			if i == j {
				continue
			}
			sum += ft.counts[i] * ft.counts[j] * delta(v, w)
		}
		if ft.counts[i] >= 2 {
			sum += ft.counts[i] * (ft.counts[i] - 1) * delta(v, v)
		}
	}
	return sum / (ft.total * (ft.total - 1))
}
