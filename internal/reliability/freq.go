package reliability

import "sort"

// freqTable holds value frequencies over the pairable multiset. It is
// scoped to a single alpha evaluation, so concurrent bootstrap resamples
// each build their own without synchronization.
type freqTable struct {
	values []float64       // distinct values, ascending
	counts []float64       // frequency of each value, aligned with values
	index  map[float64]int // value -> rank position
	total  float64         // number of pairable ratings
}

func newFreqTable(flat []float64) *freqTable {
	byValue := make(map[float64]float64, len(flat))
	for _, v := range flat {
		byValue[v]++
	}
	values := make([]float64, 0, len(byValue))
	for v := range byValue {
		values = append(values, v)
	}
	sort.Float64s(values)
	ft := &freqTable{
		values: values,
		counts: make([]float64, len(values)),
		index:  make(map[float64]int, len(values)),
		total:  float64(len(flat)),
	}
	for i, v := range values {
		ft.counts[i] = byValue[v]
		ft.index[v] = i
	}
	return ft
}

// ordinalDelta is Krippendorff's ordinal distance: the cumulative
// frequency across all ranks from min(v,w) to max(v,w) inclusive, with
// half of each endpoint frequency averaged out, squared.
func (ft *freqTable) ordinalDelta(v, w float64) float64 {
	if v == w {
		return 0
	}
	i, j := ft.index[v], ft.index[w]
	if i > j {
		i, j = j, i
	}
	var span float64
	for g := i; g <= j; g++ {
		span += ft.counts[g]
	}
	d := span - (ft.counts[i]+ft.counts[j])/2
	return d * d
}
