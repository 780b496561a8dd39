package reliability

import "math"

// ItemStat describes one pairable item's ratings. Reporting only; item
// statistics never feed back into alpha.
type ItemStat struct {
	// Index is the item's row in the normalized matrix.
	Index int
	// Ratings is the number of non-missing values.
	Ratings int
	// UniqueValues counts distinct values among them.
	UniqueValues int
	// StdDev is the population standard deviation of the values. Most
	// meaningful on interval and ratio data.
	StdDev float64
	// Disagreement is the average distance over the item's own pairs.
	Disagreement float64
	// Agreement is the fraction of identical pairs, in [0,1].
	Agreement float64
}

func itemStats(matrix [][]float64, missing func(float64) bool, delta deltaFunc) []ItemStat {
	var out []ItemStat
	for idx, row := range matrix {
		vals := make([]float64, 0, len(row))
		for _, v := range row {
			if !missing(v) {
				vals = append(vals, v)
			}
		}
		k := len(vals)
		if k < 2 {
			continue
		}

		uniq := make(map[float64]struct{}, k)
		var mean float64
		for _, v := range vals {
			uniq[v] = struct{}{}
			mean += v
		}
		mean /= float64(k)
		var varSum float64
		for _, v := range vals {
			d := v - mean
			varSum += d * d
		}

		var distSum float64
		equal, pairs := 0, 0
		for a := 0; a < k; a++ {
			for b := a + 1; b < k; b++ {
				distSum += delta(vals[a], vals[b])
				if vals[a] == vals[b] {
					equal++
				}
				pairs++
			}
		}

		out = append(out, ItemStat{
			Index:        idx,
			Ratings:      k,
			UniqueValues: len(uniq),
			StdDev:       math.Sqrt(varSum / float64(k)),
			Disagreement: distSum / float64(pairs),
			Agreement:    float64(equal) / float64(pairs),
		})
	}
	return out
}
