package stattest

import "sort"

// Rank converts values to 1-based ranks, averaging the ranks of ties.
func Rank(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return []float64{}
	}

	type pair struct {
		value float64
		index int
	}

	pairs := make([]pair, n)
	for i, val := range data {
		pairs[i] = pair{value: val, index: i}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	ranks := make([]float64, n)

	i := 0
	for i < n {
		j := i + 1
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}

		// positions i..j-1 share the mean of ranks i+1..j
		avgRank := float64(i+j+1) / 2.0
		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}

		i = j
	}

	return ranks
}

// TieSum returns the tie correction term sum(t^3 - t) over groups of equal values.
func TieSum(data []float64) float64 {
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	sum := 0.0
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		t := float64(j - i)
		sum += t*t*t - t
		i = j
	}
	return sum
}
