package services

import (
	"math"
	"sort"
)

// medianInts returns the median of values, averaging the two middle values for
// even lengths. Nil for an empty slice: no plans means no statistic.
func medianInts(values []int) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	var m float64
	if len(sorted)%2 == 1 {
		m = float64(sorted[mid])
	} else {
		m = (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
	}
	return &m
}

// roundHalfUp converts a median to a whole-stop recommendation.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
