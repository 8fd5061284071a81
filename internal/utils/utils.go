package utils

import "math"

// Round2 rounds a float to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UniqueInts returns a copy of input with duplicate values removed,
// preserving first-seen order.
func UniqueInts(input []int32) []int32 {
	seen := make(map[int32]bool, len(input))
	var result []int32
	for _, v := range input {
		if !seen[v] {
			result = append(result, v)
			seen[v] = true
		}
	}
	return result
}

// ClampInt bounds v to the inclusive range [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
