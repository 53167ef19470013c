package services

import (
	"math"
	"sort"
	"time"
)

// HIndex returns the largest h such that h of the given citation counts are
// at least h.
func HIndex(citations []int) int {
	sorted := make([]int, len(citations))
	copy(sorted, citations)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	h := 0
	for i, count := range sorted {
		if count >= i+1 {
			h = i + 1
			continue
		}
		break
	}
	return h
}

// I10Index counts publications with at least ten citations.
func I10Index(citations []int) int {
	count := 0
	for _, c := range citations {
		if c >= 10 {
			count++
		}
	}
	return count
}

// DefaultYearRange is the trend window used when a caller does not pick
// one: the last ten years up to the current year.
func DefaultYearRange(now time.Time) (from, to int) {
	to = now.Year()
	return to - 10, to
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
