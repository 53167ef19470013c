package services

import (
	"testing"
	"time"
)

func TestHIndex(t *testing.T) {
	cases := []struct {
		name      string
		citations []int
		want      int
	}{
		{"empty", nil, 0},
		{"all zero", []int{0, 0, 0}, 0},
		{"single paper", []int{100}, 1},
		{"classic", []int{3, 0, 6, 1, 5}, 3},
		{"plateau", []int{10, 8, 5, 4, 3}, 4},
		{"ones", []int{1, 1, 1, 1}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HIndex(tc.citations); got != tc.want {
				t.Errorf("HIndex(%v) = %d, want %d", tc.citations, got, tc.want)
			}
		})
	}
}

func TestHIndexDoesNotMutateInput(t *testing.T) {
	in := []int{3, 0, 6, 1, 5}
	HIndex(in)
	want := []int{3, 0, 6, 1, 5}
	for i := range want {
		if in[i] != want[i] {
			t.Fatalf("input mutated: %v", in)
		}
	}
}

func TestI10Index(t *testing.T) {
	if got := I10Index([]int{15, 10, 9, 0, 200}); got != 3 {
		t.Errorf("I10Index = %d, want 3", got)
	}
	if got := I10Index(nil); got != 0 {
		t.Errorf("I10Index(nil) = %d, want 0", got)
	}
}

func TestDefaultYearRange(t *testing.T) {
	from, to := DefaultYearRange(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if from != 2016 || to != 2026 {
		t.Errorf("got [%d, %d], want [2016, 2026]", from, to)
	}
}
