package domain

import "testing"

func TestComputeBand(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		want       ConfidenceBand
	}{
		{"strong - 0.99", 0.99, BandStrong},
		{"strong boundary - 0.851", 0.851, BandStrong},
		{"moderate - 0.85", 0.85, BandModerate},
		{"moderate boundary - 0.701", 0.701, BandModerate},
		{"weak - 0.70", 0.70, BandWeak},
		{"weak boundary - 0.401", 0.401, BandWeak},
		{"doubtful - 0.40", 0.40, BandDoubtful},
		{"doubtful - 0.01", 0.01, BandDoubtful},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBand(tt.confidence)
			if got != tt.want {
				t.Errorf("ComputeBand(%v) = %v, want %v", tt.confidence, got, tt.want)
			}
		})
	}
}

func TestBandReason(t *testing.T) {
	for _, c := range []float64{0.95, 0.8, 0.5, 0.1} {
		if BandReason(c) == "" {
			t.Errorf("BandReason(%v) is empty", c)
		}
	}
}
