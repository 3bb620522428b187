package reports

import (
	"testing"
)

func TestAgeBandBoundaries(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{0, BandTeen},
		{17, BandTeen},
		{18, BandTeen},
		{19, BandYoungAdult},
		{35, BandYoungAdult},
		{36, BandAdult},
		{55, BandAdult},
		{56, BandSenior},
		{99, BandSenior},
	}

	for _, tt := range tests {
		if got := AgeBand(tt.age); got != tt.want {
			t.Errorf("AgeBand(%d) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

// Every non-negative age must map to exactly one of the four bands.
func TestAgeBandExhaustive(t *testing.T) {
	bands := map[string]bool{
		BandTeen:       true,
		BandYoungAdult: true,
		BandAdult:      true,
		BandSenior:     true,
	}

	for age := 0; age <= 120; age++ {
		band := AgeBand(age)
		if !bands[band] {
			t.Fatalf("AgeBand(%d) = %q, not a known band", age, band)
		}
	}
}

func TestSpendSegmentBoundaries(t *testing.T) {
	tests := []struct {
		spent float64
		want  string
	}{
		{0, SegmentOccasional},
		{999.99, SegmentOccasional},
		{1000, SegmentLow},
		{4999.99, SegmentLow},
		{5000, SegmentMedium},
		{9999.99, SegmentMedium},
		{10000, SegmentHigh},
		{250000, SegmentHigh},
	}

	for _, tt := range tests {
		if got := SpendSegment(tt.spent); got != tt.want {
			t.Errorf("SpendSegment(%.2f) = %q, want %q", tt.spent, got, tt.want)
		}
	}
}

// The segments partition the spend axis: contiguous ranges, no gaps, and
// the catch-all picks up anything below the lowest threshold.
func TestSpendSegmentExhaustive(t *testing.T) {
	segments := map[string]bool{
		SegmentHigh:       true,
		SegmentMedium:     true,
		SegmentLow:        true,
		SegmentOccasional: true,
	}

	for spent := float64(0); spent <= 20000; spent += 0.5 {
		segment := SpendSegment(spent)
		if !segments[segment] {
			t.Fatalf("SpendSegment(%.2f) = %q, not a known segment", spent, segment)
		}
	}

	// Values outside any explicit range still classify.
	if got := SpendSegment(-50); got != SegmentOccasional {
		t.Errorf("SpendSegment(-50) = %q, want %q", got, SegmentOccasional)
	}
}
