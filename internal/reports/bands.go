package reports

// Age band names. The four bands are exhaustive and exclusive: every
// non-negative age falls into exactly one.
const (
	BandTeen       = "Teen"        // [0, 18]
	BandYoungAdult = "Young Adult" // [19, 35]
	BandAdult      = "Adult"       // [36, 55]
	BandSenior     = "Senior"      // [56, inf)
)

// Spend segment names, ordered from highest to lowest spend.
const (
	SegmentHigh       = "High Spender"
	SegmentMedium     = "Medium Spender"
	SegmentLow        = "Low Spender"
	SegmentOccasional = "Occasional Buyer"
)

// Segment thresholds on total spend. The ranges are contiguous; everything
// below lowSpendMin falls through to the Occasional Buyer catch-all.
const (
	highSpendMin   = 10000
	mediumSpendMin = 5000
	lowSpendMin    = 1000
)

// AgeBand classifies an age into one of the four bands. Mirrors the CASE
// expression in the age_band_spending report.
func AgeBand(age int) string {
	switch {
	case age <= 18:
		return BandTeen
	case age <= 35:
		return BandYoungAdult
	case age <= 55:
		return BandAdult
	default:
		return BandSenior
	}
}

// SpendSegment classifies a customer's total spend into a segment. Mirrors
// the CASE expression in the customer_segments report.
func SpendSegment(totalSpent float64) string {
	switch {
	case totalSpent >= highSpendMin:
		return SegmentHigh
	case totalSpent >= mediumSpendMin:
		return SegmentMedium
	case totalSpent >= lowSpendMin:
		return SegmentLow
	default:
		return SegmentOccasional
	}
}
