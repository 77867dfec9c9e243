package domain

// ConfidenceBand is a coarse reading of a computed confidence for reports.
type ConfidenceBand string

const (
	BandStrong   ConfidenceBand = "strong"
	BandModerate ConfidenceBand = "moderate"
	BandWeak     ConfidenceBand = "weak"
	BandDoubtful ConfidenceBand = "doubtful"
)

func ComputeBand(confidence float64) ConfidenceBand {
	switch {
	case confidence > 0.85:
		return BandStrong
	case confidence > 0.70:
		return BandModerate
	case confidence > 0.40:
		return BandWeak
	default:
		return BandDoubtful
	}
}

// BandReason returns a human-readable explanation of the band.
func BandReason(confidence float64) string {
	switch ComputeBand(confidence) {
	case BandStrong:
		return "well corroborated and uncontested"
	case BandModerate:
		return "reasonably supported"
	case BandWeak:
		return "thin or contested support"
	default:
		return "contradicted, penalized or implausible"
	}
}
