package domain

// QualityTier maps an RSSI value in dBm to a coarse link-quality bucket.
// Total over all integers; the five return values are fixed.
func QualityTier(rssiDBM int) string {
	switch {
	case rssiDBM >= -30:
		return "100%"
	case rssiDBM >= -50:
		return "75%"
	case rssiDBM >= -70:
		return "50%"
	case rssiDBM >= -80:
		return "25%"
	default:
		return "10%"
	}
}

// SignalCategory maps RSSI to the four-label scale used by assessments.
// This is intentionally a different scale from QualityTier: one answers
// "how good is the link", the other "how close can an adversary be".
func SignalCategory(rssiDBM int) string {
	switch {
	case rssiDBM > -30:
		return "Excellent"
	case rssiDBM > -50:
		return "Good"
	case rssiDBM > -70:
		return "Fair"
	default:
		return "Poor"
	}
}
