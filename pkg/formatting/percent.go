package formatting

import "strconv"

// FormatPercent renders a percentage with one decimal place, e.g. "33.3%".
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

// FormatConfidence renders a confidence score with three decimal places.
func FormatConfidence(c float64) string {
	return strconv.FormatFloat(c, 'f', 3, 64)
}
