package risk

// Summary aggregates the verdicts of a classified batch.
// Clauses that are not Risky count as Safe, so RiskyCount+SafeCount == Total.
type Summary struct {
	Total          int     `json:"total"`
	RiskyCount     int     `json:"risky_count"`
	SafeCount      int     `json:"safe_count"`
	RiskPercentage float64 `json:"risk_percentage"`
}

// Summarize computes the Summary for clauses. RiskPercentage is rounded to one
// decimal place and is 0 for an empty batch.
func Summarize(clauses []Clause) Summary {
	s := Summary{Total: len(clauses)}

	for i := range clauses {
		if clauses[i].Label == LabelRisky {
			s.RiskyCount++
		}
	}
	s.SafeCount = s.Total - s.RiskyCount

	if s.Total > 0 {
		s.RiskPercentage = round(float64(s.RiskyCount)/float64(s.Total)*100, 1)
	}

	return s
}

// Categories tallies how many Risky clauses fall into each category.
func Categories(clauses []Clause) map[string]int {
	counts := make(map[string]int)
	for i := range clauses {
		if clauses[i].Label != LabelRisky {
			continue
		}
		for _, cat := range clauses[i].Categories {
			counts[cat]++
		}
	}
	return counts
}
