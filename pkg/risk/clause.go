// Package risk scores contract clauses against a fixed keyword lexicon.
//
// Scoring is lexical and deterministic: a clause is Risky when it contains at
// least Config.KeywordThreshold distinct lexicon phrases. Confidence is a
// heuristic that grows with the number of hits and is not a calibrated
// probability. Every score can be traced back to the matched phrases.
package risk

// Label is the risk verdict assigned to a clause.
type Label string

const (
	LabelRisky Label = "Risky"
	LabelSafe  Label = "Safe"
)

// Clause is one segmented unit of contract text and, once classified, its verdict.
// Label is empty and Confidence nil until the clause has been classified.
type Clause struct {
	ID              int      `json:"id"`
	Text            string   `json:"text"`
	Label           Label    `json:"label,omitempty"`
	Confidence      *float64 `json:"confidence,omitempty"`
	MatchedKeywords []string `json:"matched_keywords"`
	Categories      []string `json:"categories"`
}

// Classified reports whether the clause carries a verdict.
func (c *Clause) Classified() bool {
	return c.Label != ""
}

// Apply records an assessment on the clause.
func (c *Clause) Apply(a Assessment) {
	confidence := a.Confidence
	c.Label = a.Label
	c.Confidence = &confidence
	c.MatchedKeywords = a.MatchedKeywords
	c.Categories = a.Categories
}

// NewClauses wraps segmented texts into unclassified clauses with 1-based ids.
func NewClauses(texts []string) []Clause {
	clauses := make([]Clause, len(texts))
	for i, text := range texts {
		clauses[i] = Clause{
			ID:              i + 1,
			Text:            text,
			MatchedKeywords: []string{},
			Categories:      []string{},
		}
	}
	return clauses
}

// Assessment is the outcome of classifying a single clause text.
type Assessment struct {
	Label           Label    `json:"label"`
	Confidence      float64  `json:"confidence"`
	MatchedKeywords []string `json:"matched_keywords"`
	Categories      []string `json:"categories"`
}
