// Package analyses implements the clause risk analysis domain.
// An analysis is one persisted run of the segmentation and classification
// pipeline over a stored document: its summary figures, the thresholds it ran
// with, and every classified clause. Analyses are replaced, not versioned,
// when a document is analyzed again.
package analyses

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/covenant/pkg/risk"
)

// Analysis is the stored result of analyzing one document.
type Analysis struct {
	ID                  uuid.UUID      `json:"id"`
	DocumentID          uuid.UUID      `json:"document_id"`
	Filename            string         `json:"filename"`
	Total               int            `json:"total"`
	RiskyCount          int            `json:"risky_count"`
	SafeCount           int            `json:"safe_count"`
	RiskPercentage      float64        `json:"risk_percentage"`
	Categories          map[string]int `json:"categories"`
	KeywordThreshold    int            `json:"keyword_threshold"`
	BaseRiskyConfidence float64        `json:"base_risky_confidence"`
	SafeConfidence      float64        `json:"safe_confidence"`
	AnalyzedAt          time.Time      `json:"analyzed_at"`
	Clauses             []Clause       `json:"clauses,omitempty"`
}

// Clause is a stored classified clause. Position is the 1-based index of the
// clause within its document.
type Clause struct {
	ID              uuid.UUID `json:"id"`
	AnalysisID      uuid.UUID `json:"analysis_id"`
	Position        int       `json:"position"`
	Text            string    `json:"text"`
	Label           string    `json:"label"`
	Confidence      float64   `json:"confidence"`
	MatchedKeywords []string  `json:"matched_keywords"`
	Categories      []string  `json:"categories"`
}

// EvaluateCommand carries raw contract text for an unpersisted evaluation.
type EvaluateCommand struct {
	Text string `json:"text"`
}

// Evaluation is the in-memory result of running the pipeline over text.
type Evaluation struct {
	Summary    risk.Summary   `json:"summary"`
	Categories map[string]int `json:"categories"`
	Clauses    []risk.Clause  `json:"clauses"`
}

func clauseFrom(analysisID uuid.UUID, c risk.Clause) Clause {
	out := Clause{
		AnalysisID:      analysisID,
		Position:        c.ID,
		Text:            c.Text,
		Label:           string(c.Label),
		MatchedKeywords: c.MatchedKeywords,
		Categories:      c.Categories,
	}
	if c.Confidence != nil {
		out.Confidence = *c.Confidence
	}
	return out
}
