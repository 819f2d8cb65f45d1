package analyses

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/covenant/pkg/query"
	"github.com/JaimeStill/covenant/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "analyses", "a").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("total", "Total").
	Project("risky_count", "RiskyCount").
	Project("safe_count", "SafeCount").
	Project("risk_percentage", "RiskPercentage").
	Project("categories", "Categories").
	Project("keyword_threshold", "KeywordThreshold").
	Project("base_risky_confidence", "BaseRiskyConfidence").
	Project("safe_confidence", "SafeConfidence").
	Project("analyzed_at", "AnalyzedAt").
	Join("public", "documents", "d", "JOIN", "d.id = a.document_id").
	Project("filename", "Filename")

var defaultSort = query.SortField{
	Field:      "AnalyzedAt",
	Descending: true,
}

var clauseProjection = query.
	NewProjectionMap("public", "clauses", "c").
	Project("id", "ID").
	Project("analysis_id", "AnalysisID").
	Project("position", "Position").
	Project("text", "Text").
	Project("label", "Label").
	Project("confidence", "Confidence").
	Project("matched_keywords", "MatchedKeywords").
	Project("categories", "Categories")

var clauseSort = query.SortField{Field: "Position"}

// Filters contains optional filtering criteria for analysis queries.
// Nil fields are ignored. MinRiskPercentage keeps analyses that scored at or
// above the value.
type Filters struct {
	DocumentID        *uuid.UUID `json:"document_id,omitempty"`
	MinRiskPercentage *float64   `json:"min_risk_percentage,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("DocumentID", f.DocumentID).
		WhereAtLeast("RiskPercentage", f.MinRiskPercentage)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if d := values.Get("document_id"); d != "" {
		if id, err := uuid.Parse(d); err == nil {
			f.DocumentID = &id
		}
	}

	if rp := values.Get("min_risk_percentage"); rp != "" {
		if v, err := strconv.ParseFloat(rp, 64); err == nil {
			f.MinRiskPercentage = &v
		}
	}

	return f
}

// ClauseFilters narrows the clauses of one analysis.
// Label matches exactly. Category and Keyword keep clauses whose category or
// matched keyword list contains the value; keywords are compared lower-cased.
type ClauseFilters struct {
	Label    *string `json:"label,omitempty"`
	Category *string `json:"category,omitempty"`
	Keyword  *string `json:"keyword,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f ClauseFilters) Apply(b *query.Builder) *query.Builder {
	var keyword *string
	if f.Keyword != nil {
		k := strings.ToLower(strings.TrimSpace(*f.Keyword))
		keyword = &k
	}

	return b.
		WhereEquals("Label", f.Label).
		WhereArrayContains("Categories", f.Category).
		WhereArrayContains("MatchedKeywords", keyword)
}

// ClauseFiltersFromQuery extracts clause filter values from URL query parameters.
func ClauseFiltersFromQuery(values url.Values) ClauseFilters {
	var f ClauseFilters

	if l := values.Get("label"); l != "" {
		f.Label = &l
	}

	if c := values.Get("category"); c != "" {
		f.Category = &c
	}

	if k := values.Get("keyword"); k != "" {
		f.Keyword = &k
	}

	return f
}

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var a Analysis
	var categoriesRaw []byte

	err := s.Scan(
		&a.ID,
		&a.DocumentID,
		&a.Total,
		&a.RiskyCount,
		&a.SafeCount,
		&a.RiskPercentage,
		&categoriesRaw,
		&a.KeywordThreshold,
		&a.BaseRiskyConfidence,
		&a.SafeConfidence,
		&a.AnalyzedAt,
		&a.Filename,
	)

	if err != nil {
		return a, err
	}

	if len(categoriesRaw) > 0 {
		if err := json.Unmarshal(categoriesRaw, &a.Categories); err != nil {
			return a, fmt.Errorf("unmarshal categories: %w", err)
		}
	}

	if a.Categories == nil {
		a.Categories = map[string]int{}
	}

	return a, nil
}

func scanClause(s repository.Scanner) (Clause, error) {
	var c Clause
	var keywordsRaw, categoriesRaw []byte

	err := s.Scan(
		&c.ID,
		&c.AnalysisID,
		&c.Position,
		&c.Text,
		&c.Label,
		&c.Confidence,
		&keywordsRaw,
		&categoriesRaw,
	)

	if err != nil {
		return c, err
	}

	if c.MatchedKeywords, err = decodeList(keywordsRaw); err != nil {
		return c, fmt.Errorf("unmarshal matched_keywords: %w", err)
	}

	if c.Categories, err = decodeList(categoriesRaw); err != nil {
		return c, fmt.Errorf("unmarshal categories: %w", err)
	}

	return c, nil
}

func decodeList(raw []byte) ([]string, error) {
	list := []string{}
	if len(raw) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}
