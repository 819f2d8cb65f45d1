package documents

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/covenant/pkg/query"
	"github.com/JaimeStill/covenant/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("status", "Status").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "analyses", "a", "LEFT JOIN", "d.id = a.document_id").
	Project("risk_percentage", "RiskPercentage").
	Project("analyzed_at", "AnalyzedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. Status and ContentType use exact matching,
// Filename uses case-insensitive contains matching, and MinRiskPercentage
// keeps documents whose latest analysis scored at or above the value.
type Filters struct {
	Status            *string  `json:"status,omitempty"`
	Filename          *string  `json:"filename,omitempty"`
	ContentType       *string  `json:"content_type,omitempty"`
	MinRiskPercentage *float64 `json:"min_risk_percentage,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Filename", f.Filename).
		WhereEquals("ContentType", f.ContentType).
		WhereAtLeast("RiskPercentage", f.MinRiskPercentage)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	if rp := values.Get("min_risk_percentage"); rp != "" {
		if v, err := strconv.ParseFloat(rp, 64); err == nil {
			f.MinRiskPercentage = &v
		}
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.Status,
		&d.UploadedAt,
		&d.UpdatedAt,
		&d.RiskPercentage,
		&d.AnalyzedAt,
	)
	return d, err
}
