package analyses_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/covenant/internal/analyses"
	"github.com/JaimeStill/covenant/internal/documents"
	"github.com/JaimeStill/covenant/pkg/query"
	"github.com/JaimeStill/covenant/pkg/storage"
)

func ptr[T any](v T) *T { return &v }

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", analyses.ErrNotFound, http.StatusNotFound},
		{"duplicate", analyses.ErrDuplicate, http.StatusConflict},
		{"extraction", fmt.Errorf("%w: bad pdf", analyses.ErrExtraction), http.StatusUnprocessableEntity},
		{"empty text", analyses.ErrEmptyText, http.StatusBadRequest},
		{"text too large", analyses.ErrTextTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid sort", fmt.Errorf("%w: %w", analyses.ErrInvalidSort, query.ErrUnknownField), http.StatusBadRequest},
		{"document not found", fmt.Errorf("analyze: %w", documents.ErrNotFound), http.StatusNotFound},
		{"blob missing", storage.ErrNotFound, http.StatusNotFound},
		{"storage unavailable", storage.ErrUnavailable, http.StatusBadGateway},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := analyses.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	docID := uuid.New()

	t.Run("all params present", func(t *testing.T) {
		f := analyses.FiltersFromQuery(url.Values{
			"document_id":         {docID.String()},
			"min_risk_percentage": {"50"},
		})

		if f.DocumentID == nil || *f.DocumentID != docID {
			t.Errorf("DocumentID = %v, want %s", f.DocumentID, docID)
		}
		if f.MinRiskPercentage == nil || *f.MinRiskPercentage != 50 {
			t.Errorf("MinRiskPercentage = %v, want 50", f.MinRiskPercentage)
		}
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		f := analyses.FiltersFromQuery(url.Values{
			"document_id":         {"not-a-uuid"},
			"min_risk_percentage": {"lots"},
		})

		if f.DocumentID != nil || f.MinRiskPercentage != nil {
			t.Errorf("expected nil filters, got %+v", f)
		}
	})
}

func TestClauseFiltersFromQuery(t *testing.T) {
	f := analyses.ClauseFiltersFromQuery(url.Values{
		"label":    {"Risky"},
		"category": {"Indemnity"},
		"keyword":  {"indemnify"},
	})

	if f.Label == nil || *f.Label != "Risky" {
		t.Errorf("Label = %v, want Risky", f.Label)
	}
	if f.Category == nil || *f.Category != "Indemnity" {
		t.Errorf("Category = %v, want Indemnity", f.Category)
	}
	if f.Keyword == nil || *f.Keyword != "indemnify" {
		t.Errorf("Keyword = %v, want indemnify", f.Keyword)
	}

	empty := analyses.ClauseFiltersFromQuery(url.Values{})
	if empty.Label != nil || empty.Category != nil || empty.Keyword != nil {
		t.Errorf("expected nil filters, got %+v", empty)
	}
}

func TestFiltersApply(t *testing.T) {
	p := query.NewProjectionMap("public", "analyses", "a").
		Project("id", "ID").
		Project("document_id", "DocumentID").
		Project("risk_percentage", "RiskPercentage")

	docID := uuid.New()
	f := analyses.Filters{
		DocumentID:        &docID,
		MinRiskPercentage: ptr(25.0),
	}

	b := query.NewBuilder(p)
	f.Apply(b)
	sql, args := b.Build()

	want := "SELECT a.id, a.document_id, a.risk_percentage FROM public.analyses a " +
		"WHERE a.document_id = $1 AND a.risk_percentage >= $2"
	if sql != want {
		t.Errorf("sql = %q\nwant %q", sql, want)
	}
	if len(args) != 2 {
		t.Errorf("args length = %d, want 2", len(args))
	}
}

func TestClauseFiltersApply(t *testing.T) {
	p := query.NewProjectionMap("public", "clauses", "c").
		Project("id", "ID").
		Project("label", "Label").
		Project("matched_keywords", "MatchedKeywords").
		Project("categories", "Categories")

	t.Run("all filters", func(t *testing.T) {
		f := analyses.ClauseFilters{
			Label:    ptr("Risky"),
			Category: ptr("Liability"),
			Keyword:  ptr("  Unlimited Liability "),
		}

		b := query.NewBuilder(p)
		f.Apply(b)
		sql, args := b.Build()

		want := "SELECT c.id, c.label, c.matched_keywords, c.categories FROM public.clauses c " +
			"WHERE c.label = $1 AND c.categories @> $2::jsonb AND c.matched_keywords @> $3::jsonb"
		if sql != want {
			t.Errorf("sql = %q\nwant %q", sql, want)
		}
		if len(args) != 3 {
			t.Fatalf("args length = %d, want 3", len(args))
		}
		if args[1] != `["Liability"]` {
			t.Errorf("category arg = %v", args[1])
		}
		if args[2] != `["unlimited liability"]` {
			t.Errorf("keyword arg = %v, want lower-cased phrase", args[2])
		}
	})

	t.Run("no filters", func(t *testing.T) {
		b := query.NewBuilder(p)
		analyses.ClauseFilters{}.Apply(b)
		_, args := b.Build()
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})
}
