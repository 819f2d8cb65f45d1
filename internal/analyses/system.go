package analyses

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/covenant/pkg/pagination"
)

// System defines the public contract for analysis domain operations.
type System interface {
	Handler(maxBodySize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Analysis], error)

	// Find returns an analysis with all of its clauses in document order.
	Find(ctx context.Context, id uuid.UUID) (*Analysis, error)
	FindByDocument(ctx context.Context, documentID uuid.UUID) (*Analysis, error)

	Clauses(
		ctx context.Context,
		analysisID uuid.UUID,
		page pagination.PageRequest,
		filters ClauseFilters,
	) (*pagination.PageResult[Clause], error)

	// Analyze extracts, segments, and classifies a stored document, replacing
	// any previous analysis of it.
	Analyze(ctx context.Context, documentID uuid.UUID) (*Analysis, error)

	// Evaluate classifies raw text without persisting anything.
	Evaluate(ctx context.Context, text string) (*Evaluation, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
