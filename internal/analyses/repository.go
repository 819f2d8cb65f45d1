package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/covenant/internal/documents"
	"github.com/JaimeStill/covenant/pkg/extract"
	"github.com/JaimeStill/covenant/pkg/pagination"
	"github.com/JaimeStill/covenant/pkg/query"
	"github.com/JaimeStill/covenant/pkg/repository"
	"github.com/JaimeStill/covenant/pkg/risk"
)

type repo struct {
	db         *sql.DB
	docs       documents.System
	classifier *risk.Classifier
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an analysis repository implementing the System interface.
func New(
	db *sql.DB,
	docs documents.System,
	classifier *risk.Classifier,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		docs:       docs,
		classifier: classifier,
		logger:     logger.With("system", "analyses"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxBodySize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxBodySize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	page, err := r.listPage(page)
	if err != nil {
		return nil, err
	}

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	return r.findWithClauses(ctx, r.db, "ID", id)
}

func (r *repo) FindByDocument(ctx context.Context, documentID uuid.UUID) (*Analysis, error) {
	return r.findWithClauses(ctx, r.db, "DocumentID", documentID)
}

func (r *repo) findWithClauses(ctx context.Context, db repository.Querier, field string, value uuid.UUID) (*Analysis, error) {
	q, args := query.NewBuilder(projection).BuildSingle(field, value)

	a, err := repository.QueryOne(ctx, db, q, args, scanAnalysis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	cq, cargs := query.
		NewBuilder(clauseProjection, clauseSort).
		WhereEquals("AnalysisID", a.ID).
		Build()

	clauses, err := repository.QueryMany(ctx, db, cq, cargs, scanClause)
	if err != nil {
		return nil, fmt.Errorf("query clauses: %w", err)
	}

	a.Clauses = clauses
	return &a, nil
}

func (r *repo) Clauses(
	ctx context.Context,
	analysisID uuid.UUID,
	page pagination.PageRequest,
	filters ClauseFilters,
) (*pagination.PageResult[Clause], error) {
	page, err := r.clausePage(page)
	if err != nil {
		return nil, err
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM analyses WHERE id = $1)", analysisID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check analysis: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	qb := query.
		NewBuilder(clauseProjection, clauseSort).
		WhereEquals("AnalysisID", analysisID).
		WhereSearch(page.Search, "Text")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count clauses: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanClause)
	if err != nil {
		return nil, fmt.Errorf("query clauses: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Analyze(ctx context.Context, documentID uuid.UUID) (*Analysis, error) {
	start := time.Now()

	text, err := r.documentText(ctx, documentID)
	if err != nil {
		documentsAnalyzed.WithLabelValues(outcomeFailed).Inc()
		return nil, err
	}

	clauses, summary := r.classifier.Analyze(text)
	categories := risk.Categories(clauses)
	cfg := r.classifier.Config()

	categoriesJSON, err := json.Marshal(categories)
	if err != nil {
		return nil, fmt.Errorf("marshal categories: %w", err)
	}

	upsertQ := `
		INSERT INTO analyses(
			document_id, total, risky_count, safe_count, risk_percentage, categories,
			keyword_threshold, base_risky_confidence, safe_confidence
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (document_id) DO UPDATE SET
			total = EXCLUDED.total,
			risky_count = EXCLUDED.risky_count,
			safe_count = EXCLUDED.safe_count,
			risk_percentage = EXCLUDED.risk_percentage,
			categories = EXCLUDED.categories,
			keyword_threshold = EXCLUDED.keyword_threshold,
			base_risky_confidence = EXCLUDED.base_risky_confidence,
			safe_confidence = EXCLUDED.safe_confidence,
			analyzed_at = NOW()
		RETURNING id`

	upsertArgs := []any{
		documentID,
		summary.Total,
		summary.RiskyCount,
		summary.SafeCount,
		summary.RiskPercentage,
		categoriesJSON,
		cfg.KeywordThreshold,
		cfg.BaseRisky(),
		cfg.Safe(),
	}

	insertClauseQ := `
		INSERT INTO clauses(
			analysis_id, position, text, label, confidence, matched_keywords, categories
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Analysis, error) {
		var id uuid.UUID
		if err := tx.QueryRowContext(ctx, upsertQ, upsertArgs...).Scan(&id); err != nil {
			return nil, fmt.Errorf("upsert analysis: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM clauses WHERE analysis_id = $1", id); err != nil {
			return nil, fmt.Errorf("clear clauses: %w", err)
		}

		rows, err := clauseRows(id, clauses)
		if err != nil {
			return nil, err
		}

		if err := repository.ExecMany(ctx, tx, insertClauseQ, rows); err != nil {
			return nil, fmt.Errorf("insert clauses: %w", err)
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE documents SET status = $2, updated_at = NOW() WHERE id = $1",
			documentID, documents.StatusAnalyzed,
		); err != nil {
			return nil, fmt.Errorf("update document status: %w", err)
		}

		return r.findWithClauses(ctx, tx, "ID", id)
	})

	if err != nil {
		documentsAnalyzed.WithLabelValues(outcomeFailed).Inc()
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	elapsed := time.Since(start)
	analysisDuration.Observe(elapsed.Seconds())
	documentsAnalyzed.WithLabelValues(outcomeAnalyzed).Inc()
	clausesClassified.WithLabelValues(string(risk.LabelRisky)).Add(float64(summary.RiskyCount))
	clausesClassified.WithLabelValues(string(risk.LabelSafe)).Add(float64(summary.SafeCount))

	r.logger.Info("document analyzed",
		"id", a.ID,
		"document_id", documentID,
		"total", summary.Total,
		"risky", summary.RiskyCount,
		"risk_percentage", summary.RiskPercentage,
		"duration", elapsed,
	)
	return a, nil
}

// listPage normalizes an analysis listing request and rejects sort fields the
// listing cannot order by.
func (r *repo) listPage(page pagination.PageRequest) (pagination.PageRequest, error) {
	return preparePage(page, r.pagination, projection)
}

// clausePage is listPage for clause listings, which use the clause page ceiling.
func (r *repo) clausePage(page pagination.PageRequest) (pagination.PageRequest, error) {
	return preparePage(page, r.pagination.Clauses(), clauseProjection)
}

func preparePage(page pagination.PageRequest, cfg pagination.Config, p *query.ProjectionMap) (pagination.PageRequest, error) {
	page.Normalize(cfg)
	if err := p.CheckSort(page.Sort); err != nil {
		return page, fmt.Errorf("%w: %w", ErrInvalidSort, err)
	}
	return page, nil
}

// documentText downloads a stored document and extracts its text. Extraction
// failures mark the document failed.
func (r *repo) documentText(ctx context.Context, documentID uuid.UUID) (string, error) {
	doc, body, err := r.docs.Download(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("analyze document %s: %w", documentID, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read document %s: %w", documentID, err)
	}

	text, err := extract.Text(data, doc.ContentType)
	if errors.Is(err, extract.ErrPartial) {
		r.logger.Warn("partial text extraction", "document_id", documentID, "error", err)
		err = nil
	}
	if err != nil {
		if serr := r.docs.SetStatus(ctx, documentID, documents.StatusFailed); serr != nil {
			r.logger.Warn("failed to mark document failed", "document_id", documentID, "error", serr)
		}
		r.logger.Warn("text extraction failed", "document_id", documentID, "error", err)
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	return text, nil
}

func (r *repo) Evaluate(ctx context.Context, text string) (*Evaluation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clauses, summary := r.classifier.Analyze(text)

	r.logger.Debug("text evaluated",
		"total", summary.Total,
		"risky", summary.RiskyCount,
	)

	return &Evaluation{
		Summary:    summary,
		Categories: risk.Categories(clauses),
		Clauses:    clauses,
	}, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		var documentID uuid.UUID
		if err := tx.QueryRowContext(ctx,
			"DELETE FROM analyses WHERE id = $1 RETURNING document_id", id,
		).Scan(&documentID); err != nil {
			return struct{}{}, err
		}

		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"UPDATE documents SET status = $2, updated_at = NOW() WHERE id = $1",
			documentID, documents.StatusPending,
		)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("analysis deleted", "id", id)
	return nil
}

func clauseRows(analysisID uuid.UUID, clauses []risk.Clause) ([][]any, error) {
	rows := make([][]any, 0, len(clauses))
	for _, rc := range clauses {
		c := clauseFrom(analysisID, rc)

		keywords, err := json.Marshal(c.MatchedKeywords)
		if err != nil {
			return nil, fmt.Errorf("marshal matched_keywords: %w", err)
		}

		categories, err := json.Marshal(c.Categories)
		if err != nil {
			return nil, fmt.Errorf("marshal categories: %w", err)
		}

		rows = append(rows, []any{
			c.AnalysisID,
			c.Position,
			c.Text,
			c.Label,
			c.Confidence,
			keywords,
			categories,
		})
	}
	return rows, nil
}
