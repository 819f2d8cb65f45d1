package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/covenant/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func TestMapErrorNil(t *testing.T) {
	got := repository.MapError(nil, errNotFound, errDuplicate)
	if got != nil {
		t.Errorf("MapError(nil) = %v, want nil", got)
	}
}

func TestMapErrorNotFound(t *testing.T) {
	got := repository.MapError(sql.ErrNoRows, errNotFound, errDuplicate)
	if !errors.Is(got, errNotFound) {
		t.Errorf("MapError(ErrNoRows) = %v, want %v", got, errNotFound)
	}
}

func TestMapErrorDuplicate(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	got := repository.MapError(pgErr, errNotFound, errDuplicate)
	if !errors.Is(got, errDuplicate) {
		t.Errorf("MapError(PgError 23505) = %v, want %v", got, errDuplicate)
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	original := errors.New("some other error")
	got := repository.MapError(original, errNotFound, errDuplicate)
	if got != original {
		t.Errorf("MapError(other) = %v, want %v", got, original)
	}
}

func TestMapErrorForeignKey(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "analyses_document_id_fkey"}
	got := repository.MapError(fmt.Errorf("insert analysis: %w", pgErr), errNotFound, errDuplicate)
	if !errors.Is(got, errNotFound) {
		t.Errorf("MapError(PgError 23503) = %v, want %v", got, errNotFound)
	}
}

func TestMapErrorPgOther(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23514"}
	got := repository.MapError(pgErr, errNotFound, errDuplicate)
	if got != pgErr {
		t.Errorf("MapError(PgError 23514) should pass through, got %v", got)
	}
}

type failingPreparer struct {
	calls int
}

func (p *failingPreparer) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	p.calls++
	return nil, errors.New("prepare failed")
}

func TestExecManyEmpty(t *testing.T) {
	p := &failingPreparer{}
	if err := repository.ExecMany(context.Background(), p, "INSERT", nil); err != nil {
		t.Errorf("ExecMany(no rows) = %v, want nil", err)
	}
	if p.calls != 0 {
		t.Errorf("prepare called %d times, want 0", p.calls)
	}
}

func TestExecManyPrepareError(t *testing.T) {
	p := &failingPreparer{}
	err := repository.ExecMany(context.Background(), p, "INSERT", [][]any{{1}, {2}})
	if err == nil {
		t.Fatal("expected prepare error")
	}
	if p.calls != 1 {
		t.Errorf("prepare called %d times, want 1", p.calls)
	}
}
