package analyses

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/covenant/internal/documents"
	"github.com/JaimeStill/covenant/pkg/storage"
)

// Domain errors for analysis operations.
var (
	ErrNotFound     = errors.New("analysis not found")
	ErrDuplicate    = errors.New("analysis already exists")
	ErrExtraction   = errors.New("document text could not be extracted")
	ErrEmptyText    = errors.New("text is required")
	ErrInvalidSort  = errors.New("invalid sort")
	ErrTextTooLarge = errors.New("text exceeds maximum upload size")
)

// MapHTTPStatus maps analysis domain errors to appropriate HTTP status codes.
// Document and storage errors surfaced through Analyze map through the
// documents domain.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrTextTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrExtraction):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrEmptyText), errors.Is(err, ErrInvalidSort):
		return http.StatusBadRequest
	case errors.Is(err, documents.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
