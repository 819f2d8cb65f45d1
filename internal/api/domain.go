package api

import (
	"github.com/JaimeStill/covenant/internal/analyses"
	"github.com/JaimeStill/covenant/internal/documents"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Analyses  analyses.System
	Documents documents.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	analysesSystem := analyses.New(
		runtime.Database.Connection(),
		docsSystem,
		runtime.Classifier,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Analyses:  analysesSystem,
		Documents: docsSystem,
	}
}
