package api

import (
	"net/http"

	"github.com/JaimeStill/covenant/internal/analyses"
	"github.com/JaimeStill/covenant/internal/config"
	"github.com/JaimeStill/covenant/internal/documents"
	"github.com/JaimeStill/covenant/pkg/openapi"
	"github.com/JaimeStill/covenant/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	groups := []routes.Group{
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Analyses.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		newLexiconHandler(runtime.Classifier, runtime.Logger).routes(),
	}

	routes.Register(mux, groups...)

	spec, err := openapi.MarshalJSON(buildSpec(cfg, groups))
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	return nil
}

// buildSpec describes every documented route. Paths are relative to the
// server entry, which carries the module base path.
func buildSpec(cfg *config.Config, groups []routes.Group) *openapi.Spec {
	spec := openapi.FromConfig(&cfg.API.OpenAPI)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(documents.Schemas)
	spec.Components.AddSchemas(analyses.Schemas)
	spec.Components.AddSchemas(lexiconSchemas)

	routes.Walk(func(path string, route routes.Route, tags []string) {
		if route.Doc == nil {
			return
		}
		op := *route.Doc
		op.Tags = tags
		spec.AddOperation(path, route.Method, &op)
	}, groups...)

	return spec
}
