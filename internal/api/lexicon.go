package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/covenant/pkg/handlers"
	"github.com/JaimeStill/covenant/pkg/openapi"
	"github.com/JaimeStill/covenant/pkg/risk"
	"github.com/JaimeStill/covenant/pkg/routes"
)

// LexiconInfo describes the active classifier: its keyword resource and the
// thresholds it scores with.
type LexiconInfo struct {
	risk.LexiconFile
	KeywordThreshold    int     `json:"keyword_threshold"`
	BaseRiskyConfidence float64 `json:"base_risky_confidence"`
	SafeConfidence      float64 `json:"safe_confidence"`
}

type lexiconHandler struct {
	info   LexiconInfo
	logger *slog.Logger
}

func newLexiconHandler(classifier *risk.Classifier, logger *slog.Logger) *lexiconHandler {
	cfg := classifier.Config()
	return &lexiconHandler{
		info: LexiconInfo{
			LexiconFile:         classifier.Lexicon().File(),
			KeywordThreshold:    cfg.KeywordThreshold,
			BaseRiskyConfidence: cfg.BaseRisky(),
			SafeConfidence:      cfg.Safe(),
		},
		logger: logger.With("handler", "lexicon"),
	}
}

func (h *lexiconHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/lexicon",
		Tags:   []string{"Lexicon"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.get, Doc: lexiconGet},
		},
	}
}

func (h *lexiconHandler) get(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.info)
}

var lexiconSchemas = map[string]*openapi.Schema{
	"Lexicon": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"keywords": {
				Type:        "array",
				Description: "Keyword phrases in match order",
				Items:       &openapi.Schema{Type: "string"},
			},
			"categories": {
				Type:        "object",
				Description: "Category name per keyword phrase",
			},
			"keyword_threshold":     {Type: "integer", Example: 2},
			"base_risky_confidence": {Type: "number", Example: 0.8},
			"safe_confidence":       {Type: "number", Example: 0.9},
		},
	},
}

var lexiconGet = &openapi.Operation{
	Summary: "Show the active keyword lexicon and thresholds",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Lexicon", "Lexicon"),
	},
}
