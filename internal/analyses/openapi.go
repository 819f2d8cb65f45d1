package analyses

import "github.com/JaimeStill/covenant/pkg/openapi"

var clauseSchema = &openapi.Schema{
	Type: "object",
	Properties: map[string]*openapi.Schema{
		"id":               {Type: "string", Format: "uuid"},
		"analysis_id":      {Type: "string", Format: "uuid"},
		"position":         {Type: "integer", Description: "1-based position within the document"},
		"text":             {Type: "string"},
		"label":            {Type: "string", Enum: []any{"Risky", "Safe"}},
		"confidence":       {Type: "number", Example: 0.86},
		"matched_keywords": {Type: "array", Items: &openapi.Schema{Type: "string"}},
		"categories":       {Type: "array", Items: &openapi.Schema{Type: "string"}},
	},
}

var countsSchema = &openapi.Schema{
	Type:        "object",
	Description: "Risky clause count per category",
}

// Schemas are the component schemas referenced by analysis operations.
var Schemas = map[string]*openapi.Schema{
	"Clause": clauseSchema,
	"Analysis": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":                    {Type: "string", Format: "uuid"},
			"document_id":           {Type: "string", Format: "uuid"},
			"filename":              {Type: "string"},
			"total":                 {Type: "integer"},
			"risky_count":           {Type: "integer"},
			"safe_count":            {Type: "integer"},
			"risk_percentage":       {Type: "number", Example: 33.3},
			"categories":            countsSchema,
			"keyword_threshold":     {Type: "integer", Example: 2},
			"base_risky_confidence": {Type: "number", Example: 0.8},
			"safe_confidence":       {Type: "number", Example: 0.9},
			"analyzed_at":           {Type: "string", Format: "date-time"},
			"clauses":               openapi.ArrayOf("Clause"),
		},
	},
	"AnalysisPage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        openapi.ArrayOf("Analysis"),
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
			"has_next":    {Type: "boolean"},
		},
	},
	"ClausePage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        openapi.ArrayOf("Clause"),
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
			"has_next":    {Type: "boolean"},
		},
	},
	"AnalysisSearch": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"page":                {Type: "integer"},
			"page_size":           {Type: "integer"},
			"search":              {Type: "string", Description: "Filename search"},
			"sort":                {Type: "string"},
			"document_id":         {Type: "string", Format: "uuid"},
			"min_risk_percentage": {Type: "number"},
		},
	},
	"ClauseSearch": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"page":      {Type: "integer"},
			"page_size": {Type: "integer"},
			"search":    {Type: "string", Description: "Clause text search"},
			"sort":      {Type: "string", Example: "position"},
			"label":     {Type: "string", Enum: []any{"Risky", "Safe"}},
			"category":  {Type: "string", Example: "Indemnity"},
			"keyword":   {Type: "string", Example: "indemnify"},
		},
	},
	"EvaluateCommand": {
		Type:     "object",
		Required: []string{"text"},
		Properties: map[string]*openapi.Schema{
			"text": {Type: "string", Description: "Raw contract text"},
		},
	},
	"Evaluation": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"summary": {
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"total":           {Type: "integer"},
					"risky_count":     {Type: "integer"},
					"safe_count":      {Type: "integer"},
					"risk_percentage": {Type: "number"},
				},
			},
			"categories": countsSchema,
			"clauses": {
				Type: "array",
				Items: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"id":               {Type: "integer"},
						"text":             {Type: "string"},
						"label":            {Type: "string", Enum: []any{"Risky", "Safe"}},
						"confidence":       {Type: "number"},
						"matched_keywords": {Type: "array", Items: &openapi.Schema{Type: "string"}},
						"categories":       {Type: "array", Items: &openapi.Schema{Type: "string"}},
					},
				},
			},
		},
	},
}

var idParam = openapi.PathParam("id", "Analysis ID")

var opList = &openapi.Operation{
	Summary: "List analyses",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("search", "string", "Filename search", false),
		openapi.QueryParam("sort", "string", "Sort fields", false),
		openapi.QueryParam("document_id", "string", "Document filter", false),
		openapi.QueryParam("min_risk_percentage", "number", "Minimum risk percentage", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Analysis page", "AnalysisPage"),
	},
}

var opFind = &openapi.Operation{
	Summary:    "Find an analysis with its clauses",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Analysis", "Analysis"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var opFindByDocument = &openapi.Operation{
	Summary:    "Find the analysis of a document",
	Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document ID")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Analysis", "Analysis"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var opClauses = &openapi.Operation{
	Summary:     "Page through the clauses of an analysis",
	Parameters:  []*openapi.Parameter{idParam},
	RequestBody: openapi.RequestBodyJSON("ClauseSearch", false),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Clause page", "ClausePage"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var opSearch = &openapi.Operation{
	Summary:     "Search analyses",
	RequestBody: openapi.RequestBodyJSON("AnalysisSearch", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Analysis page", "AnalysisPage"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var opEvaluate = &openapi.Operation{
	Summary:     "Classify raw text without storing it",
	RequestBody: openapi.RequestBodyJSON("EvaluateCommand", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Evaluation", "Evaluation"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var opAnalyze = &openapi.Operation{
	Summary:    "Analyze a stored document",
	Parameters: []*openapi.Parameter{openapi.PathParam("documentId", "Document ID")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Analysis", "Analysis"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
		422: openapi.ResponseRef("UnprocessableEntity"),
	},
}

var opDelete = &openapi.Operation{
	Summary:    "Delete an analysis",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		204: {Description: "Deleted"},
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}
