package documents

import "github.com/JaimeStill/covenant/pkg/openapi"

// Schemas are the component schemas referenced by document operations.
var Schemas = map[string]*openapi.Schema{
	"Document": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":              {Type: "string", Format: "uuid"},
			"filename":        {Type: "string", Example: "master-services-agreement.pdf"},
			"content_type":    {Type: "string", Enum: []any{"text/plain", "application/pdf"}},
			"size_bytes":      {Type: "integer"},
			"page_count":      {Type: "integer", Description: "Set for PDF documents"},
			"storage_key":     {Type: "string"},
			"status":          {Type: "string", Enum: []any{StatusPending, StatusAnalyzed, StatusFailed}},
			"uploaded_at":     {Type: "string", Format: "date-time"},
			"updated_at":      {Type: "string", Format: "date-time"},
			"risk_percentage": {Type: "number", Description: "Risk percentage of the latest analysis"},
			"analyzed_at":     {Type: "string", Format: "date-time"},
		},
	},
	"DocumentPage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        openapi.ArrayOf("Document"),
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
			"has_next":    {Type: "boolean"},
		},
	},
	"DocumentSearch": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"page":                {Type: "integer"},
			"page_size":           {Type: "integer"},
			"search":              {Type: "string"},
			"sort":                {Type: "string"},
			"status":              {Type: "string"},
			"filename":            {Type: "string"},
			"content_type":        {Type: "string"},
			"min_risk_percentage": {Type: "number"},
		},
	},
}

var idParam = openapi.PathParam("id", "Document ID")

var docList = &openapi.Operation{
	Summary: "List documents",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("search", "string", "Filename search", false),
		openapi.QueryParam("sort", "string", "Sort fields", false),
		openapi.QueryParam("status", "string", "Status filter", false),
		openapi.QueryParam("filename", "string", "Filename contains", false),
		openapi.QueryParam("content_type", "string", "Content type filter", false),
		openapi.QueryParam("min_risk_percentage", "number", "Minimum risk percentage", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Document page", "DocumentPage"),
	},
}

var docFind = &openapi.Operation{
	Summary:    "Find a document",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Document", "Document"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var docDownload = &openapi.Operation{
	Summary:    "Download the stored file",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		200: {Description: "File contents"},
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var docUpload = &openapi.Operation{
	Summary:     "Upload a contract",
	RequestBody: openapi.RequestBodyMultipart("file", "A .txt or .pdf contract"),
	Responses: map[int]*openapi.Response{
		201: openapi.ResponseJSON("Created document", "Document"),
		400: openapi.ResponseRef("BadRequest"),
		413: openapi.ResponseRef("PayloadTooLarge"),
		415: openapi.ResponseRef("UnsupportedMediaType"),
	},
}

var docSearch = &openapi.Operation{
	Summary:     "Search documents",
	RequestBody: openapi.RequestBodyJSON("DocumentSearch", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Document page", "DocumentPage"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var docDelete = &openapi.Operation{
	Summary:    "Delete a document and its analysis",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		204: {Description: "Deleted"},
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}
