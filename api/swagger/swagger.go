package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Admission Offer API",
        "description": "Offer letter generation and delivery for admitted students",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Batches", "description": "Spreadsheet upload and batch lifecycle"},
        {"name": "Letters", "description": "Offer letter rendering and archives"},
        {"name": "Delivery", "description": "Bulk email delivery jobs"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Dependencies unavailable"}
                }
            }
        },
        "/batches": {
            "post": {
                "tags": ["Batches"],
                "summary": "Upload a student spreadsheet and create a batch",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "offer_date", "in": "formData", "type": "string", "required": true},
                    {"name": "start_date", "in": "formData", "type": "string", "required": true},
                    {"name": "ref_number_start", "in": "formData", "type": "integer", "required": true, "minimum": 1000, "maximum": 9999},
                    {"name": "require_email", "in": "formData", "type": "boolean"},
                    {"name": "file", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "201": {"description": "Batch created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid form, file type or columns"}
                }
            }
        },
        "/batches/{id}": {
            "get": {
                "tags": ["Batches"],
                "summary": "Get a batch with its records",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Batch not found"}
                }
            },
            "delete": {
                "tags": ["Batches"],
                "summary": "Delete a batch and its artifacts",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Batch not found"}
                }
            }
        },
        "/batches/{id}/letters/{index}": {
            "get": {
                "tags": ["Letters"],
                "summary": "Render a single offer letter as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "index", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "PDF document"},
                    "404": {"description": "Batch or record not found"}
                }
            }
        },
        "/batches/{id}/letters/archive": {
            "post": {
                "tags": ["Letters"],
                "summary": "Render every letter of a batch into a zip archive",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Archive metadata with signed download URL", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Batch not found"},
                    "400": {"description": "Empty batch or reference numbers would overflow"}
                }
            }
        },
        "/letters/download/{token}": {
            "get": {
                "tags": ["Letters"],
                "summary": "Download a letter archive via signed token",
                "produces": ["application/zip"],
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Zip archive"},
                    "400": {"description": "Invalid or expired token"},
                    "404": {"description": "Archive no longer available"}
                }
            }
        },
        "/batches/{id}/delivery": {
            "post": {
                "tags": ["Delivery"],
                "summary": "Queue bulk email delivery for a batch",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "202": {"description": "Job queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Batch not found"},
                    "412": {"description": "One or more records have no email address"}
                }
            }
        },
        "/delivery/{id}": {
            "get": {
                "tags": ["Delivery"],
                "summary": "Get delivery job status and summary",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Delivery job not found"}
                }
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
