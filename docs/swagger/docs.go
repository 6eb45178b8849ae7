// Package swagger registers the OpenAPI document of the status API.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    },
    "security": [{"ApiKeyAuth": []}],
    "paths": {
        "/health": {
            "get": {
                "description": "Liveness probe. Never requires the API key.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health",
                "security": [],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sync/status": {
            "get": {
                "description": "Returns the state of the reconciliation loop and the report of the last cycle.",
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Sync Status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reconcile.StatusSnapshot"}}
                }
            }
        },
        "/sync/preview": {
            "get": {
                "description": "Reads the spreadsheet and the database and returns the plan and merged grid without writing. Results are cached briefly.",
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Preview Next Cycle",
                "parameters": [
                    {"type": "boolean", "description": "Bypass the cache", "name": "refresh", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reconcile.PreviewResult"}},
                    "502": {"description": "Read failure", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sync/run": {
            "post": {
                "description": "Runs a reconciliation cycle now and returns its report. Waits for a cycle already in progress.",
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Run Cycle",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reconcile.CycleReport"}},
                    "503": {"description": "Cycle aborted", "schema": {"$ref": "#/definitions/reconcile.CycleReport"}}
                }
            }
        }
    },
    "definitions": {
        "reconcile.Changes": {
            "type": "object",
            "properties": {
                "inserted": {"type": "array", "items": {"type": "integer"}},
                "updated": {"type": "array", "items": {"type": "integer"}},
                "deleted": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "reconcile.Summary": {
            "type": "object",
            "properties": {
                "upserts": {"type": "integer"},
                "deletes": {"type": "integer"},
                "skipped_deletes": {"type": "integer"}
            }
        },
        "reconcile.Failure": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "key": {"type": "integer"},
                "error": {"type": "string"}
            }
        },
        "reconcile.InvalidRow": {
            "type": "object",
            "properties": {
                "row": {"type": "integer"},
                "cells": {"type": "array", "items": {"type": "string"}},
                "reason": {"type": "string"}
            }
        },
        "reconcile.CycleReport": {
            "type": "object",
            "properties": {
                "started_at": {"type": "string"},
                "finished_at": {"type": "string"},
                "phase": {"type": "string"},
                "aborted_in": {"type": "string"},
                "error": {"type": "string"},
                "initial_load": {"type": "boolean"},
                "invalid_rows": {"type": "array", "items": {"$ref": "#/definitions/reconcile.InvalidRow"}},
                "duplicate_ids": {"type": "array", "items": {"type": "integer"}},
                "sheet_changes": {"$ref": "#/definitions/reconcile.Changes"},
                "database_changes": {"$ref": "#/definitions/reconcile.Changes"},
                "outgoing_changes": {"$ref": "#/definitions/reconcile.Changes"},
                "plan": {"$ref": "#/definitions/reconcile.Summary"},
                "executed": {"type": "integer"},
                "failed_mutations": {"type": "array", "items": {"$ref": "#/definitions/reconcile.Failure"}},
                "sheet_written": {"type": "boolean"},
                "cells_updated": {"type": "integer"},
                "sheet_write_error": {"type": "string"}
            }
        },
        "reconcile.StatusSnapshot": {
            "type": "object",
            "properties": {
                "running": {"type": "boolean"},
                "cycles": {"type": "integer"},
                "aborted_cycles": {"type": "integer"},
                "last_success": {"type": "string"},
                "next_run_at": {"type": "string"},
                "sheet_rows": {"type": "integer"},
                "database_rows": {"type": "integer"},
                "last_report": {"$ref": "#/definitions/reconcile.CycleReport"}
            }
        },
        "reconcile.PreviewResult": {
            "type": "object",
            "properties": {
                "generated_at": {"type": "string"},
                "initial_load": {"type": "boolean"},
                "invalid_rows": {"type": "array", "items": {"$ref": "#/definitions/reconcile.InvalidRow"}},
                "duplicate_ids": {"type": "array", "items": {"type": "integer"}},
                "sheet_changes": {"$ref": "#/definitions/reconcile.Changes"},
                "plan": {"type": "object"},
                "merged_grid": {"type": "array", "items": {"type": "array", "items": {"type": "string"}}},
                "would_write": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Employee Sync API",
	Description:      "Status API of the employee database and spreadsheet reconciler.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
