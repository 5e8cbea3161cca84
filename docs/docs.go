// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/DANIELMWENDWA9451/Daniels-Library"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/activity": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Diagnostics"],
                "summary": "Recent activity",
                "parameters": [
                    {"enum": ["request", "cover_lookup", "download", "search"], "type": "string", "description": "Activity type", "name": "type", "in": "query"},
                    {"enum": ["info", "warn", "error"], "type": "string", "description": "Log level", "name": "level", "in": "query"},
                    {"type": "string", "description": "Request ID", "name": "request_id", "in": "query"},
                    {"type": "string", "description": "Case-insensitive path substring", "name": "path", "in": "query"},
                    {"type": "string", "description": "RFC 3339 lower bound", "name": "since", "in": "query"},
                    {"type": "string", "description": "RFC 3339 upper bound", "name": "until", "in": "query"},
                    {"type": "integer", "description": "Page size (default 50, max 500)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Entries to skip", "name": "skip", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Activity page", "schema": {"$ref": "#/definitions/service.ActivityPage"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Query failed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Activity log disabled", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/cache/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Diagnostics"],
                "summary": "Cache diagnostics",
                "responses": {
                    "200": {"description": "Cache statistics", "schema": {"$ref": "#/definitions/dto.CacheStatsResponse"}}
                }
            }
        },
        "/api/cover-lookup": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Covers"],
                "summary": "Look up a book cover",
                "parameters": [
                    {"type": "string", "description": "ISBN-10 or ISBN-13", "name": "isbn", "in": "query"},
                    {"type": "string", "description": "Book title", "name": "title", "in": "query"},
                    {"type": "string", "description": "Book author", "name": "author", "in": "query"},
                    {"type": "string", "description": "Catalog cover path or URL", "name": "rawCoverUrl", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Cover found", "schema": {"$ref": "#/definitions/dto.CoverResponse"}},
                    "400": {"description": "Missing identifier", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "No cover image found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "429": {"description": "Too many requests - rate limit exceeded", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Covers"],
                "summary": "Forget a cached cover",
                "parameters": [
                    {"type": "string", "description": "ISBN-10 or ISBN-13", "name": "isbn", "in": "query"},
                    {"type": "string", "description": "Book title", "name": "title", "in": "query"},
                    {"type": "string", "description": "Book author", "name": "author", "in": "query"},
                    {"type": "string", "description": "Catalog cover path or URL", "name": "rawCoverUrl", "in": "query"}
                ],
                "responses": {
                    "204": {"description": "Cache entry removed"},
                    "400": {"description": "Missing identifier", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/download": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Downloads"],
                "summary": "Resolve a direct download link",
                "parameters": [
                    {"description": "Book md5", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.DownloadRequest"}}
                ],
                "responses": {
                    "200": {"description": "Direct download link", "schema": {"$ref": "#/definitions/dto.DownloadResponse"}},
                    "400": {"description": "Missing or invalid md5", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "No download key on the page", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "405": {"description": "Method not allowed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "429": {"description": "Too many requests - rate limit exceeded", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Download page unreachable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/image-proxy": {
            "get": {
                "produces": ["image/*"],
                "tags": ["Covers"],
                "summary": "Proxy a cover image",
                "parameters": [
                    {"type": "string", "description": "Absolute image URL on an allow-listed host", "name": "url", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Image bytes with the upstream Content-Type", "schema": {"type": "file"}},
                    "400": {"description": "Missing or invalid url, or not an image", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Domain not allowed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Upstream status passed through", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Upstream unreachable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/metadata": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "Look up a book by md5",
                "parameters": [
                    {"type": "string", "description": "32 hexadecimal characters", "name": "md5", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Catalog record", "schema": {"$ref": "#/definitions/model.Book"}},
                    "400": {"description": "Missing or invalid md5", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Unknown md5", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Catalog unreachable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/search": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "Search the catalog",
                "parameters": [
                    {"description": "Search query and filters", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SearchRequest"}}
                ],
                "responses": {
                    "200": {"description": "One page of results", "schema": {"$ref": "#/definitions/dto.SearchResponse"}},
                    "400": {"description": "Missing or too short query", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "405": {"description": "Method not allowed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "429": {"description": "Too many requests - rate limit exceeded", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Catalog unreachable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "Service is alive", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Service is ready", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service is not ready", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "cache.Stats": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "totalItems": {"type": "integer"},
                "validItems": {"type": "integer"},
                "expiredItems": {"type": "integer"},
                "maxEntries": {"type": "integer"},
                "oldestItem": {"type": "string"},
                "newestItem": {"type": "string"}
            }
        },
        "circuitbreaker.Stats": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "state": {"type": "string"},
                "failure_count": {"type": "integer"},
                "success_count": {"type": "integer"}
            }
        },
        "dto.CacheStatsResponse": {
            "type": "object",
            "properties": {
                "caches": {"type": "array", "items": {"$ref": "#/definitions/cache.Stats"}},
                "breakers": {"type": "array", "items": {"$ref": "#/definitions/circuitbreaker.Stats"}}
            }
        },
        "dto.CoverResponse": {
            "type": "object",
            "properties": {
                "coverUrl": {"type": "string", "example": "/api/image-proxy?url=https%3A%2F%2Fcovers.openlibrary.org%2Fb%2Fisbn%2F9780441013593-L.jpg"},
                "source": {"type": "string", "example": "Open Library ISBN (L)"}
            }
        },
        "dto.DownloadRequest": {
            "type": "object",
            "properties": {
                "md5": {"type": "string", "example": "1d4a4ed5a1bbdc4a5ee0e1b4b6e5d0c1"}
            }
        },
        "dto.DownloadResponse": {
            "type": "object",
            "properties": {
                "directUrl": {"type": "string"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string", "example": "bad_request"},
                "source": {"type": "string"},
                "request_id": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.SearchRequest": {
            "type": "object",
            "properties": {
                "query": {"type": "string", "example": "dune"},
                "count": {"type": "integer", "example": 25},
                "sort_by": {"type": "string", "example": "def"},
                "search_in": {"type": "string", "example": "def"},
                "offset": {"type": "integer", "example": 0},
                "reverse": {"type": "boolean"},
                "topic": {"type": "string"},
                "year_from": {"type": "string", "example": "1965"},
                "year_to": {"type": "string"},
                "language": {"type": "string", "example": "English"},
                "extension": {"type": "string", "example": "epub"}
            }
        },
        "dto.SearchResponse": {
            "type": "object",
            "properties": {
                "books": {"type": "array", "items": {"$ref": "#/definitions/model.Book"}},
                "totalResults": {"type": "integer"},
                "currentPage": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        },
        "model.Book": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "author": {"type": "string"},
                "year": {"type": "string"},
                "pages": {"type": "string"},
                "language": {"type": "string"},
                "filesize": {"type": "string"},
                "filesize_bytes": {"type": "number"},
                "extension": {"type": "string"},
                "md5": {"type": "string"},
                "publisher": {"type": "string"},
                "series": {"type": "string"},
                "identifier": {"type": "string"},
                "isbn": {"type": "string"},
                "coverurl": {"type": "string"},
                "rawCoverUrl": {"type": "string"}
            }
        },
        "model.LogEntry": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "level": {"type": "string"},
                "message": {"type": "string"},
                "activity_type": {"type": "string"},
                "request_id": {"type": "string"},
                "method": {"type": "string"},
                "path": {"type": "string"},
                "status_code": {"type": "integer"}
            }
        },
        "service.ActivityPage": {
            "type": "object",
            "properties": {
                "entries": {"type": "array", "items": {"$ref": "#/definitions/model.LogEntry"}},
                "total": {"type": "integer"},
                "limit": {"type": "integer"},
                "skip": {"type": "integer"}
            }
        }
    },
    "tags": [
        {"description": "Cover lookup and image proxy", "name": "Covers"},
        {"description": "Catalog search and metadata", "name": "Search"},
        {"description": "Download link resolution", "name": "Downloads"},
        {"description": "Cache and activity diagnostics", "name": "Diagnostics"},
        {"description": "Health check endpoints", "name": "Health"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Daniel's Library API",
	Description:      "Book search front-end for the LibGen catalog: search, cover lookup, image proxy and download links.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
