package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Sodachi Biyori API",
        "description": "Growth-video delivery platform for childcare facilities",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Authentication", "description": "Admin, guardian and class-code logins"},
        {"name": "Ads", "description": "Preroll and midroll ad delivery"},
        {"name": "Sponsors", "description": "Sponsor banners and interaction tracking"},
        {"name": "Videos", "description": "Published video browsing"},
        {"name": "Stamps", "description": "Login stamp card"},
        {"name": "Favorites", "description": "Guardian favorites"},
        {"name": "Tracking", "description": "Views, reactions and telemetry"},
        {"name": "Media", "description": "Image proxy"}
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
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/schools/{slug}/ads/preroll": {
            "get": {
                "tags": ["Ads"],
                "summary": "Select a preroll ad",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schools/{slug}/ads/midroll": {
            "get": {
                "tags": ["Ads"],
                "summary": "List eligible midroll ads",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schools/{slug}/sponsors": {
            "get": {
                "tags": ["Sponsors"],
                "summary": "List sponsor banners",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sponsors/{id}/track": {
            "post": {
                "tags": ["Sponsors"],
                "summary": "Record a sponsor interaction",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TrackEventRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/events": {
            "post": {
                "tags": ["Tracking"],
                "summary": "Record a telemetry event",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/me/stamp": {
            "post": {
                "tags": ["Stamps"],
                "summary": "Stamp today's login",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/favorites": {
            "post": {
                "tags": ["Favorites"],
                "summary": "Toggle a favorite",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ToggleFavoriteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/videos/{id}/view": {
            "post": {
                "tags": ["Tracking"],
                "summary": "Record a video view",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Accepted"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/videos/{id}/reactions": {
            "post": {
                "tags": ["Tracking"],
                "summary": "Record a reaction",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Accepted"},
                    "401": {"description": "Unauthorized"}
                }
            }
        }
    },
    "definitions": {
        "TrackEventRequest": {
            "type": "object",
            "required": ["type"],
            "properties": {
                "type": {"type": "string", "enum": ["impression", "click", "support"]},
                "school_id": {"type": "string"}
            }
        },
        "ToggleFavoriteRequest": {
            "type": "object",
            "required": ["video_id"],
            "properties": {
                "video_id": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
