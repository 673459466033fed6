package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "RetroMuscle Affiliate API",
        "description": "Creator affiliate program backend: applications, monthly quota trackings, video review and payout statements.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Catalog", "description": "Package tiers, mixes and video rates"},
        {"name": "Applications", "description": "Creator application intake and review"},
        {"name": "Trackings", "description": "Monthly quota trackings"},
        {"name": "Videos", "description": "Video asset intake and review"},
        {"name": "Dashboard", "description": "Creator monthly overview"},
        {"name": "Exports", "description": "Payout statement downloads"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange credentials for an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Return the authenticated user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Issue a fresh access token for the current session",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        },
        "/catalog/packages": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List package tiers",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/mixes": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List mix definitions with validity annotations",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/rates": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List per-type video rates",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/applications/me": {
            "get": {
                "tags": ["Applications"],
                "summary": "Fetch the caller's application",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No application yet"}
                }
            },
            "put": {
                "tags": ["Applications"],
                "summary": "Create or update the caller's draft application",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveApplicationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Application already submitted"}
                }
            }
        },
        "/applications/me/submit": {
            "post": {
                "tags": ["Applications"],
                "summary": "Submit the caller's draft for review",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Not in draft state"}
                }
            }
        },
        "/admin/applications": {
            "get": {
                "tags": ["Applications"],
                "summary": "List applications in the review queue",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/applications/{id}/review": {
            "post": {
                "tags": ["Applications"],
                "summary": "Approve or reject an application",
                "description": "Approval provisions the creator profile and the current month's tracking in the same request. Re-approving an already approved application reuses the existing tracking.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewApplicationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Application not found"},
                    "409": {"description": "Draft applications cannot be approved"},
                    "422": {"description": "Mix weights invalid"}
                }
            }
        },
        "/trackings/{id}": {
            "get": {
                "tags": ["Trackings"],
                "summary": "Get a monthly tracking",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/trackings/{id}/videos": {
            "get": {
                "tags": ["Videos"],
                "summary": "List video assets of a tracking",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/trackings/{id}/statement": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a payout statement",
                "security": [{"BearerAuth": []}],
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Statement file"},
                    "404": {"description": "Tracking not found"}
                }
            }
        },
        "/creators/{id}/trackings": {
            "get": {
                "tags": ["Trackings"],
                "summary": "List trackings for a creator",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/creators/{id}/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Creator dashboard for a month",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "month", "in": "query", "type": "string", "description": "Month as YYYY-MM, defaults to current"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No tracking for the month"}
                }
            }
        },
        "/videos": {
            "post": {
                "tags": ["Videos"],
                "summary": "Register an uploaded video against a tracking",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UploadVideoRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/videos/{id}/review": {
            "post": {
                "tags": ["Videos"],
                "summary": "Approve or reject a video asset",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewVideoRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Asset not found"}
                }
            }
        },
        "/admin/trackings/{id}/paid": {
            "post": {
                "tags": ["Trackings"],
                "summary": "Mark a tracking's payout as paid",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already paid"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SaveApplicationRequest": {
            "type": "object",
            "required": ["handle", "full_name", "email", "package_tier", "mix_name"],
            "properties": {
                "handle": {"type": "string"},
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "instagram_url": {"type": "string"},
                "tiktok_url": {"type": "string"},
                "bio": {"type": "string"},
                "package_tier": {"type": "integer"},
                "mix_name": {"type": "string"}
            }
        },
        "ReviewApplicationRequest": {
            "type": "object",
            "required": ["decision"],
            "properties": {
                "decision": {"type": "string", "enum": ["APPROVED", "REJECTED"]},
                "review_notes": {"type": "string"}
            }
        },
        "UploadVideoRequest": {
            "type": "object",
            "required": ["tracking_id", "video_type", "storage_key"],
            "properties": {
                "tracking_id": {"type": "string"},
                "video_type": {"type": "string", "enum": ["OOTD", "TRAINING", "BEFORE_AFTER", "SPORTS_80S", "CINEMATIC"]},
                "title": {"type": "string"},
                "storage_key": {"type": "string"}
            }
        },
        "ReviewVideoRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["APPROVED", "REJECTED"]},
                "review_notes": {"type": "string"}
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
