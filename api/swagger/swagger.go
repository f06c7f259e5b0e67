package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SmartClean API",
        "description": "Household services provider directory: search, profiles, sign-up and provider onboarding",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Providers", "description": "Provider search, ranking and profiles"},
        {"name": "Authentication", "description": "Registration and magic-link sign in"},
        {"name": "Onboarding", "description": "Provider onboarding wizard"},
        {"name": "Observability", "description": "Health, readiness and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["Observability"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Observability"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/status": {
            "get": {
                "tags": ["Observability"],
                "summary": "Runtime summary",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/providers": {
            "get": {
                "tags": ["Providers"],
                "summary": "Search providers",
                "description": "Filters the catalog and ranks matches by rating. Empty values and 'any' leave a filter unconstrained.",
                "parameters": [
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "location", "in": "query", "type": "string"},
                    {"name": "service", "in": "query", "type": "string"},
                    {"name": "price", "in": "query", "type": "string", "enum": ["any", "under-1500", "1500-1800", "1800+"]},
                    {"name": "rating", "in": "query", "type": "string", "enum": ["any", "4.5", "4.8"]},
                    {"name": "availability", "in": "query", "type": "string"},
                    {"name": "background_check", "in": "query", "type": "boolean"},
                    {"name": "supplies_included", "in": "query", "type": "boolean"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/providers/featured": {
            "get": {
                "tags": ["Providers"],
                "summary": "Three best-rated providers",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/providers/filters": {
            "get": {
                "tags": ["Providers"],
                "summary": "Search control options",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/providers/export": {
            "get": {
                "tags": ["Providers"],
                "summary": "Download the filtered provider list",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/providers/{slug}": {
            "get": {
                "tags": ["Providers"],
                "summary": "Provider profile",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Provider not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Create an account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegistrationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Form issues in error.details", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/auth/password-strength": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Score a password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"password": {"type": "string"}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Request a magic link",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "202": {"description": "Magic link queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Form issues", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/auth/magic-link/verify": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Redeem a magic link",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"token": {"type": "string"}}}}
                ],
                "responses": {
                    "200": {"description": "Access token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Link used, expired or invalid", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current account",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/onboarding/steps": {
            "get": {
                "tags": ["Onboarding"],
                "summary": "Wizard steps and blank form",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/onboarding/validate": {
            "post": {
                "tags": ["Onboarding"],
                "summary": "Validate one step",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"form": {"$ref": "#/definitions/OnboardingForm"}, "step": {"type": "integer"}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/onboarding/navigate": {
            "post": {
                "tags": ["Onboarding"],
                "summary": "Move between steps",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"form": {"$ref": "#/definitions/OnboardingForm"}, "current_step": {"type": "integer"}, "target_step": {"type": "integer"}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/onboarding": {
            "post": {
                "tags": ["Onboarding"],
                "summary": "Submit an application",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OnboardingForm"}}
                ],
                "responses": {
                    "201": {"description": "Submitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Form issues", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Application already pending", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegistrationRequest": {
            "type": "object",
            "properties": {
                "account_type": {"type": "string", "enum": ["client", "provider"]},
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "phone": {"type": "string"},
                "location": {"type": "string"},
                "household_notes": {"type": "string"},
                "services_needed": {"type": "array", "items": {"type": "string"}},
                "business_name": {"type": "string"},
                "experience_years": {"type": "string"},
                "services_offered": {"type": "array", "items": {"type": "string"}},
                "accepts_terms": {"type": "boolean"},
                "updates_opt_in": {"type": "boolean"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "remember_me": {"type": "boolean"}
            }
        },
        "OnboardingForm": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "business_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "primary_location": {"type": "string"},
                "service_areas": {"type": "array", "items": {"type": "string"}},
                "services_offered": {"type": "array", "items": {"type": "string"}},
                "experience_years": {"type": "string"},
                "certifications": {"type": "string"},
                "hourly_rate": {"type": "string"},
                "minimum_booking": {"type": "string"},
                "has_background_check": {"type": "boolean"},
                "provides_supplies": {"type": "boolean"},
                "availability": {"type": "array", "items": {"type": "string"}},
                "bio": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "array", "items": {"type": "string"}}
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
