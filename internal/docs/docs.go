// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/syncflow/main.go -o internal/docs
package docs

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
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh session", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Logout", "responses": {"200": {"description": "OK"}}}},
        "/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "OK"}}}},
        "/auth/forgot-password": {"post": {"tags": ["auth"], "summary": "Request a password reset", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/auth/reset-password/{token}": {"patch": {"tags": ["auth"], "summary": "Reset password", "parameters": [{"type": "string", "name": "token", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/clients": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "List clients", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Create client", "responses": {"201": {"description": "Created"}}}
        },
        "/clients/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Update client", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Delete client", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/projects": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["projects"], "summary": "List projects", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["projects"], "summary": "Create project", "responses": {"201": {"description": "Created"}}}
        },
        "/projects/my-projects": {"get": {"security": [{"BearerAuth": []}], "tags": ["projects"], "summary": "List my projects", "responses": {"200": {"description": "OK"}}}},
        "/projects/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["projects"], "summary": "Update project", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["projects"], "summary": "Delete project", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/teams": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["teams"], "summary": "List teams", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["teams"], "summary": "Create team", "responses": {"201": {"description": "Created"}}}
        },
        "/teams/my-teams": {"get": {"security": [{"BearerAuth": []}], "tags": ["teams"], "summary": "List my teams", "responses": {"200": {"description": "OK"}}}},
        "/teams/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["teams"], "summary": "Update team", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["teams"], "summary": "Delete team", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/invoices": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["invoices"], "summary": "List invoices", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["invoices"], "summary": "Create invoice", "responses": {"201": {"description": "Created"}}}
        },
        "/invoices/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["invoices"], "summary": "Update invoice", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["invoices"], "summary": "Delete invoice", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/users": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "List users", "responses": {"200": {"description": "OK"}}}},
        "/users/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Update user", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Delete user", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/analytics": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Analytics dashboard", "parameters": [{"type": "string", "default": "monthly", "name": "period", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/events": {"get": {"security": [{"BearerAuth": []}], "produces": ["text/event-stream"], "tags": ["events"], "summary": "Real-time notifications", "parameters": [{"type": "string", "name": "token", "in": "query"}], "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "SyncFlow API",
	Description:      "Project, client and invoice management with role-based access and real-time notifications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
