// Package docs registers the OpenAPI document served under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Sign in as the organizer", "responses": {"200": {"description": "token"}, "401": {"description": "invalid credentials"}}}},
        "/validate": {"post": {"tags": ["schedules"], "summary": "Check whether a participant count suits a format", "responses": {"200": {"description": "validation result"}}}},
        "/schedules/rotating-partners": {"post": {"tags": ["schedules"], "summary": "Schedule a rotating partners session", "responses": {"200": {"description": "matches"}}}},
        "/brackets": {"post": {"tags": ["brackets"], "summary": "Generate an elimination bracket set", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "bracket set"}, "422": {"description": "invalid participants"}}}},
        "/brackets/{setID}": {"get": {"tags": ["brackets"], "summary": "Get a bracket set", "responses": {"200": {"description": "bracket set"}, "404": {"description": "not found"}}}},
        "/brackets/{setID}/progress": {"get": {"tags": ["brackets"], "summary": "Bracket progress and ready matches", "responses": {"200": {"description": "progress"}}}},
        "/brackets/{setID}/next": {"get": {"tags": ["brackets"], "summary": "Next match to call", "responses": {"200": {"description": "match or null"}}}},
        "/brackets/{setID}/qr": {"get": {"tags": ["brackets"], "summary": "QR code linking to the bracket", "produces": ["image/png"], "responses": {"200": {"description": "png"}}}},
        "/brackets/{setID}/matches/{matchID}/start": {"post": {"tags": ["brackets"], "summary": "Mark a bracket match in progress", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "match"}}}},
        "/brackets/{setID}/matches/{matchID}/result": {"post": {"tags": ["brackets"], "summary": "Record a bracket match result", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "bracket set"}, "409": {"description": "match not ready"}}}},
        "/pools": {"post": {"tags": ["pools"], "summary": "Generate a pool play or round robin stage", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "pool stage"}}}},
        "/pools/{stageID}": {"get": {"tags": ["pools"], "summary": "Get a pool stage", "responses": {"200": {"description": "pool stage"}}}},
        "/pools/{stageID}/standings": {"get": {"tags": ["pools"], "summary": "Pool standings", "responses": {"200": {"description": "standings"}}}},
        "/pools/{stageID}/pools/{poolID}/matches/{matchID}/start": {"post": {"tags": ["pools"], "summary": "Mark a pool match in progress", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "match"}}}},
        "/pools/{stageID}/pools/{poolID}/matches/{matchID}/result": {"post": {"tags": ["pools"], "summary": "Record a pool match result", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "pool stage"}}}},
        "/pools/{stageID}/advance": {"post": {"tags": ["pools"], "summary": "Build the playoff bracket from pool standings", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "bracket set"}, "409": {"description": "playoff exists"}, "422": {"description": "pools incomplete"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Bracket Engine API",
	Description:      "Bracket and pool scheduling for racket sport events.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
