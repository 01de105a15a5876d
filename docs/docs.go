// Package docs registers the OpenAPI description served at /swagger in dev.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
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
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/send-link": {
            "post": {
                "tags": ["signup"],
                "summary": "Request a verification link",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/signup.Request"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "500": {"description": "Store or email failure", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/api/verify": {
            "get": {
                "tags": ["signup"],
                "summary": "Verify a signup link",
                "parameters": [{"type": "string", "name": "token", "in": "query", "required": true}],
                "responses": {"302": {"description": "Redirect to the login page with success or error"}}
            }
        },
        "/api/check-email": {
            "get": {
                "tags": ["signup"],
                "summary": "Check email availability",
                "parameters": [{"type": "string", "name": "email", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/check-nickname": {
            "get": {
                "tags": ["signup"],
                "summary": "Check nickname availability",
                "parameters": [{"type": "string", "name": "nickname", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/login": {
            "post": {
                "tags": ["auth"],
                "summary": "User login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/auth.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/api/login-token": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange an email for an access token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/auth.IssueTokenRequest"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Untrusted caller", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "No account for email", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/api/products": {
            "get": {
                "tags": ["products"],
                "summary": "List products",
                "parameters": [{"type": "integer", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/my-products": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"],
                "summary": "List my products",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/register-product": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"],
                "summary": "Register a product",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/update-product": {
            "get": {
                "tags": ["products"],
                "summary": "Get a product",
                "parameters": [{"type": "string", "name": "id", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"],
                "summary": "Update a product",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not the owner"}}
            }
        },
        "/api/delete-product": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"],
                "summary": "Delete a product",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not the owner"}}
            }
        },
        "/api/update-product-status": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"],
                "summary": "Change product status",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid status"}}
            }
        },
        "/api/upload-base64-images": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["images"],
                "summary": "Upload base64 images",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/upload-product-images": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["images"],
                "summary": "Upload image files",
                "consumes": ["multipart/form-data"],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "httputil.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "signup.Request": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "password": {"type": "string"},
                "nickname": {"type": "string"}
            }
        },
        "auth.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "auth.IssueTokenRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Jeogi Market API",
	Description:      "Campus marketplace API: email-link signup, bearer tokens, product listings and image uploads.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
