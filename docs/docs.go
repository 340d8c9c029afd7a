// Package docs registers the OpenAPI description served under /swagger/.
// Regenerate with: swag init -g cmd/media-service/main.go
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
        "/api/{parentType}/{parentId}/gallery": {
            "get": {
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "List gallery images",
                "parameters": [
                    {"type": "string", "description": "Parent route, e.g. sanctuaries", "name": "parentType", "in": "path", "required": true},
                    {"type": "integer", "description": "Parent ID", "name": "parentId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/media.ListResponse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Upload gallery images",
                "parameters": [
                    {"type": "string", "description": "Parent route, e.g. sanctuaries", "name": "parentType", "in": "path", "required": true},
                    {"type": "integer", "description": "Parent ID", "name": "parentId", "in": "path", "required": true},
                    {"type": "file", "description": "Image files", "name": "galleryImages", "in": "formData", "required": true},
                    {"type": "string", "description": "Title", "name": "title", "in": "formData"},
                    {"type": "string", "description": "Alt text", "name": "altText", "in": "formData"},
                    {"type": "integer", "description": "Sort order", "name": "sortOrder", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/media.GalleryUploadResponse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Parent not found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/{parentType}/{parentId}/gallery/{assetId}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Delete a gallery image",
                "parameters": [
                    {"type": "string", "name": "parentType", "in": "path", "required": true},
                    {"type": "integer", "name": "parentId", "in": "path", "required": true},
                    {"type": "integer", "name": "assetId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Update image metadata",
                "parameters": [
                    {"type": "string", "name": "parentType", "in": "path", "required": true},
                    {"type": "integer", "name": "parentId", "in": "path", "required": true},
                    {"type": "integer", "name": "assetId", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "update", "in": "body", "required": true, "schema": {"$ref": "#/definitions/media.AssetUpdate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/sanctuaries/{parentId}/videos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "List sanctuary videos",
                "parameters": [
                    {"type": "integer", "name": "parentId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/media.ListResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Upload a sanctuary video",
                "parameters": [
                    {"type": "integer", "name": "parentId", "in": "path", "required": true},
                    {"type": "file", "description": "Video file", "name": "video", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/media.VideoUploadResponse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Parent not found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/sanctuaries/{parentId}/videos/{assetId}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Delete a sanctuary video",
                "parameters": [
                    {"type": "integer", "name": "parentId", "in": "path", "required": true},
                    {"type": "integer", "name": "assetId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/{parentType}/{parentId}/media/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Media summary",
                "parameters": [
                    {"type": "string", "name": "parentType", "in": "path", "required": true},
                    {"type": "integer", "name": "parentId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Parent not found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Authenticate a user",
                "parameters": [
                    {"description": "User login details", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.SignInRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.TokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "media.AssetUpdate": {
            "type": "object",
            "properties": {
                "altText": {"type": "string"},
                "isActive": {"type": "boolean"},
                "sortOrder": {"type": "integer"},
                "title": {"type": "string"}
            }
        },
        "media.MediaAsset": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "parentType": {"type": "string"},
                "parentId": {"type": "integer"},
                "kind": {"type": "string"},
                "filePath": {"type": "string"},
                "originalName": {"type": "string"},
                "contentType": {"type": "string"},
                "size": {"type": "integer"},
                "title": {"type": "string"},
                "altText": {"type": "string"},
                "sortOrder": {"type": "integer"},
                "isActive": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "media.UploadedFile": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "filename": {"type": "string"},
                "originalName": {"type": "string"},
                "size": {"type": "integer"},
                "url": {"type": "string"}
            }
        },
        "media.GalleryUploadResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"},
                "uploadedCount": {"type": "integer"},
                "files": {"type": "array", "items": {"$ref": "#/definitions/media.UploadedFile"}}
            }
        },
        "media.VideoUploadResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"},
                "id": {"type": "integer"},
                "filename": {"type": "string"},
                "originalName": {"type": "string"},
                "size": {"type": "integer"},
                "url": {"type": "string"}
            }
        },
        "media.ListResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "count": {"type": "integer"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/media.MediaAsset"}}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "users.SignInRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "users.TokenResponse": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "token": {"type": "string"},
                "expires_at": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tourism Media API",
	Description:      "Gallery images and videos for sanctuaries, districts, subdistricts, territories and seasonal guides.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
