package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers the Swagger/OpenAPI endpoints of the document service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>doclab Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// OpenAPI description of the catalog, detail and notification endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "doclab", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Error": { "type": "object", "properties": { "code": { "type": "string", "enum": ["validation", "not_found", "permission", "internal"] }, "field": { "type": "string" }, "error": { "type": "string" } } },
      "Document": { "type": "object", "properties": { "id": { "type": "integer" }, "title": { "type": "string" }, "type": { "type": "string" }, "author": { "type": "string" }, "lastModified": { "type": "string", "format": "date-time" }, "version": { "type": "string" }, "status": { "type": "string", "enum": ["draft", "review", "approved"] } } },
      "Comment": { "type": "object", "properties": { "id": { "type": "integer" }, "author": { "type": "string" }, "date": { "type": "string", "format": "date-time" }, "text": { "type": "string" }, "avatar": { "type": "string" } } }
    }
  },
  "paths": {
    "/api/documents": {
      "get": {
        "summary": "List documents",
        "parameters": [
          { "name": "search", "in": "query", "schema": { "type": "string" } },
          { "name": "type", "in": "query", "schema": { "type": "string", "default": "all" } },
          { "name": "sort", "in": "query", "schema": { "type": "string", "enum": ["date", "name", "author"] } },
          { "name": "scope", "in": "query", "schema": { "type": "string", "enum": ["all", "mine"] } },
          { "name": "page", "in": "query", "schema": { "type": "integer" } },
          { "name": "pageSize", "in": "query", "schema": { "type": "integer" } }
        ],
        "responses": { "200": { "description": "page of documents" }, "400": { "description": "bad query", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Error" } } } } }
      },
      "post": {
        "summary": "Upload a document",
        "requestBody": { "content": { "multipart/form-data": { "schema": { "type": "object", "required": ["title", "type", "file"], "properties": { "title": { "type": "string" }, "type": { "type": "string" }, "description": { "type": "string" }, "project": { "type": "string" }, "tags": { "type": "string" }, "file": { "type": "string", "format": "binary" } } } } } },
        "responses": { "201": { "description": "created", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Document" } } } }, "400": { "description": "validation failed" } }
      }
    },
    "/api/documents/{id}": {
      "get": { "summary": "Document detail", "responses": { "200": { "description": "detail with statusLabel and fileSizeLabel" }, "404": { "description": "unknown id" } } },
      "patch": { "summary": "Edit metadata", "responses": { "200": { "description": "updated" }, "400": { "description": "validation failed" }, "403": { "description": "editing not permitted" }, "404": { "description": "unknown id" } } },
      "delete": { "summary": "Delete document", "responses": { "204": { "description": "deleted" }, "403": { "description": "deletion not permitted" }, "404": { "description": "unknown id" } } }
    },
    "/api/documents/{id}/status": { "put": { "summary": "Change review status", "responses": { "200": { "description": "updated" }, "400": { "description": "unknown status" }, "403": { "description": "editing not permitted" } } } },
    "/api/documents/{id}/duplicate": { "post": { "summary": "Copy into a new draft", "responses": { "201": { "description": "created" }, "404": { "description": "unknown id" } } } },
    "/api/documents/{id}/versions": { "get": { "summary": "Version history", "responses": { "200": { "description": "versions, newest first" } } } },
    "/api/documents/{id}/comments": {
      "get": { "summary": "Comment thread", "responses": { "200": { "description": "comments, newest first" } } },
      "post": { "summary": "Add a comment", "requestBody": { "content": { "application/json": { "schema": { "type": "object", "properties": { "text": { "type": "string" } } } } } }, "responses": { "201": { "description": "comment", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Comment" } } } }, "400": { "description": "blank text" } } }
    },
    "/api/documents/{id}/share": { "post": { "summary": "Share link", "responses": { "200": { "description": "url" }, "403": { "description": "sharing not permitted" } } } },
    "/api/documents/{id}/download": { "get": { "summary": "Download payload", "responses": { "302": { "description": "redirect to a presigned URL" }, "404": { "description": "no stored payload" } } } },
    "/api/documents/{id}/preview": { "get": { "summary": "Preview placeholder", "responses": { "200": { "description": "html" } } } },
    "/api/document-types": { "get": { "summary": "Registered document types", "responses": { "200": { "description": "types with labels" } } } },
    "/api/notifications": { "get": { "summary": "Recent catalog events", "responses": { "200": { "description": "notifications, newest first" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
