package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers Swagger/OpenAPI endpoints for the movie API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRoutes) {
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
    <title>movie-api Swagger</title>
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

// OpenAPI document for the movie routes and probes.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "movie-api", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Movie": {"type":"object","properties":{"id":{"type":"string"},"title":{"type":"string"},"rating":{"type":"integer","minimum":1,"maximum":5},"createdAt":{"type":"string","format":"date-time"},"updatedAt":{"type":"string","format":"date-time"}}},
      "MovieInput": {"type":"object","required":["title","rating"],"properties":{"title":{"type":"string","minLength":1,"maxLength":200},"rating":{"type":"integer","minimum":1,"maximum":5}}},
      "ValidationError": {"type":"object","properties":{"message":{"type":"string"},"errors":{"type":"array","items":{"type":"object","properties":{"field":{"type":"string"},"location":{"type":"string"},"message":{"type":"string"},"value":{}}}}}},
      "Message": {"type":"object","properties":{"message":{"type":"string"}}}
    }
  },
  "paths": {
    "/movies": {
      "get": {
        "summary": "List movies",
        "parameters": [{"name":"minRating","in":"query","required":false,"schema":{"type":"integer","minimum":1,"maximum":5}}],
        "responses": { "200": { "description": "movies", "content": {"application/json": {"schema": {"type":"array","items":{"$ref":"#/components/schemas/Movie"}}}} }, "400": { "description": "invalid minRating" }, "500": { "description": "store error" } }
      },
      "post": {
        "summary": "Create a movie",
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/MovieInput"}}}},
        "responses": { "201": { "description": "created" }, "400": { "description": "validation failed" }, "500": { "description": "store error" } }
      }
    },
    "/movies/{id}": {
      "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}],
      "get": { "summary": "Get a movie", "responses": { "200": { "description": "movie" }, "404": { "description": "Movie not found" }, "500": { "description": "store error" } } },
      "put": { "summary": "Replace a movie", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/MovieInput"}}}}, "responses": { "200": { "description": "replaced" }, "400": { "description": "validation failed" }, "404": { "description": "Movie not found" }, "500": { "description": "store error" } } },
      "delete": { "summary": "Delete a movie", "responses": { "204": { "description": "deleted" }, "400": { "description": "validation failed" }, "500": { "description": "store error" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
