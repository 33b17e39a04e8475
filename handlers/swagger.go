package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the profile service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(r gin.IRouter) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>profile-service API</title>
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

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "profile-service", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "FieldErrors": { "type": "object", "additionalProperties": { "type": "string" } },
      "Experience": { "type": "object", "required": ["title","company","from"], "properties": {
        "title": {"type":"string"}, "company": {"type":"string"}, "location": {"type":"string"},
        "from": {"type":"string","format":"date"}, "to": {"type":"string","format":"date"},
        "current": {"type":"boolean"}, "description": {"type":"string"} } },
      "Education": { "type": "object", "required": ["school","degree","major","from"], "properties": {
        "school": {"type":"string"}, "degree": {"type":"string"}, "major": {"type":"string"},
        "from": {"type":"string","format":"date"}, "to": {"type":"string","format":"date"},
        "current": {"type":"boolean"}, "description": {"type":"string"} } },
      "Profile": { "type": "object", "properties": {
        "_id": {"type":"string"},
        "user": { "oneOf": [ {"type":"string"}, {"type":"object","properties":{"_id":{"type":"string"},"name":{"type":"string"},"avatar":{"type":"string"}}} ] },
        "handle": {"type":"string"}, "company": {"type":"string"}, "website": {"type":"string"},
        "location": {"type":"string"}, "bio": {"type":"string"}, "status": {"type":"string"},
        "githubusername": {"type":"string"},
        "skills": {"type":"array","items":{"type":"string"}},
        "experience": {"type":"array","items":{"$ref":"#/components/schemas/Experience"}},
        "education": {"type":"array","items":{"$ref":"#/components/schemas/Education"}},
        "date": {"type":"string","format":"date-time"} } },
      "ProfileInput": { "type": "object", "required": ["status"], "properties": {
        "handle": {"type":"string","minLength":2,"maxLength":40}, "company": {"type":"string"},
        "website": {"type":"string","format":"uri"}, "location": {"type":"string"},
        "bio": {"type":"string","maxLength":500}, "status": {"type":"string"},
        "githubusername": {"type":"string"},
        "skills": {"type":"string","description":"comma separated"} } }
    }
  },
  "paths": {
    "/profiles": {
      "get": { "summary": "List all profiles", "responses": { "200": { "description": "{msg, count, profileInfo}" } } },
      "post": { "summary": "Create or update the caller's profile", "security": [{"bearer":[]}],
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/ProfileInput"} } } },
        "responses": { "200": { "description": "profile", "content": {"application/json":{"schema":{"$ref":"#/components/schemas/Profile"}}} },
          "400": { "description": "field errors or handle already taken", "content": {"application/json":{"schema":{"$ref":"#/components/schemas/FieldErrors"}}} },
          "401": { "description": "missing or invalid token" } } }
    },
    "/profiles/{profileId}": {
      "get": { "summary": "Get a profile by id", "security": [{"bearer":[]}],
        "parameters": [{"name":"profileId","in":"path","required":true,"schema":{"type":"string"}}],
        "responses": { "200": { "description": "{msg, profileInfo} (profileInfo is null when unknown)" }, "401": { "description": "missing or invalid token" } } },
      "delete": { "summary": "Delete a profile by id", "security": [{"bearer":[]}],
        "parameters": [{"name":"profileId","in":"path","required":true,"schema":{"type":"string"}}],
        "responses": { "200": { "description": "{msg}, also when nothing matched" }, "401": { "description": "missing or invalid token" } } }
    },
    "/profiles/handle/{handle}": {
      "get": { "summary": "Get a profile by handle",
        "parameters": [{"name":"handle","in":"path","required":true,"schema":{"type":"string"}}],
        "responses": { "200": { "description": "{msg, handleInfo}" }, "400": { "description": "{nopeProfile}" } } }
    },
    "/profiles/experience": {
      "post": { "summary": "Prepend an experience entry to the caller's profile", "security": [{"bearer":[]}],
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Experience"} } } },
        "responses": { "200": { "description": "updated profile" }, "400": { "description": "field errors or {noprofile}" }, "401": { "description": "missing or invalid token" } } }
    },
    "/profiles/education": {
      "post": { "summary": "Prepend an education entry to the caller's profile", "security": [{"bearer":[]}],
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Education"} } } },
        "responses": { "200": { "description": "updated profile" }, "400": { "description": "field errors or {noprofile}" }, "401": { "description": "missing or invalid token" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Blacklist the presented access token", "security": [{"bearer":[]}], "responses": { "200": { "description": "logged out" } } }
    },
    "/users/me": {
      "get": { "summary": "Get (and sync) the caller's user record", "security": [{"bearer":[]}], "responses": { "200": { "description": "user" } } }
    },
    "/users/me/avatar": {
      "put": { "summary": "Upload the caller's avatar", "security": [{"bearer":[]}],
        "requestBody": { "content": { "multipart/form-data": { "schema": {"type":"object","properties":{"avatar":{"type":"string","format":"binary"}}} } } },
        "responses": { "200": { "description": "{avatar}" }, "400": { "description": "missing, too large or not an image" } } }
    },
    "/users/{sub}/avatar": {
      "get": { "summary": "Redirect to the user's avatar",
        "parameters": [{"name":"sub","in":"path","required":true,"schema":{"type":"string"}}],
        "responses": { "302": { "description": "presigned URL" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
