// Package docs holds the swagger document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Jan Samadhan API",
    "description": "Citizen grievance intake with AI classification and department routing",
    "version": "1.0"
  },
  "basePath": "/",
  "securityDefinitions": {
    "BearerAuth": {
      "type": "apiKey",
      "name": "Authorization",
      "in": "header"
    }
  },
  "paths": {
    "/auth/register": {
      "post": {
        "tags": ["auth"],
        "summary": "Create a citizen account",
        "consumes": ["application/x-www-form-urlencoded"],
        "responses": {"201": {"description": "token issued"}, "400": {"description": "email taken or invalid form"}}
      }
    },
    "/auth/login": {
      "post": {
        "tags": ["auth"],
        "summary": "Exchange email and password for a token",
        "consumes": ["application/x-www-form-urlencoded"],
        "responses": {"200": {"description": "token issued"}, "401": {"description": "invalid credentials"}}
      }
    },
    "/auth/google": {
      "post": {
        "tags": ["auth"],
        "summary": "Exchange a Google ID token for a token",
        "consumes": ["application/x-www-form-urlencoded"],
        "responses": {"200": {"description": "token issued"}, "400": {"description": "invalid Google token"}}
      }
    },
    "/submit": {
      "post": {
        "tags": ["grievances"],
        "summary": "Submit a grievance with text and/or a photo",
        "consumes": ["multipart/form-data"],
        "security": [{"BearerAuth": []}],
        "responses": {"201": {"description": "grievance recorded"}, "413": {"description": "file too large"}, "429": {"description": "rate limited"}, "500": {"description": "storage failure"}}
      }
    },
    "/grievances": {
      "get": {
        "tags": ["grievances"],
        "summary": "List grievances, newest first",
        "security": [{"BearerAuth": []}],
        "responses": {"200": {"description": "grievance list"}}
      }
    },
    "/grievances/{id}/image": {
      "get": {
        "tags": ["grievances"],
        "summary": "Fetch the photo attached to a grievance",
        "security": [{"BearerAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
        "responses": {"200": {"description": "image bytes"}, "404": {"description": "not found"}}
      }
    },
    "/grievances/{id}/resolve": {
      "post": {
        "tags": ["grievances"],
        "summary": "Mark a grievance resolved (admin)",
        "security": [{"BearerAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
        "responses": {"200": {"description": "resolved grievance"}, "403": {"description": "admin only"}, "404": {"description": "not found"}}
      }
    },
    "/stats": {
      "get": {
        "tags": ["grievances"],
        "summary": "Grievance counts per category",
        "security": [{"BearerAuth": []}],
        "responses": {"200": {"description": "category counts"}}
      }
    }
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
