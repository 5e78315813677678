package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Find teacher training search",
    "description": "Course search filters, provider disambiguation and results for the teacher training course directory",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/healthz": {
      "get": {"tags": ["health"], "summary": "Health check", "produces": ["application/json"],
        "responses": {"200": {"description": "OK"}, "503": {"description": "Course API unavailable"}}}
    },
    "/": {
      "get": {"tags": ["filters"], "summary": "Provider search page", "produces": ["application/json"],
        "responses": {"200": {"description": "Flashed field error, wizard flag and carried params"}}}
    },
    "/results/filter/location": {
      "get": {"tags": ["filters"], "summary": "Location filter page", "produces": ["application/json"],
        "responses": {"200": {"description": "Flashed field error, wizard flag and carried params"}}}
    },
    "/start": {
      "get": {"tags": ["filters"], "summary": "Start the filter wizard",
        "responses": {"302": {"description": "Redirect to the location filter"}}}
    },
    "/results": {
      "get": {"tags": ["results"], "summary": "Course results", "produces": ["application/json"],
        "parameters": [
          {"name": "qualifications", "in": "query", "type": "string"},
          {"name": "fulltime", "in": "query", "type": "string"},
          {"name": "parttime", "in": "query", "type": "string"},
          {"name": "hasvacancies", "in": "query", "type": "string"},
          {"name": "senCourses", "in": "query", "type": "string"},
          {"name": "l", "in": "query", "type": "string"},
          {"name": "lat", "in": "query", "type": "number"},
          {"name": "lng", "in": "query", "type": "number"},
          {"name": "rad", "in": "query", "type": "integer"},
          {"name": "subjects", "in": "query", "type": "string"}
        ],
        "responses": {"200": {"description": "OK"}, "502": {"description": "Course API unavailable"}}}
    },
    "/results/filter/provider": {
      "get": {"tags": ["filters"], "summary": "Provider filter", "produces": ["application/json"],
        "parameters": [{"name": "query", "in": "query", "type": "string", "required": true}],
        "responses": {"200": {"description": "Several candidates"}, "302": {"description": "Resolved or rejected"}, "502": {"description": "Course API unavailable"}}}
    },
    "/results/filter/location/submit": {
      "get": {"tags": ["filters"], "summary": "Location filter submit",
        "parameters": [
          {"name": "l", "in": "query", "type": "string", "required": true},
          {"name": "lq", "in": "query", "type": "string"},
          {"name": "query", "in": "query", "type": "string"}
        ],
        "responses": {"302": {"description": "Redirect"}, "502": {"description": "Geocoder unavailable"}}}
    },
    "/provider-suggestions": {
      "get": {"tags": ["filters"], "summary": "Provider autocomplete", "produces": ["application/json"],
        "parameters": [{"name": "query", "in": "query", "type": "string", "required": true}],
        "responses": {"200": {"description": "Array of {code, name}"}, "400": {"description": "Invalid query"}}}
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
