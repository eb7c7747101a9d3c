// Package docs holds the swagger description of the HTTP API served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/faculty": {
            "get": {"tags": ["faculty"], "summary": "Get all faculties", "produces": ["application/json"], "responses": {"200": {"description": "Faculties retrieved successfully"}}},
            "post": {"tags": ["faculty"], "summary": "Create a new faculty", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.CreateFacultyRequest"}}],
                "responses": {"201": {"description": "Faculty created successfully"}, "400": {"description": "Invalid request data"}}}
        },
        "/faculty/search": {
            "get": {"tags": ["faculty"], "summary": "Search faculties", "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "searchTerm", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Missing search term"}}}
        },
        "/faculty/longest-name": {
            "get": {"tags": ["faculty"], "summary": "Get longest faculty name", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/faculty/color/{color}": {
            "get": {"tags": ["faculty"], "summary": "Get faculties by color", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "color", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/faculty/{id}": {
            "get": {"tags": ["faculty"], "summary": "Get faculty details", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "integer", "format": "int64", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Faculty not found"}}},
            "put": {"tags": ["faculty"], "summary": "Update faculty", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "integer", "format": "int64", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateFacultyRequest"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Faculty not found"}}},
            "delete": {"tags": ["faculty"], "summary": "Delete faculty", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "integer", "format": "int64", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Faculty not found"}}}
        },
        "/faculty/{id}/students": {
            "get": {"tags": ["faculty"], "summary": "Get students of faculty", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "integer", "format": "int64", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/students": {
            "get": {"tags": ["students"], "summary": "Get all students", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["students"], "summary": "Create a new student", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.CreateStudentRequest"}}],
                "responses": {"201": {"description": "Student created successfully"}, "400": {"description": "Invalid request data"}}}
        },
        "/students/{id}": {
            "get": {"tags": ["students"], "summary": "Get student details", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "integer", "format": "int64", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Student not found"}}},
            "put": {"tags": ["students"], "summary": "Update student", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "integer", "format": "int64", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateStudentRequest"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Student not found"}}},
            "delete": {"tags": ["students"], "summary": "Delete student", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "integer", "format": "int64", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Student not found"}}}
        },
        "/students/age/{age}": {
            "get": {"tags": ["students"], "summary": "Get students by age", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "age", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/students/age/range": {
            "get": {"tags": ["students"], "summary": "Get students by age range", "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "min", "type": "integer", "required": true}, {"in": "query", "name": "max", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid range"}}}
        },
        "/students/{id}/faculty": {
            "get": {"tags": ["students"], "summary": "Get faculty of student", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "integer", "format": "int64", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Student missing or not assigned"}}}
        },
        "/students/{id}/faculty/{facultyId}": {
            "put": {"tags": ["students"], "summary": "Assign faculty to student", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "integer", "format": "int64", "required": true}, {"in": "path", "name": "facultyId", "type": "integer", "format": "int64", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Student or faculty not found"}}}
        },
        "/students/count": {"get": {"tags": ["students"], "summary": "Count students", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/students/average-age": {"get": {"tags": ["students"], "summary": "Average student age", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/students/last-five": {"get": {"tags": ["students"], "summary": "Last five students", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/students/names-starting-with-a": {"get": {"tags": ["students"], "summary": "Student names starting with A", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/students/print-parallel": {"get": {"tags": ["students"], "summary": "Print student names in parallel", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/students/print-synchronized": {"get": {"tags": ["students"], "summary": "Print student names synchronized", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/avatar": {
            "get": {"tags": ["avatar"], "summary": "List avatars", "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "page", "type": "integer", "default": 1}, {"in": "query", "name": "size", "type": "integer", "default": 10}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/avatar/upload": {
            "post": {"tags": ["avatar"], "summary": "Upload avatar", "consumes": ["multipart/form-data"], "produces": ["application/json"],
                "parameters": [{"in": "formData", "name": "studentId", "type": "integer", "required": true}, {"in": "formData", "name": "file", "type": "file", "required": true}],
                "responses": {"201": {"description": "Avatar uploaded successfully"}, "400": {"description": "Invalid upload"}, "404": {"description": "Student not found"}, "500": {"description": "Failed to store file"}}}
        },
        "/avatar/{id}": {
            "get": {"tags": ["avatar"], "summary": "Get avatar from database", "produces": ["application/octet-stream"],
                "parameters": [{"in": "path", "name": "id", "type": "integer", "format": "int64", "required": true}],
                "responses": {"200": {"description": "Avatar bytes"}, "404": {"description": "Avatar not found"}}}
        },
        "/avatar/{id}/preview": {
            "get": {"tags": ["avatar"], "summary": "Get avatar preview", "produces": ["image/jpeg", "image/webp"],
                "parameters": [{"in": "path", "name": "id", "type": "integer", "format": "int64", "required": true}, {"in": "query", "name": "width", "type": "integer", "default": 128}, {"in": "query", "name": "format", "type": "string", "default": "jpeg"}],
                "responses": {"200": {"description": "Preview bytes"}, "400": {"description": "Avatar is not a supported image"}, "404": {"description": "Avatar not found"}}}
        },
        "/avatar/file/{studentId}": {
            "get": {"tags": ["avatar"], "summary": "Get avatar from disk", "produces": ["application/octet-stream"],
                "parameters": [{"in": "path", "name": "studentId", "type": "integer", "format": "int64", "required": true}],
                "responses": {"200": {"description": "Avatar bytes"}, "404": {"description": "Avatar file not found"}}}
        },
        "/port": {"get": {"tags": ["info"], "summary": "Application port", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/sum-parallel": {"get": {"tags": ["info"], "summary": "Parallel sum", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}}
    },
    "definitions": {
        "dto.CreateFacultyRequest": {
            "type": "object",
            "required": ["color", "name"],
            "properties": {"name": {"type": "string", "maxLength": 255}, "color": {"type": "string", "maxLength": 64}}
        },
        "dto.UpdateFacultyRequest": {
            "type": "object",
            "required": ["color", "name"],
            "properties": {"name": {"type": "string", "maxLength": 255}, "color": {"type": "string", "maxLength": 64}}
        },
        "dto.CreateStudentRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string", "maxLength": 255}, "age": {"type": "integer", "minimum": 0, "maximum": 200}}
        },
        "dto.UpdateStudentRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string", "maxLength": 255}, "age": {"type": "integer", "minimum": 0, "maximum": 200}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "School API",
	Description:      "Student, faculty and avatar records",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
