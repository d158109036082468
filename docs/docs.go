// Package docs is generated by swaggo/swag from the controller annotations.
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
		"/api/health": {
			"get": {
				"tags": [
					"system"
				],
				"summary": "Health check",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"503": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Sign in",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.LoginRequest"
						}
					}
				]
			}
		},
		"/api/profile": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "Current user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/profile/password": {
			"put": {
				"tags": [
					"auth"
				],
				"summary": "Change own password",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.ChangePasswordRequest"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/admin/teachers": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "List teachers",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"admin"
				],
				"summary": "Create a teacher",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.CreateTeacherRequest"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/admin/teachers/lookup": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "Find a teacher by name or email",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/admin/teachers/{id}": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "Get a teacher",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"admin"
				],
				"summary": "Update a teacher",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.TeacherPatch"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"admin"
				],
				"summary": "Delete a teacher",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/students": {
			"get": {
				"tags": [
					"students"
				],
				"summary": "List students",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"students"
				],
				"summary": "Create a student",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.CreateStudentRequest"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/students/lookup": {
			"get": {
				"tags": [
					"students"
				],
				"summary": "Find a student by name or email",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/students/{id}": {
			"get": {
				"tags": [
					"students"
				],
				"summary": "Get a student",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"students"
				],
				"summary": "Update a student",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.StudentPatch"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"students"
				],
				"summary": "Delete a student",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/courses": {
			"get": {
				"tags": [
					"courses"
				],
				"summary": "List courses",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"courses"
				],
				"summary": "Create a course",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.CreateCourseRequest"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/courses/lookup": {
			"get": {
				"tags": [
					"courses"
				],
				"summary": "Find a course by title",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/courses/{id}": {
			"get": {
				"tags": [
					"courses"
				],
				"summary": "Get a course",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"courses"
				],
				"summary": "Update a course",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.CoursePatch"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"courses"
				],
				"summary": "Delete a course",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/courses/{id}/quiz": {
			"get": {
				"tags": [
					"quiz"
				],
				"summary": "Get the course quiz with answers",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"quiz"
				],
				"summary": "Save the course quiz",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.SaveQuizRequest"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/courses/{id}/quiz/generate": {
			"post": {
				"tags": [
					"quiz"
				],
				"summary": "Generate the course quiz",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"502": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.GenerateQuizRequest"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/courses/{id}/results": {
			"get": {
				"tags": [
					"grading"
				],
				"summary": "Course results",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/courses/{id}/results/students/{studentId}": {
			"get": {
				"tags": [
					"grading"
				],
				"summary": "Review a student's result",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "studentId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/courses/{id}/statuses": {
			"get": {
				"tags": [
					"grading"
				],
				"summary": "Student performance",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/results/{id}/grade": {
			"post": {
				"tags": [
					"grading"
				],
				"summary": "Mark a result graded",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/analytics/courses": {
			"get": {
				"tags": [
					"grading"
				],
				"summary": "Course averages",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/courses/{id}/students/{studentId}/certificate": {
			"post": {
				"tags": [
					"certificates"
				],
				"summary": "Issue a certificate",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "studentId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/ai/lesson-plan": {
			"post": {
				"tags": [
					"ai"
				],
				"summary": "Generate a lesson plan",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"502": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.LessonPlanRequest"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/ai/flashcards": {
			"post": {
				"tags": [
					"ai"
				],
				"summary": "Generate flashcards",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"502": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.FlashcardsRequest"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/teacher/ai/assignment": {
			"post": {
				"tags": [
					"ai"
				],
				"summary": "Generate an assignment",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"502": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.AssignmentRequest"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/student/courses": {
			"get": {
				"tags": [
					"student"
				],
				"summary": "My courses",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/student/courses/{id}/quiz": {
			"get": {
				"tags": [
					"student"
				],
				"summary": "Take the course quiz",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/student/courses/{id}/quiz/submit": {
			"post": {
				"tags": [
					"student"
				],
				"summary": "Submit quiz answers",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.SubmitQuizRequest"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/student/courses/{id}/result": {
			"get": {
				"tags": [
					"student"
				],
				"summary": "My latest result",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/student/ai/flashcards": {
			"post": {
				"tags": [
					"ai"
				],
				"summary": "Generate flashcards",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"502": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.FlashcardsRequest"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/student/ai/tutor": {
			"post": {
				"tags": [
					"ai"
				],
				"summary": "Tutoring chat (server-sent events)",
				"produces": [
					"text/event-stream"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.TutorRequest"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		}
	},
	"definitions": {
		"util.Response": {
			"type": "object",
			"properties": {
				"code": {
					"type": "integer"
				},
				"message": {
					"type": "string"
				},
				"data": {
					"type": "object"
				}
			}
		},
		"controller.LoginRequest": {
			"type": "object",
			"properties": {
				"role": {
					"type": "string",
					"enum": [
						"student",
						"teacher",
						"admin"
					]
				},
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			},
			"required": [
				"role",
				"email",
				"password"
			]
		},
		"controller.ChangePasswordRequest": {
			"type": "object",
			"properties": {
				"currentPassword": {
					"type": "string"
				},
				"newPassword": {
					"type": "string"
				}
			},
			"required": [
				"currentPassword",
				"newPassword"
			]
		},
		"controller.CreateTeacherRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"role": {
					"type": "string",
					"enum": [
						"teacher",
						"admin"
					]
				}
			},
			"required": [
				"name",
				"email",
				"password"
			]
		},
		"controller.CreateStudentRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"grade": {
					"type": "string"
				},
				"teacherId": {
					"type": "string"
				}
			},
			"required": [
				"name",
				"email",
				"password"
			]
		},
		"controller.CreateCourseRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"modules": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"teacherId": {
					"type": "string"
				}
			},
			"required": [
				"title"
			]
		},
		"model.TeacherPatch": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"role": {
					"type": "string"
				}
			}
		},
		"model.StudentPatch": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"grade": {
					"type": "string"
				},
				"teacherId": {
					"type": "string"
				}
			}
		},
		"model.CoursePatch": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"modules": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"teacherId": {
					"type": "string"
				}
			}
		},
		"model.QuizQuestion": {
			"type": "object",
			"properties": {
				"question": {
					"type": "string"
				},
				"options": {
					"type": "array",
					"items": {
						"type": "string"
					},
					"minItems": 4,
					"maxItems": 4
				},
				"correctAnswer": {
					"type": "string"
				}
			},
			"required": [
				"question",
				"options",
				"correctAnswer"
			]
		},
		"controller.SaveQuizRequest": {
			"type": "object",
			"properties": {
				"topic": {
					"type": "string"
				},
				"questions": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/model.QuizQuestion"
					}
				}
			},
			"required": [
				"questions"
			]
		},
		"controller.GenerateQuizRequest": {
			"type": "object",
			"properties": {
				"topic": {
					"type": "string"
				},
				"numQuestions": {
					"type": "integer",
					"minimum": 1,
					"maximum": 20
				}
			},
			"required": [
				"topic"
			]
		},
		"controller.SubmitQuizRequest": {
			"type": "object",
			"properties": {
				"studentId": {
					"type": "string"
				},
				"answers": {
					"type": "object",
					"additionalProperties": {
						"type": "string"
					}
				}
			},
			"required": [
				"answers"
			]
		},
		"controller.LessonPlanRequest": {
			"type": "object",
			"properties": {
				"topic": {
					"type": "string"
				},
				"grade": {
					"type": "string"
				},
				"duration": {
					"type": "string"
				}
			},
			"required": [
				"topic",
				"grade",
				"duration"
			]
		},
		"controller.FlashcardsRequest": {
			"type": "object",
			"properties": {
				"topic": {
					"type": "string"
				},
				"count": {
					"type": "integer",
					"minimum": 1,
					"maximum": 30
				}
			},
			"required": [
				"topic"
			]
		},
		"controller.AssignmentRequest": {
			"type": "object",
			"properties": {
				"topic": {
					"type": "string"
				},
				"grade": {
					"type": "string"
				}
			},
			"required": [
				"topic",
				"grade"
			]
		},
		"model.ChatMessage": {
			"type": "object",
			"properties": {
				"role": {
					"type": "string",
					"enum": [
						"user",
						"assistant"
					]
				},
				"content": {
					"type": "string"
				}
			},
			"required": [
				"role",
				"content"
			]
		},
		"controller.TutorRequest": {
			"type": "object",
			"properties": {
				"question": {
					"type": "string"
				},
				"history": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/model.ChatMessage"
					}
				}
			},
			"required": [
				"question"
			]
		}
	},
	"securityDefinitions": {
		"ApiKeyAuth": {
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
	Title:            "Sahayak API",
	Description:      "Backend of the Sahayak education portal: directory, quizzes, grading and AI teaching tools.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
