// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "suporte@contractgov.com.br"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/signup": {
            "post": {
                "tags": ["Auth"],
                "summary": "Create an account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/domain.SignUpRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.SessionDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.APIError"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            }
        },
        "/auth/signin": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/domain.SignInRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.SessionDTO"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            }
        },
        "/auth/signout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Sign out",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/session": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Get current session",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.SessionDTO"}}}
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Get current authenticated user",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.MeResponse"}}}
            }
        },
        "/contracts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Contracts"],
                "summary": "List contracts",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Case-insensitive filter on agency or state", "name": "search", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.ContractDTO"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Contracts"],
                "summary": "Create contract",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/domain.UpsertContractRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.UpsertContractResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            }
        },
        "/contracts/draft": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Contracts"],
                "summary": "Get a new contract draft",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.ContractDTO"}}}
            }
        },
        "/contracts/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Contracts"],
                "summary": "Get contract by ID",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Contract ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.ContractDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Contracts"],
                "summary": "Replace contract",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Contract ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/domain.UpsertContractRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.UpsertContractResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Contracts"],
                "summary": "Delete contract",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Contract ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dashboard"],
                "summary": "Get dashboard metrics",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.DashboardMetrics"}}}
            }
        },
        "/dashboard/deadlines": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dashboard"],
                "summary": "Get deadline alerts",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Window in days", "name": "days", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.DeadlineAlert"}}}
                }
            }
        },
        "/reports/contracts.pdf": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Reports"],
                "summary": "Export contracts report as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"type": "boolean", "description": "Store a copy in report storage", "name": "archive", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "503": {"description": "Storage not configured", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            }
        },
        "/reports/contracts.xlsx": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Reports"],
                "summary": "Export contracts report as an Excel workbook",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"type": "boolean", "description": "Store a copy in report storage", "name": "archive", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "503": {"description": "Storage not configured", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            }
        }
    },
    "definitions": {
        "domain.APIError": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"},
                "errors": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "domain.SignUpRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "maxLength": 255},
                "password": {"type": "string", "minLength": 6, "maxLength": 72},
                "name": {"type": "string", "maxLength": 200}
            }
        },
        "domain.SignInRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "domain.UserDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "email": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "domain.ProfileDTO": {
            "type": "object",
            "properties": {
                "userId": {"type": "string", "format": "uuid"},
                "fullName": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user"]},
                "roleLabel": {"type": "string"}
            }
        },
        "domain.SessionDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "accessToken": {"type": "string"},
                "tokenType": {"type": "string"},
                "expiresAt": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.UserDTO"},
                "profile": {"$ref": "#/definitions/domain.ProfileDTO"}
            }
        },
        "domain.MeResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/domain.UserDTO"},
                "profile": {"$ref": "#/definitions/domain.ProfileDTO"}
            }
        },
        "domain.ContactDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "contratoId": {"type": "string", "format": "uuid"},
                "nome": {"type": "string"},
                "email": {"type": "string"},
                "telefone": {"type": "string"}
            }
        },
        "domain.ContactInput": {
            "type": "object",
            "properties": {
                "nome": {"type": "string"},
                "email": {"type": "string"},
                "telefone": {"type": "string"}
            }
        },
        "domain.ContractDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "clienteOrgao": {"type": "string"},
                "estado": {"type": "string"},
                "valorGlobal": {"type": "number"},
                "status": {"type": "string", "enum": ["Ativo", "Pendente", "Encerrado", "Cancelado"]},
                "qtdePlataformas": {"type": "integer"},
                "qtdeElevadores": {"type": "integer"},
                "instaladosPlataformas": {"type": "integer"},
                "instaladosElevadores": {"type": "integer"},
                "objetoContrato": {"type": "string"},
                "dataInicio": {"type": "string", "format": "date"},
                "dataEncerramento": {"type": "string", "format": "date"},
                "prazoExecucao": {"type": "string", "format": "date"},
                "dataConclusaoInstalacao": {"type": "string", "format": "date"},
                "garantiaDias": {"type": "integer"},
                "garantiaExpiraEm": {"type": "string", "format": "date"},
                "contatos": {"type": "array", "items": {"$ref": "#/definitions/domain.ContactDTO"}},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "domain.UpsertContractRequest": {
            "type": "object",
            "required": ["clienteOrgao", "estado", "status"],
            "properties": {
                "clienteOrgao": {"type": "string", "maxLength": 300},
                "estado": {"type": "string", "minLength": 2, "maxLength": 2},
                "valorGlobal": {"type": "number", "minimum": 0},
                "status": {"type": "string", "enum": ["Ativo", "Pendente", "Encerrado", "Cancelado"]},
                "qtdePlataformas": {"type": "integer", "minimum": 0},
                "qtdeElevadores": {"type": "integer", "minimum": 0},
                "instaladosPlataformas": {"type": "integer", "minimum": 0},
                "instaladosElevadores": {"type": "integer", "minimum": 0},
                "objetoContrato": {"type": "string"},
                "dataInicio": {"type": "string", "format": "date"},
                "dataEncerramento": {"type": "string", "format": "date"},
                "prazoExecucao": {"type": "string", "format": "date"},
                "dataConclusaoInstalacao": {"type": "string", "format": "date"},
                "garantiaDias": {"type": "integer", "minimum": 0},
                "contatos": {"type": "array", "items": {"$ref": "#/definitions/domain.ContactInput"}}
            }
        },
        "domain.UpsertContractResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "contrato": {"$ref": "#/definitions/domain.ContractDTO"}
            }
        },
        "domain.StateSummary": {
            "type": "object",
            "properties": {
                "estado": {"type": "string"},
                "count": {"type": "integer"},
                "sales": {"type": "number"},
                "elevadores": {"type": "integer"},
                "plataformas": {"type": "integer"},
                "instaladosElevadores": {"type": "integer"},
                "instaladosPlataformas": {"type": "integer"}
            }
        },
        "domain.StateChartPoint": {
            "type": "object",
            "properties": {
                "state": {"type": "string"},
                "count": {"type": "integer"},
                "instalados": {"type": "integer"},
                "contratados": {"type": "integer"}
            }
        },
        "domain.DashboardMetrics": {
            "type": "object",
            "properties": {
                "salesYear": {"type": "number"},
                "salesMonth": {"type": "number"},
                "globalSales": {"type": "number"},
                "activeCount": {"type": "integer"},
                "pendingCount": {"type": "integer"},
                "totalCount": {"type": "integer"},
                "totalElevadores": {"type": "integer"},
                "totalPlataformas": {"type": "integer"},
                "instaladosElevadores": {"type": "integer"},
                "instaladosPlataformas": {"type": "integer"},
                "totalInstalados": {"type": "integer"},
                "totalContratados": {"type": "integer"},
                "byState": {"type": "array", "items": {"$ref": "#/definitions/domain.StateSummary"}},
                "chart": {"type": "array", "items": {"$ref": "#/definitions/domain.StateChartPoint"}}
            }
        },
        "domain.DeadlineAlert": {
            "type": "object",
            "properties": {
                "contratoId": {"type": "string", "format": "uuid"},
                "clienteOrgao": {"type": "string"},
                "estado": {"type": "string"},
                "status": {"type": "string"},
                "prazoExecucao": {"type": "string", "format": "date"},
                "diasRestantes": {"type": "integer"},
                "overdue": {"type": "boolean"},
                "level": {"type": "string", "enum": ["overdue", "due_soon"]}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Session token as: Bearer <token>",
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "ContractGov API",
	Description:      "Contract management for government elevator and accessibility platform installations",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
