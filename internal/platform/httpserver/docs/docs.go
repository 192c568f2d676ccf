// Package docs registers the OpenAPI document served under /swagger/.
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
        "/v1/projects": {
            "post": {
                "tags": ["governance-accounting"],
                "summary": "Register a research project",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/http.RegisterProjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.ProjectResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/projects/{project_id}": {
            "get": {
                "tags": ["governance-accounting"],
                "summary": "Get project",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Project id", "name": "project_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ProjectResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/projects/{project_id}/proposals": {
            "get": {
                "tags": ["governance-accounting"],
                "summary": "List proposals with tallies",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Project id", "name": "project_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ProposalListResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["governance-accounting"],
                "summary": "Create proposal",
                "description": "Opens a 72 hour vote. The creator must hold at least 5 royalty tokens.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Creator wallet address", "name": "X-Wallet-Address", "in": "header", "required": true},
                    {"type": "string", "description": "Project id", "name": "project_id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/http.CreateProposalRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.ProposalResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/projects/{project_id}/price": {
            "get": {
                "tags": ["governance-accounting"],
                "summary": "Current token price",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Project id", "name": "project_id", "in": "path", "required": true},
                    {"type": "number", "description": "Tokens to quote", "name": "amount", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.PriceResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/projects/{project_id}/purchases": {
            "get": {
                "tags": ["governance-accounting"],
                "summary": "List purchases",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Project id", "name": "project_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.PurchaseListResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["governance-accounting"],
                "summary": "Record purchase",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Buyer wallet address", "name": "X-Wallet-Address", "in": "header", "required": true},
                    {"type": "string", "description": "Project id", "name": "project_id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/http.RecordPurchaseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.PurchaseResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/proposals/{proposal_id}": {
            "get": {
                "tags": ["governance-accounting"],
                "summary": "Get proposal",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Proposal id", "name": "proposal_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ProposalResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/proposals/{proposal_id}/tally": {
            "get": {
                "tags": ["governance-accounting"],
                "summary": "Tally proposal votes",
                "description": "Sums vote weights and evaluates the 20 token quorum.",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Proposal id", "name": "proposal_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.TallyResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/proposals/{proposal_id}/votes": {
            "post": {
                "tags": ["governance-accounting"],
                "summary": "Cast vote",
                "description": "Records one vote per wallet weighted by its current token balance.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Voter wallet address", "name": "X-Wallet-Address", "in": "header", "required": true},
                    {"type": "string", "description": "Proposal id", "name": "proposal_id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/http.CastVoteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.VoteResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "http.RegisterProjectRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "royalty_token": {"type": "string"},
                "initial_price": {"type": "number"},
                "creator_address": {"type": "string"}
            }
        },
        "http.ProjectResponse": {
            "type": "object",
            "properties": {
                "project_id": {"type": "string"},
                "title": {"type": "string"},
                "royalty_token": {"type": "string"},
                "initial_price": {"type": "number"},
                "creator_address": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "http.CreateProposalRequest": {
            "type": "object",
            "properties": {"title": {"type": "string"}, "description": {"type": "string"}}
        },
        "http.TallyResponse": {
            "type": "object",
            "properties": {
                "votes_for": {"type": "string"},
                "votes_against": {"type": "string"},
                "quorum": {"type": "string"},
                "quorum_met": {"type": "boolean"},
                "decimals": {"type": "integer"},
                "vote_count": {"type": "integer"},
                "participation": {"type": "string"},
                "votes_for_tokens": {"type": "string"},
                "votes_against_tokens": {"type": "string"},
                "quorum_tokens": {"type": "string"},
                "participation_tokens": {"type": "string"}
            }
        },
        "http.ProposalResponse": {
            "type": "object",
            "properties": {
                "proposal_id": {"type": "string"},
                "project_id": {"type": "string"},
                "creator_id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "status": {"type": "string"},
                "created_at": {"type": "string"},
                "ends_at": {"type": "string"},
                "tally": {"$ref": "#/definitions/http.TallyResponse"}
            }
        },
        "http.ProposalListResponse": {
            "type": "object",
            "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/http.ProposalResponse"}}}
        },
        "http.CastVoteRequest": {
            "type": "object",
            "properties": {"choice": {"type": "string", "enum": ["for", "against"]}}
        },
        "http.VoteResponse": {
            "type": "object",
            "properties": {
                "vote_id": {"type": "string"},
                "proposal_id": {"type": "string"},
                "user_id": {"type": "string"},
                "choice": {"type": "string"},
                "weight": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "http.PriceResponse": {
            "type": "object",
            "properties": {
                "project_id": {"type": "string"},
                "current_price": {"type": "number"},
                "base_price": {"type": "number"},
                "amount": {"type": "number"},
                "price_after_buy": {"type": "number"},
                "estimated_cost": {"type": "number"},
                "last_buy_at": {"type": "string"}
            }
        },
        "http.RecordPurchaseRequest": {
            "type": "object",
            "properties": {"amount": {"type": "number"}}
        },
        "http.PurchaseResponse": {
            "type": "object",
            "properties": {
                "purchase_id": {"type": "string"},
                "project_id": {"type": "string"},
                "user_id": {"type": "string"},
                "amount": {"type": "number"},
                "unit_price": {"type": "number"},
                "price_after": {"type": "number"},
                "cost": {"type": "number"},
                "created_at": {"type": "string"}
            }
        },
        "http.PurchaseListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/http.PurchaseResponse"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "DeSci Governance Accounting API",
	Description:      "Token-weighted proposal voting and royalty token pricing for research projects.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
