package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/boards": {
            "post": {
                "tags": ["boards"],
                "summary": "Create a board",
                "description": "The acting user becomes the board's first owner",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ports.CreateBoardRequest"}}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/entities.BoardView"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/boards/{id}": {
            "get": {
                "tags": ["boards"],
                "summary": "Get board by ID",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.BoardView"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["boards"],
                "summary": "Delete a board and everything on it",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/boards/{id}/archive": {
            "post": {
                "tags": ["boards"],
                "summary": "Archive a board",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Archived"},
                    "409": {"description": "Already archived", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/boards/{id}/restore": {
            "post": {
                "tags": ["boards"],
                "summary": "Restore an archived board",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Restored"},
                    "422": {"description": "Not archived", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/boards/{id}/copy": {
            "post": {
                "tags": ["boards"],
                "summary": "Copy a board or instantiate a template",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "request", "schema": {"$ref": "#/definitions/ports.CopyBoardRequest"}}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/entities.BoardView"}}}
            }
        },
        "/boards/{id}/template": {
            "post": {
                "tags": ["boards"],
                "summary": "Create a template from a board",
                "description": "Copies the non-archived lists of the board without their cards",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/entities.BoardView"}}}
            }
        },
        "/boards/{id}/lists": {
            "post": {
                "tags": ["lists"],
                "summary": "Create a list",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ports.CreateListRequest"}}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/entities.ListView"}},
                    "409": {"description": "Archived board or template", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/boards/{id}/owners/{userId}": {
            "delete": {
                "tags": ["boards"],
                "summary": "Remove a board owner",
                "description": "The last owner cannot be removed",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "path", "name": "userId", "type": "string", "required": true}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Removed"},
                    "422": {"description": "Last owner", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/lists/{id}/move": {
            "post": {
                "tags": ["lists"],
                "summary": "Move a list",
                "description": "Cards moved across boards lose their labels and assignees",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ports.MoveRequest"}}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Target board", "schema": {"$ref": "#/definitions/entities.BoardView"}},
                    "409": {"description": "Archived or template target", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "422": {"description": "Invalid operation", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/lists/{id}/copy": {
            "post": {
                "tags": ["lists"],
                "summary": "Copy a list",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ports.CopyRequest"}}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/entities.ListView"}},
                    "422": {"description": "Invalid operation", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/lists/{id}/cards": {
            "post": {
                "tags": ["cards"],
                "summary": "Create a card",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ports.CreateCardRequest"}}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/entities.CardView"}}}
            }
        },
        "/cards/{id}/move": {
            "post": {
                "tags": ["cards"],
                "summary": "Move a card",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ports.MoveRequest"}}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Target list", "schema": {"$ref": "#/definitions/entities.ListView"}},
                    "409": {"description": "Archived or template target", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/cards/{id}/copy": {
            "post": {
                "tags": ["cards"],
                "summary": "Copy a card",
                "description": "Labels and assignees are kept only on the same board",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ports.CopyRequest"}}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/entities.CardView"}},
                    "422": {"description": "Invalid operation", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/cards/{id}/assignees/{userId}": {
            "post": {
                "tags": ["cards"],
                "summary": "Assign a user to a card",
                "description": "Only owners and members of the card's board can be assigned",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "path", "name": "userId", "type": "string", "required": true}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Assigned"},
                    "422": {"description": "Not a board member", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/cards/{id}/comments": {
            "post": {
                "tags": ["cards"],
                "summary": "Comment on a card",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ports.AddCommentRequest"}}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/comments/{id}": {
            "delete": {
                "tags": ["comments"],
                "summary": "Delete a comment",
                "description": "The comment is flagged as deleted and keeps its position",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/tasks/{id}": {
            "patch": {
                "tags": ["tasks"],
                "summary": "Mark a task done or open",
                "consumes": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ports.SetTaskDoneRequest"}}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "Updated"}}
            }
        }
    },
    "definitions": {
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "enum": ["not_found", "archived", "template_violation", "invalid_operation", "validation_failed", "bad_request", "unauthorized", "internal"]},
                "details": {"type": "string"}
            }
        },
        "ports.CreateBoardRequest": {
            "type": "object",
            "required": ["title", "accessibility"],
            "properties": {
                "title": {"type": "string", "maxLength": 200},
                "accessibility": {"type": "string", "enum": ["public", "restricted"]}
            }
        },
        "ports.CreateListRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "title": {"type": "string"},
                "position": {"type": "integer"}
            }
        },
        "ports.CreateCardRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "position": {"type": "integer"}
            }
        },
        "ports.AddCommentRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {"text": {"type": "string"}}
        },
        "ports.MoveRequest": {
            "type": "object",
            "required": ["target_id"],
            "properties": {
                "target_id": {"type": "string", "format": "uuid"},
                "position": {"type": "integer", "description": "Clamped to the target's bounds"}
            }
        },
        "ports.CopyRequest": {
            "type": "object",
            "required": ["target_id"],
            "properties": {
                "target_id": {"type": "string", "format": "uuid"},
                "title": {"type": "string", "description": "Empty keeps the source title"},
                "position": {"type": "integer"}
            }
        },
        "ports.CopyBoardRequest": {
            "type": "object",
            "properties": {"title": {"type": "string"}}
        },
        "ports.SetTaskDoneRequest": {
            "type": "object",
            "properties": {"done": {"type": "boolean"}}
        },
        "entities.BoardView": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "title": {"type": "string"},
                "accessibility": {"type": "string"},
                "is_template": {"type": "boolean"},
                "archived_at": {"type": "string", "format": "date-time"},
                "owners": {"type": "array", "items": {"type": "string", "format": "uuid"}},
                "members": {"type": "array", "items": {"type": "string", "format": "uuid"}},
                "lists": {"type": "array", "items": {"$ref": "#/definitions/entities.ListView"}}
            }
        },
        "entities.ListView": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "title": {"type": "string"},
                "position": {"type": "integer"},
                "archived_at": {"type": "string", "format": "date-time"},
                "cards": {"type": "array", "items": {"$ref": "#/definitions/entities.CardView"}}
            }
        },
        "entities.CardView": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "position": {"type": "integer"},
                "archived_at": {"type": "string", "format": "date-time"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and JWT token"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Boards API",
	Description:      "Kanban boards: lists, cards, checklists, archive lifecycle, moves, copies and templates",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
