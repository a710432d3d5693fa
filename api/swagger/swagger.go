package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Hallbook API",
        "description": "Venue booking administration: two-stage approval workflow, bulk import, auditable listings",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and profile"},
        {"name": "Halls", "description": "Hall registry"},
        {"name": "Bookings", "description": "Booking requests and approval workflow"},
        {"name": "Import", "description": "Bulk spreadsheet import"},
        {"name": "Users", "description": "Account management"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/about": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/halls": {
            "get": {
                "tags": ["Halls"],
                "summary": "List halls",
                "parameters": [
                    {"name": "institution", "in": "query", "type": "string"},
                    {"name": "q", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Halls"],
                "summary": "Register hall",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateHallRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate name"}
                }
            }
        },
        "/halls/{id}": {
            "get": {
                "tags": ["Halls"],
                "summary": "Get hall",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Halls"],
                "summary": "Update hall",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateHallRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the creator or master admin"}
                }
            },
            "delete": {
                "tags": ["Halls"],
                "summary": "Delete hall",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Not the creator or master admin"},
                    "422": {"description": "Hall has active bookings"}
                }
            }
        },
        "/bookings": {
            "get": {
                "tags": ["Bookings"],
                "summary": "List bookings",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "hallId", "in": "query", "type": "string"},
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "sortBy", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Bookings"],
                "summary": "Submit booking request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBookingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bookings/export": {
            "get": {
                "tags": ["Bookings"],
                "summary": "Export bookings as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/bookingsView/{id}": {
            "get": {
                "tags": ["Bookings"],
                "summary": "View booking",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/bookingsEdit/{id}": {
            "put": {
                "tags": ["Bookings"],
                "summary": "Apply approval transition",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Actor not allowed for this edge"},
                    "409": {"description": "Booking already finalized"},
                    "422": {"description": "Rejection requires a reason"}
                }
            }
        },
        "/events": {
            "get": {
                "tags": ["Bookings"],
                "summary": "Public event calendar",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/upload": {
            "post": {
                "tags": ["Import"],
                "summary": "Import bookings from spreadsheet",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"},
                    {"name": "institution", "in": "formData", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Malformed file"}
                }
            }
        },
        "/upload/template": {
            "get": {
                "tags": ["Import"],
                "summary": "Download import template",
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/getuser": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "parameters": [
                    {"name": "userType", "in": "query", "type": "string"},
                    {"name": "q", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/register": {
            "post": {
                "tags": ["Users"],
                "summary": "Register user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/deleteuser/{id}": {
            "delete": {
                "tags": ["Users"],
                "summary": "Delete user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found"}
                }
            }
        }
    },
    "definitions": {
        "Hall": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "location": {"type": "string"},
                "capacity": {"type": "integer"},
                "amenities": {"type": "array", "items": {"type": "string"}},
                "institution": {"type": "string"},
                "creatorEmail": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "Booking": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "eventName": {"type": "string"},
                "eventManager": {"type": "string"},
                "organizingClub": {"type": "string"},
                "bookedHallId": {"type": "string"},
                "bookedHallName": {"type": "string"},
                "eventDateType": {"type": "string", "enum": ["full", "half", "multiple"]},
                "eventDate": {"type": "string"},
                "eventStartDate": {"type": "string"},
                "eventEndDate": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "institution": {"type": "string"},
                "department": {"type": "string"},
                "isApproved": {"type": "string", "enum": ["REQUEST_SENT", "APPROVED_BY_HOD", "APPROVED_BY_ADMIN", "REJECTED_BY_HOD", "REJECTED_BY_ADMIN"]},
                "rejectionReason": {"type": "string"},
                "requestedBy": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RegisterUserRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "userType": {"type": "string", "enum": ["admin", "hod", "faculty", "staff", "student"]},
                "password": {"type": "string"}
            },
            "required": ["name", "email", "userType", "password"]
        },
        "CreateHallRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "location": {"type": "string"},
                "capacity": {"type": "integer"},
                "amenities": {"type": "array", "items": {"type": "string"}},
                "institution": {"type": "string"}
            },
            "required": ["name", "location", "capacity", "institution"]
        },
        "UpdateHallRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "location": {"type": "string"},
                "capacity": {"type": "integer"},
                "amenities": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["name", "location", "capacity"]
        },
        "CreateBookingRequest": {
            "type": "object",
            "properties": {
                "eventName": {"type": "string"},
                "eventManager": {"type": "string"},
                "organizingClub": {"type": "string"},
                "hallId": {"type": "string"},
                "eventDateType": {"type": "string", "enum": ["full", "half", "multiple"]},
                "eventDate": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "eventStartDate": {"type": "string"},
                "eventEndDate": {"type": "string"},
                "institution": {"type": "string"},
                "department": {"type": "string"}
            },
            "required": ["eventName", "eventManager", "hallId", "eventDateType", "institution", "department"]
        },
        "TransitionRequest": {
            "type": "object",
            "properties": {
                "isApproved": {"type": "string", "enum": ["APPROVED_BY_HOD", "APPROVED_BY_ADMIN", "REJECTED_BY_HOD", "REJECTED_BY_ADMIN"]},
                "rejectionReason": {"type": "string"}
            },
            "required": ["isApproved"]
        },
        "ImportResult": {
            "type": "object",
            "properties": {
                "accepted": {"type": "array", "items": {"$ref": "#/definitions/Booking"}},
                "rejectedRows": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "rowIndex": {"type": "integer"},
                            "reason": {"type": "string"}
                        }
                    }
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
