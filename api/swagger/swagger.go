package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Slutstation Web API",
        "description": "Event listings, membership registration and DJ applications for the Slutstation site.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Events", "description": "Ticketing listings with bundled fallback"},
        {"name": "Membership", "description": "Association membership registration"},
        {"name": "Applications", "description": "DJ booking applications"},
        {"name": "Admin", "description": "Maintenance routes, bearer token required"}
    ],
    "paths": {
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List active events",
                "description": "Upcoming and recent events, without events that started before today. Falls back to the bundled listing.",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EventListEnvelope"}}
                }
            }
        },
        "/events/upcoming": {
            "get": {
                "tags": ["Events"],
                "summary": "List upcoming events",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EventListEnvelope"}}
                }
            }
        },
        "/events/past": {
            "get": {
                "tags": ["Events"],
                "summary": "List past events",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EventListEnvelope"}}
                }
            }
        },
        "/events/overview": {
            "get": {
                "tags": ["Events"],
                "summary": "Upcoming and past events together",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/calendar.ics": {
            "get": {
                "tags": ["Events"],
                "summary": "Upcoming events as an iCalendar feed",
                "produces": ["text/calendar"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/events/{id}": {
            "get": {
                "tags": ["Events"],
                "summary": "Get event by id",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/memberships": {
            "post": {
                "tags": ["Membership"],
                "summary": "Register a new member",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MembershipRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Rejected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Registry unreachable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Not configured", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dj-applications": {
            "post": {
                "tags": ["Applications"],
                "summary": "Apply to play at an event",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DJApplicationRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Email failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Not configured", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/events/cache/clear": {
            "post": {
                "tags": ["Admin"],
                "summary": "Drop cached past events",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Cleared"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LineupEntry": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "link": {"type": "string"}
            }
        },
        "Venue": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "capacity": {"type": "string"},
                "facilities": {"type": "array", "items": {"type": "string"}},
                "accessibility": {"type": "string"}
            }
        },
        "Event": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "date": {"type": "string"},
                "time": {"type": "string"},
                "price": {"type": "string"},
                "location": {"type": "string"},
                "address": {"type": "string"},
                "city": {"type": "string"},
                "image": {"type": "string"},
                "description": {"type": "string"},
                "venue": {"$ref": "#/definitions/Venue"},
                "lineup": {"type": "array", "items": {"$ref": "#/definitions/LineupEntry"}},
                "ticketLink": {"type": "string"},
                "rawStartDate": {"type": "string"}
            }
        },
        "MembershipRequest": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "gender": {"type": "string", "enum": ["female", "male", "other", "prefer-not-to-say"]},
                "birthDay": {"type": "string"},
                "birthMonth": {"type": "string"},
                "birthYear": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "street": {"type": "string"},
                "zip": {"type": "string"},
                "city": {"type": "string"},
                "acceptTerms": {"type": "boolean"}
            },
            "required": ["firstName", "lastName", "gender", "birthDay", "birthMonth", "birthYear", "email", "phone", "street", "zip", "city", "acceptTerms"]
        },
        "DJApplicationRequest": {
            "type": "object",
            "properties": {
                "artistName": {"type": "string"},
                "email": {"type": "string"},
                "genre": {"type": "string"},
                "socialMedia": {"type": "string"},
                "setLink": {"type": "string"},
                "about": {"type": "string"}
            },
            "required": ["artistName", "email"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "EventListEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Event"}},
                "meta": {"type": "object"}
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
