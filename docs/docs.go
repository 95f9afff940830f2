// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/chat": {
            "post": {
                "description": "Runs one assistant turn over the full conversation and streams it as server-sent events.\nEvent names: text-delta, tool-requested, tool-executing, tool-resolved, turn-complete, turn-failed.\nThe stream always ends with turn-complete or turn-failed.",
                "consumes": ["application/json"],
                "produces": ["text/event-stream"],
                "tags": ["chat"],
                "summary": "Assistant turn",
                "parameters": [
                    {"description": "conversation", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ChatRequestDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/agent.Event"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}
                }
            }
        },
        "/booking": {
            "post": {
                "description": "Direct booking form. Name and phone are validated the same way as the assistant's booking tool.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["leads"],
                "summary": "Book an appointment",
                "parameters": [
                    {"description": "booking", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.BookingRequestDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.BookingResponseDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.BookingResponseDTO"}}
                }
            }
        },
        "/callback": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["leads"],
                "summary": "Request a callback",
                "parameters": [
                    {"description": "contact", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CallbackRequestDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CallbackResponseDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.CallbackResponseDTO"}}
                }
            }
        },
        "/analyze-skin": {
            "post": {
                "description": "Requires the lead (name + phone) captured before the photo. The disclaimer is always returned.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Photo skin/hair analysis",
                "parameters": [
                    {"description": "photo and lead", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.AnalyzeSkinRequestDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AnalyzeSkinResponseDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.AnalyzeSkinResponseDTO"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.AnalyzeSkinResponseDTO"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.AnalyzeSkinResponseDTO"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.AnalyzeSkinResponseDTO"}}
                }
            }
        }
    },
    "definitions": {
        "agent.Part": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["text", "file", "tool-invocation"]},
                "text": {"type": "string"},
                "mediaType": {"type": "string"},
                "url": {"type": "string"},
                "toolCallId": {"type": "string"},
                "toolName": {"type": "string"},
                "state": {"type": "string", "enum": ["input-streaming", "input-available", "output-available"]},
                "input": {"type": "object"},
                "output": {"type": "object"}
            }
        },
        "agent.Message": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "role": {"type": "string", "enum": ["user", "assistant"]},
                "parts": {"type": "array", "items": {"$ref": "#/definitions/agent.Part"}}
            }
        },
        "agent.Event": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["text-delta", "tool-requested", "tool-executing", "tool-resolved", "turn-complete", "turn-failed"]},
                "delta": {"type": "string"},
                "toolCallId": {"type": "string"},
                "toolName": {"type": "string"},
                "input": {"type": "object"},
                "output": {"type": "object"},
                "success": {"type": "boolean"},
                "round": {"type": "integer"},
                "message": {"$ref": "#/definitions/agent.Message"},
                "errorCode": {"type": "string", "enum": ["timeout", "upstream_error", "cancelled"]},
                "error": {"type": "string"}
            }
        },
        "dto.ChatRequestDTO": {
            "type": "object",
            "required": ["messages"],
            "properties": {
                "sessionId": {"type": "string"},
                "messages": {"type": "array", "items": {"$ref": "#/definitions/agent.Message"}}
            }
        },
        "dto.BookingRequestDTO": {
            "type": "object",
            "properties": {
                "patientName": {"type": "string", "example": "Ravi Kumar"},
                "phone": {"type": "string", "example": "9876543210"},
                "treatment": {"type": "string", "example": "Hair Transplant"},
                "location": {"type": "string", "enum": ["Banjara Hills", "Jubilee Hills", "Gachibowli"]},
                "preferredDate": {"type": "string"},
                "preferredTime": {"type": "string"},
                "notes": {"type": "string"},
                "sessionId": {"type": "string"}
            }
        },
        "booking.Details": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "treatment": {"type": "string"},
                "location": {"type": "string"},
                "date": {"type": "string", "example": "To be confirmed"},
                "time": {"type": "string", "example": "To be confirmed"},
                "notes": {"type": "string"}
            }
        },
        "dto.BookingResponseDTO": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "bookingDetails": {"$ref": "#/definitions/booking.Details"},
                "error": {"type": "string"}
            }
        },
        "dto.CallbackRequestDTO": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "sessionId": {"type": "string"}
            }
        },
        "dto.CallbackResponseDTO": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "analysis.Concern": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "severity": {"type": "string", "enum": ["mild", "moderate", "severe"]},
                "area": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "analysis.HairAnalysis": {
            "type": "object",
            "properties": {
                "hairType": {"type": "string"},
                "scalpCondition": {"type": "string"},
                "hairDensity": {"type": "string"},
                "hairLossStage": {"type": "string"}
            }
        },
        "analysis.Report": {
            "type": "object",
            "properties": {
                "overallScore": {"type": "integer"},
                "summary": {"type": "string"},
                "strengths": {"type": "array", "items": {"type": "string"}},
                "concerns": {"type": "array", "items": {"$ref": "#/definitions/analysis.Concern"}},
                "skinType": {"type": "string"},
                "hairAnalysis": {"$ref": "#/definitions/analysis.HairAnalysis"},
                "personalizedMessage": {"type": "string"},
                "recommendedTreatments": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.AnalyzeSkinRequestDTO": {
            "type": "object",
            "required": ["image"],
            "properties": {
                "image": {"type": "string"},
                "mediaType": {"type": "string"},
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "sessionId": {"type": "string"},
                "leadId": {"type": "string"}
            }
        },
        "dto.AnalyzeSkinResponseDTO": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "analysis": {"$ref": "#/definitions/analysis.Report"},
                "disclaimer": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "dto.ErrorResponseDTO": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid_request"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Vernon Clinic Assistant API",
	Description:      "Conversational booking/triage assistant, booking and callback forms, and photo analysis.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
