// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
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
                "summary": "Register a client account",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in and obtain a bearer token",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/password/forgot": {
            "post": {
                "tags": ["auth"],
                "summary": "Send a password reset e-mail",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/password/reset": {
            "post": {
                "tags": ["auth"],
                "summary": "Reset a password with a reset token",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Revoke the current token",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/me": {
            "get": {
                "tags": ["users"],
                "summary": "Current user's profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/{id}": {
            "put": {
                "tags": ["users"],
                "summary": "Update a profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/memberships": {
            "get": {
                "tags": ["memberships"],
                "summary": "List membership plans",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["memberships"],
                "summary": "Create a membership plan (admin)",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/memberships/{id}": {
            "get": {
                "tags": ["memberships"],
                "summary": "Get a membership plan",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["memberships"],
                "summary": "Replace a membership plan (admin)",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["memberships"],
                "summary": "Delete a membership plan (admin)",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/user-memberships": {
            "post": {
                "tags": ["user-memberships"],
                "summary": "Create or renew a subscription",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "get": {
                "tags": ["user-memberships"],
                "summary": "List subscriptions (admin)",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/user-memberships/{id}": {
            "get": {
                "tags": ["user-memberships"],
                "summary": "Get a subscription",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["user-memberships"],
                "summary": "Delete a subscription (admin)",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/user-memberships/{id}/activate": {
            "put": {
                "tags": ["user-memberships"],
                "summary": "Activate a subscription",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/user-memberships/{id}/suspend": {
            "put": {
                "tags": ["user-memberships"],
                "summary": "Suspend a subscription",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/user-memberships/{id}/cancel": {
            "put": {
                "tags": ["user-memberships"],
                "summary": "Cancel a subscription",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/user-memberships/{id}/status": {
            "patch": {
                "tags": ["user-memberships"],
                "summary": "Set a subscription status",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/user-memberships/user/{userId}": {
            "get": {
                "tags": ["user-memberships"],
                "summary": "List a user's subscriptions",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/user-memberships/user/{userId}/remaining-days": {
            "get": {
                "tags": ["user-memberships"],
                "summary": "Days left on the latest active subscription",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/user-memberships/user/{userId}/pending": {
            "get": {
                "tags": ["user-memberships"],
                "summary": "Whether the user has a pending subscription",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/payments": {
            "post": {
                "tags": ["payments"],
                "summary": "Record a payment",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "get": {
                "tags": ["payments"],
                "summary": "List payments (admin)",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/payments/{id}": {
            "get": {
                "tags": ["payments"],
                "summary": "Get a payment",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["payments"],
                "summary": "Delete a payment (admin)",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/payments/{id}/status": {
            "patch": {
                "tags": ["payments"],
                "summary": "Set a payment status (admin)",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/payments/{id}/receipt": {
            "post": {
                "tags": ["payments"],
                "summary": "Upload a receipt (multipart field file)",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "get": {
                "tags": ["payments"],
                "summary": "Presigned receipt URL",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/payments/user/{userId}": {
            "get": {
                "tags": ["payments"],
                "summary": "List a user's payments",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Gymetra API",
	Description:      "Gym membership back-office: plans, subscriptions and payments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
