// Package licensing contains the generated Swagger documentation for the
// licensing service API.
package licensing

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {
			"name": "AussieBroadWAN Team",
			"url": "https://github.com/aussiebroadwan/licensing"
		},
		"license": {
			"name": "MIT",
			"url": "https://opensource.org/licenses/MIT"
		},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/livez": {
			"get": {
				"description": "Liveness probe returning status, uptime and version. Always 200 while the process is up.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Health"
				],
				"summary": "Health Check Endpoint",
				"responses": {
					"200": {
						"description": "status, uptime, version",
						"schema": {
							"$ref": "#/definitions/licensesdk.HealthResponse"
						}
					}
				}
			}
		},
		"/readyz": {
			"get": {
				"description": "Readiness probe checking the license store and, when configured, the event bus.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Health"
				],
				"summary": "Readiness Check Endpoint",
				"responses": {
					"200": {
						"description": "status, uptime, version, checks",
						"schema": {
							"$ref": "#/definitions/licensesdk.HealthResponse"
						}
					},
					"503": {
						"description": "service not ready",
						"schema": {
							"$ref": "#/definitions/licensesdk.HealthResponse"
						}
					}
				}
			}
		},
		"/v1/operator/token": {
			"post": {
				"description": "Exchanges the operator API key for a short-lived bearer token with licenses:read and licenses:write scopes.",
				"consumes": [
					"application/x-www-form-urlencoded"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Operator"
				],
				"summary": "Operator Token Endpoint",
				"parameters": [
					{
						"type": "string",
						"description": "Operator API key",
						"name": "api_key",
						"in": "formData",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "access_token, token_type, expires_in, scope",
						"schema": {
							"$ref": "#/definitions/licensesdk.OperatorTokenResponse"
						}
					},
					"400": {
						"description": "error, error_description",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					},
					"401": {
						"description": "error, error_description",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					},
					"503": {
						"description": "error, error_description",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/licenses": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Returns every license code with its status, newest first.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Licenses"
				],
				"summary": "List License Codes",
				"responses": {
					"200": {
						"description": "licenses",
						"schema": {
							"$ref": "#/definitions/licensesdk.ListLicensesResponse"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					},
					"503": {
						"description": "StorageUnavailable",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Issues a new single-use license code valid for duration_days once redeemed.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Licenses"
				],
				"summary": "Generate License Code",
				"parameters": [
					{
						"description": "Duration in days (1-3650)",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/licensesdk.GenerateLicenseRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "success, key, license",
						"schema": {
							"$ref": "#/definitions/licensesdk.GenerateLicenseResponse"
						}
					},
					"400": {
						"description": "InvalidInput",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					},
					"403": {
						"description": "insufficient_scope",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					},
					"500": {
						"description": "KeyGenerationExhausted",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					},
					"503": {
						"description": "StorageUnavailable",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/licenses/stats": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Counts license codes per status.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Licenses"
				],
				"summary": "License Statistics",
				"responses": {
					"200": {
						"description": "active, used, expired, total",
						"schema": {
							"$ref": "#/definitions/licensesdk.StatsResponse"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					},
					"503": {
						"description": "StorageUnavailable",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/licenses/{key}": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Looks a license code up by key. Keys are matched case-insensitively.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Licenses"
				],
				"summary": "Get License Code",
				"parameters": [
					{
						"type": "string",
						"description": "License key",
						"name": "key",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "success, license",
						"schema": {
							"$ref": "#/definitions/licensesdk.LicenseResponse"
						}
					},
					"404": {
						"description": "LicenseNotFound",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/licenses/{key}/expire": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Withdraws an unredeemed license code. Used codes cannot be expired.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Licenses"
				],
				"summary": "Expire License Code",
				"parameters": [
					{
						"type": "string",
						"description": "License key",
						"name": "key",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "success, license",
						"schema": {
							"$ref": "#/definitions/licensesdk.LicenseResponse"
						}
					},
					"404": {
						"description": "LicenseNotFound",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					},
					"409": {
						"description": "LicenseAlreadyUsed",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					},
					"410": {
						"description": "LicenseExpired",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/tenants/activate": {
			"post": {
				"description": "Redeems a license code and provisions a tenant with its administrator account.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Tenants"
				],
				"summary": "Activate Tenant",
				"parameters": [
					{
						"description": "Registrant and license key",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/licensesdk.ActivateTenantRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "success, tenant",
						"schema": {
							"$ref": "#/definitions/licensesdk.ActivateTenantResponse"
						}
					},
					"400": {
						"description": "InvalidInput",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					},
					"404": {
						"description": "LicenseNotFound",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					},
					"409": {
						"description": "UsernameTaken, LicenseAlreadyUsed",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					},
					"410": {
						"description": "LicenseExpired",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					},
					"429": {
						"description": "rate_limit_exceeded",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					},
					"500": {
						"description": "ProvisioningFailed",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					},
					"503": {
						"description": "StorageUnavailable",
						"schema": {
							"$ref": "#/definitions/licensesdk.ErrorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"licensesdk.ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				},
				"fields": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"message": {
					"type": "string"
				},
				"success": {
					"type": "boolean"
				}
			}
		},
		"licensesdk.LicenseView": {
			"type": "object",
			"properties": {
				"created_at": {
					"type": "string"
				},
				"duration_days": {
					"type": "integer"
				},
				"expired_at": {
					"type": "string"
				},
				"id": {
					"type": "string"
				},
				"key": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"used_at": {
					"type": "string"
				},
				"used_by_tenant_id": {
					"type": "string"
				}
			}
		},
		"licensesdk.GenerateLicenseRequest": {
			"type": "object",
			"properties": {
				"duration_days": {
					"type": "integer"
				}
			}
		},
		"licensesdk.GenerateLicenseResponse": {
			"type": "object",
			"properties": {
				"key": {
					"type": "string"
				},
				"license": {
					"$ref": "#/definitions/licensesdk.LicenseView"
				},
				"success": {
					"type": "boolean"
				}
			}
		},
		"licensesdk.LicenseResponse": {
			"type": "object",
			"properties": {
				"license": {
					"$ref": "#/definitions/licensesdk.LicenseView"
				},
				"success": {
					"type": "boolean"
				}
			}
		},
		"licensesdk.ListLicensesResponse": {
			"type": "object",
			"properties": {
				"licenses": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/licensesdk.LicenseView"
					}
				}
			}
		},
		"licensesdk.StatsResponse": {
			"type": "object",
			"properties": {
				"active": {
					"type": "integer"
				},
				"expired": {
					"type": "integer"
				},
				"total": {
					"type": "integer"
				},
				"used": {
					"type": "integer"
				}
			}
		},
		"licensesdk.ActivateTenantRequest": {
			"type": "object",
			"properties": {
				"license_key": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"username": {
					"type": "string"
				}
			}
		},
		"licensesdk.TenantView": {
			"type": "object",
			"properties": {
				"created_at": {
					"type": "string"
				},
				"expires_at": {
					"type": "string"
				},
				"id": {
					"type": "string"
				},
				"license_id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"username": {
					"type": "string"
				}
			}
		},
		"licensesdk.ActivateTenantResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"tenant": {
					"$ref": "#/definitions/licensesdk.TenantView"
				}
			}
		},
		"licensesdk.OperatorTokenResponse": {
			"type": "object",
			"properties": {
				"access_token": {
					"type": "string"
				},
				"expires_in": {
					"type": "integer"
				},
				"scope": {
					"type": "string"
				},
				"token_type": {
					"type": "string"
				}
			}
		},
		"licensesdk.HealthChecks": {
			"type": "object",
			"properties": {
				"database": {
					"type": "string"
				},
				"events": {
					"type": "string"
				}
			}
		},
		"licensesdk.HealthResponse": {
			"type": "object",
			"properties": {
				"checks": {
					"$ref": "#/definitions/licensesdk.HealthChecks"
				},
				"status": {
					"type": "string"
				},
				"uptime": {
					"type": "string"
				},
				"version": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Operator access token. Format: \"Bearer {token}\".",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Licensing Service API",
	Description:      "Issues single-use license codes and redeems them to activate tenants.\n\nOperator endpoints require a bearer token from /v1/operator/token.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
