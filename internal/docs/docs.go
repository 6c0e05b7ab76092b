// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o internal/docs
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
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Client login", "responses": {"200": {"description": "Token issued"}, "401": {"description": "Invalid access code"}}}},
        "/asset-types": {"get": {"tags": ["assets"], "summary": "List asset types", "responses": {"200": {"description": "Asset types"}}}},
        "/assets": {
            "get": {"tags": ["assets"], "summary": "List active assets", "responses": {"200": {"description": "Paginated assets"}}},
            "post": {"security": [{"AdminEmail": [], "AdminCode": []}], "tags": ["assets"], "summary": "Create asset", "responses": {"201": {"description": "Asset created"}}}
        },
        "/assets/{id}": {
            "get": {"tags": ["assets"], "summary": "Get asset", "responses": {"200": {"description": "Asset"}}},
            "put": {"security": [{"AdminEmail": [], "AdminCode": []}], "tags": ["assets"], "summary": "Update asset", "responses": {"200": {"description": "Asset updated"}}},
            "delete": {"security": [{"AdminEmail": [], "AdminCode": []}], "tags": ["assets"], "summary": "Delete asset", "responses": {"204": {"description": "Asset deleted"}}}
        },
        "/assets/{id}/activation": {"patch": {"security": [{"AdminEmail": [], "AdminCode": []}], "tags": ["assets"], "summary": "Activate or deactivate asset", "responses": {"200": {"description": "Asset updated"}}}},
        "/assets/{id}/quotation": {"patch": {"security": [{"AdminEmail": [], "AdminCode": []}], "tags": ["assets"], "summary": "Update quotation", "responses": {"200": {"description": "Quotation updated"}}}},
        "/clients": {
            "get": {"security": [{"AdminEmail": [], "AdminCode": []}], "tags": ["clients"], "summary": "List clients", "responses": {"200": {"description": "Paginated clients"}}},
            "post": {"tags": ["clients"], "summary": "Create client", "responses": {"201": {"description": "Client created"}}}
        },
        "/clients/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Get client", "responses": {"200": {"description": "Client"}}},
            "put": {"tags": ["clients"], "summary": "Update client", "responses": {"200": {"description": "Client updated"}}},
            "delete": {"security": [{"AdminEmail": [], "AdminCode": []}], "tags": ["clients"], "summary": "Delete client", "responses": {"204": {"description": "Client deleted"}}}
        },
        "/clients/{id}/purchases": {"post": {"tags": ["purchases"], "summary": "Request purchase", "responses": {"201": {"description": "Purchase requested"}}}},
        "/clients/{id}/purchases/{purchaseId}": {"delete": {"tags": ["purchases"], "summary": "Cancel purchase", "responses": {"204": {"description": "Purchase cancelled"}}}},
        "/clients/{id}/purchases/{purchaseId}/confirmation": {"post": {"tags": ["purchases"], "summary": "Confirm purchase", "responses": {"200": {"description": "Purchase in wallet"}}}},
        "/clients/{id}/withdraws": {"post": {"tags": ["withdraws"], "summary": "Request withdraw", "responses": {"201": {"description": "Withdraw requested"}}}},
        "/clients/{id}/subscriptions": {"post": {"tags": ["subscriptions"], "summary": "Subscribe", "responses": {"201": {"description": "Subscribed"}}}},
        "/clients/{id}/subscriptions/list": {"post": {"tags": ["subscriptions"], "summary": "List subscriptions", "responses": {"200": {"description": "Pending subscriptions"}}}},
        "/clients/{id}/subscriptions/{subscriptionId}": {"delete": {"tags": ["subscriptions"], "summary": "Unsubscribe", "responses": {"204": {"description": "Unsubscribed"}}}},
        "/wallet": {"get": {"security": [{"BearerAuth": []}], "tags": ["wallet"], "summary": "Get wallet", "responses": {"200": {"description": "Wallet"}}}},
        "/wallet/purchases": {"get": {"security": [{"BearerAuth": []}], "tags": ["wallet"], "summary": "List wallet purchases", "responses": {"200": {"description": "Paginated purchases"}}}},
        "/wallet/withdraws": {"get": {"security": [{"BearerAuth": []}], "tags": ["wallet"], "summary": "List wallet withdraws", "responses": {"200": {"description": "Paginated withdraws"}}}},
        "/wallet/history": {"get": {"security": [{"BearerAuth": []}], "tags": ["wallet"], "summary": "Transaction history", "responses": {"200": {"description": "Paginated history"}}}},
        "/wallet/history/export": {"get": {"security": [{"BearerAuth": []}], "tags": ["wallet"], "summary": "Export transaction history", "responses": {"200": {"description": "History file"}}}},
        "/admin/assets": {"get": {"security": [{"AdminEmail": [], "AdminCode": []}], "tags": ["admin"], "summary": "List all assets", "responses": {"200": {"description": "Paginated assets"}}}},
        "/admin/purchases": {"get": {"security": [{"AdminEmail": [], "AdminCode": []}], "tags": ["admin"], "summary": "List purchases", "responses": {"200": {"description": "Paginated purchases"}}}},
        "/admin/purchases/{id}/availability": {"post": {"security": [{"AdminEmail": [], "AdminCode": []}], "tags": ["admin"], "summary": "Confirm purchase availability", "responses": {"200": {"description": "Purchase available"}}}},
        "/admin/withdraws": {"get": {"security": [{"AdminEmail": [], "AdminCode": []}], "tags": ["admin"], "summary": "List withdraws", "responses": {"200": {"description": "Paginated withdraws"}}}},
        "/admin/withdraws/{id}/confirmation": {"post": {"security": [{"AdminEmail": [], "AdminCode": []}], "tags": ["admin"], "summary": "Confirm withdraw", "responses": {"200": {"description": "Withdraw in account"}}}},
        "/admin/audit-logs": {"get": {"security": [{"AdminEmail": [], "AdminCode": []}], "tags": ["admin"], "summary": "List audit entries", "responses": {"200": {"description": "Paginated audit entries"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"description": "Type \"Bearer\" followed by a space and JWT token.", "type": "apiKey", "name": "Authorization", "in": "header"},
        "AdminEmail": {"type": "apiKey", "name": "X-Admin-Email", "in": "header"},
        "AdminCode": {"type": "apiKey", "name": "X-Admin-Code", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "PSoft Wallet API",
	Description:      "Investment wallet platform: an admin-managed asset catalog, client wallets with escrowed purchases, taxed withdraws and one-shot asset notifications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
