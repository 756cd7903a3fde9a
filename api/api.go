// Package api holds the OpenAPI description served by the HTTP router.
package api

import _ "embed"

// SwaggerJSON is the OpenAPI 2.0 document for the users API.
//
//go:embed swagger/users.swagger.json
var SwaggerJSON []byte
