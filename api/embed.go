package api

import _ "embed"

// Spec is the OpenAPI document for the HTTP surface under /api/v1.
//
//go:embed openapi.yml
var Spec []byte
