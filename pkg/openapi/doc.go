// Package openapi describes the document generation payload of a template
// as an OpenAPI 3 document and reads field sets back from request schemas.
package openapi
