// Package template defines the template engine seam used by markup
// renderers. Implementations live in subpackages.
package template
