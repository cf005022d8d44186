// Package renderer turns module config templates and parameters into
// concrete configuration bytes for the enable hook.
package renderer
