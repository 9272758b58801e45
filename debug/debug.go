//go:build !debug

// Package debug exposes the build-time debug flag. Building with the debug
// tag turns on expensive internal assertions and keeps logging enabled under
// go test.
package debug

const Debug = false
