// Package transform implements the coordinate transforms applied before
// quantization: hyperspherical (polar) coordinates, consecutive differences,
// and variance-ranked dimension selection.
package transform
