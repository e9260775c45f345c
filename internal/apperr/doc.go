// Package apperr defines the error taxonomy shared by every edl component.
// It is a leaf package with no internal imports so that low-level
// infrastructure (fetch, resolver) and the HTTP boundary can all use the
// same sentinels without creating import cycles.
package apperr
