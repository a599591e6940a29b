// Package enginetest groups test helpers for code that drives UCI engines.
//
// The conformance suite and the mock engine live in the ucitest
// sub-package.
package enginetest
