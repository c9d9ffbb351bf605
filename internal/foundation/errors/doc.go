// Package errors provides the classified error primitives used across pagebuilder.
//
// Every failure in a build run is fatal: the first error aborts the remaining
// work. Categories only serve diagnostics (which operation failed) and logging;
// the CLI exit code is 1 for any error.
//
//	err := errors.FileSystemError("create marker file").
//		WithCause(cause).
//		WithContext("path", markerPath).
//		Build()
package errors
