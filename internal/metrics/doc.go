// Package metrics provides build metrics for pagebuilder.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites. When a metrics
// textfile is configured the CLI swaps in a PrometheusRecorder and writes the
// registry to that file once the run finishes (pagebuilder is a one-shot
// process, so there is nothing to scrape over HTTP).
package metrics
