// Package build runs one complete site build: walk the source tree and write
// every page, sort the collected pages newest first, then write the enabled
// aggregate pages (archive, feed, news).
//
// Every stage is timed and reported to a metrics.Recorder, and, when a
// history store is configured, recorded as build events. The first error in
// any stage aborts the build.
package build
