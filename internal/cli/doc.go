// Package cli implements the command-line interface for caltech-holidays.
//
// The cli package provides the Cobra-based CLI and drives the single linear
// run: fetch the observances page, stamp from its Last-Modified header, parse
// the document, load or create the target calendar, merge every extracted
// observance, and write the result. It coordinates the scraper, holiday,
// event, and calendar packages and maps each failure class to a distinct
// exit code.
package cli
