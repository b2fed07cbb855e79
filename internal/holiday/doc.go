// Package holiday extracts observance records from the parsed Caltech
// holiday-observances page.
//
// The page lists one table per year, each preceded by a level-3 heading of
// the form "Caltech Holiday Observances for <year>". Extraction walks the
// headings in document order, locates each heading's observance table, and
// yields one record per well-formed dated row. Malformed rows are skipped
// with a diagnostic; an observance block holding anything other than exactly
// one table means the page layout changed and extraction fails loudly.
package holiday
