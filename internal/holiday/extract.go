package holiday

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ghic-org/caltech-holidays/internal/logger"
)

const (
	headingPrefix   = "Caltech Holiday Observances for "
	tableBlockClass = "block-TableBlock"

	// Placeholder rows use this description for the employee-chosen day off.
	personalHoliday = "Personal Holiday"
)

// Record is one extracted observance: a calendar date and its description.
type Record struct {
	Date        time.Time
	Description string
}

// Extract returns all observance records found in the document, in table
// order within each year section and in document order across sections.
// It returns an error only for page-layout violations; row-level problems
// are logged and skipped.
func Extract(doc *goquery.Document, log *logger.Logger) ([]Record, error) {
	records := make([]Record, 0)

	headings := doc.Find("h3")
	log.Debug("scanning year headings", logger.Fields{"count": headings.Length()})

	var layoutErr error
	headings.EachWithBreak(func(i int, h *goquery.Selection) bool {
		year, ok := headingYear(h, log)
		if !ok {
			return true
		}
		log.Debug("found year section", logger.Fields{"year": year})

		table, err := tableForHeading(h, year)
		if err != nil {
			layoutErr = err
			return false
		}

		records = append(records, tableRecords(year, table, log)...)
		return true
	})
	if layoutErr != nil {
		return nil, layoutErr
	}

	return records, nil
}

// headingYear parses the 4-digit year out of a section heading. Headings
// that don't carry the expected title, or whose trailing year isn't numeric,
// are skipped.
func headingYear(h *goquery.Selection, log *logger.Logger) (string, bool) {
	title := strings.TrimSpace(h.Text())
	if !strings.HasPrefix(title, headingPrefix) {
		log.Info("unrecognized table title", logger.Fields{"title": title})
		return "", false
	}

	year := title[len(title)-4:]
	for _, c := range year {
		if c < '0' || c > '9' {
			log.Warn("heading year is not numeric", logger.Fields{"title": title})
			return "", false
		}
	}
	return year, true
}

// tableForHeading walks the siblings following the heading's parent block
// until it reaches the observance table container. The container must hold
// exactly one table; anything else means the page layout changed.
func tableForHeading(h *goquery.Selection, year string) (*goquery.Selection, error) {
	container := h.Parent().NextAll().Filter("." + tableBlockClass).First()
	if container.Length() == 0 {
		return nil, fmt.Errorf("page layout changed: no table block follows the %s heading", year)
	}

	tables := container.Find("table")
	if n := tables.Length(); n != 1 {
		return nil, fmt.Errorf("page layout changed: table block for %s holds %d tables, want 1", year, n)
	}
	return tables.First(), nil
}

// tableRecords extracts the dated rows of one observance table.
func tableRecords(year string, table *goquery.Selection, log *logger.Logger) []Record {
	records := make([]Record, 0)

	table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Children()
		if cells.Length() != 4 {
			log.Debug("skipping malformed row", logger.Fields{
				"year":  year,
				"cells": cells.Length(),
				"row":   strings.TrimSpace(row.Text()),
			})
			logger.IncrCounter("extract.rows_skipped")
			return
		}

		day := strings.TrimSpace(cells.Eq(2).Text())
		description := strings.TrimSpace(cells.Eq(3).Text())

		if strings.HasPrefix(day, "-") {
			// The personal-holiday placeholder row has no date and is expected.
			if description != personalHoliday {
				log.Info("unrecognized calendar line", logger.Fields{
					"year": year,
					"row":  strings.TrimSpace(row.Text()),
				})
			}
			logger.IncrCounter("extract.rows_skipped")
			return
		}

		date, err := parseDay(year, day)
		if err != nil {
			log.Error("unparseable day specifier", logger.Fields{
				"year": year,
				"day":  day,
			}, err)
			logger.IncrCounter("extract.rows_skipped")
			return
		}

		log.Debug("extracted observance", logger.Fields{
			"date":        date.Format("2006-01-02"),
			"description": description,
		})
		logger.IncrCounter("extract.records")
		records = append(records, Record{Date: date, Description: description})
	})

	return records
}

// parseDay resolves a day specifier against the section year. Attempts are
// ordered and the first success wins: a row carrying its own full date
// overrides the section year.
func parseDay(year, day string) (time.Time, error) {
	attempts := []struct {
		layout string
		value  string
	}{
		{"January 2, 2006", day},
		{"2006 January 2", year + " " + day},
	}

	for _, a := range attempts {
		if t, err := time.Parse(a.layout, a.value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("day %q matches neither accepted date format", day)
}
