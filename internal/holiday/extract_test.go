package holiday

import (
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ghic-org/caltech-holidays/internal/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.LevelError, io.Discard)
}

func loadFixture(t *testing.T) *goquery.Document {
	t.Helper()

	data, err := os.ReadFile("../../testdata/fixtures/holidays.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

func TestExtractFixture(t *testing.T) {
	doc := loadFixture(t)

	records, err := Extract(doc, testLogger())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := []Record{
		{time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), "New Year's Day"},
		{time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), "Martin Luther King Day"},
		{time.Date(2024, time.May, 27, 0, 0, 0, 0, time.UTC), "Memorial Day"},
		{time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC), "Independence Day"},
		// Row with an explicit year overriding the 2024 section
		{time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), "New Year's Day"},
		{time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), "New Year's Day"},
		{time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC), "Martin Luther King Day"},
	}

	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d: %v", len(want), len(records), records)
	}
	for i, rec := range records {
		if !rec.Date.Equal(want[i].Date) {
			t.Errorf("record %d: date = %v, want %v", i, rec.Date, want[i].Date)
		}
		if rec.Description != want[i].Description {
			t.Errorf("record %d: description = %q, want %q", i, rec.Description, want[i].Description)
		}
	}
}

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

func sectionHTML(heading, tables string) string {
	return fmt.Sprintf(`<html><body><div class="section">
		<div class="heading"><h3>%s</h3></div>
		<div class="block-TableBlock">%s</div>
	</div></body></html>`, heading, tables)
}

const simpleTable = `<table><tbody>
	<tr><td>1</td><td>Monday</td><td>January 1</td><td>New Year's Day</td></tr>
</tbody></table>`

func TestExtractNoHeadings(t *testing.T) {
	doc := docFromHTML(t, `<html><body><p>nothing here</p></body></html>`)

	records, err := Extract(doc, testLogger())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected 0 records, got %d", len(records))
	}
}

func TestExtractMissingTableBlockIsFatal(t *testing.T) {
	doc := docFromHTML(t, `<html><body><div class="section">
		<div class="heading"><h3>Caltech Holiday Observances for 2024</h3></div>
		<div class="block-paragraph"><p>no table follows</p></div>
	</div></body></html>`)

	if _, err := Extract(doc, testLogger()); err == nil {
		t.Fatal("expected a layout error when no table block follows the heading")
	}
}

func TestExtractTwoTablesIsFatal(t *testing.T) {
	doc := docFromHTML(t, sectionHTML("Caltech Holiday Observances for 2024", simpleTable+simpleTable))

	if _, err := Extract(doc, testLogger()); err == nil {
		t.Fatal("expected a layout error when the table block holds two tables")
	}
}

func TestExtractZeroTablesIsFatal(t *testing.T) {
	doc := docFromHTML(t, sectionHTML("Caltech Holiday Observances for 2024", "<p>empty block</p>"))

	if _, err := Extract(doc, testLogger()); err == nil {
		t.Fatal("expected a layout error when the table block holds no table")
	}
}

func TestExtractManyRows(t *testing.T) {
	var rows strings.Builder
	for i := 0; i < 30; i++ {
		d := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		fmt.Fprintf(&rows, `<tr><td>%d</td><td>%s</td><td>%s</td><td>Holiday %d</td></tr>`,
			i+1, d.Weekday(), d.Format("January 2"), i+1)
	}
	table := "<table><tbody>" + rows.String() + "</tbody></table>"
	doc := docFromHTML(t, sectionHTML("Caltech Holiday Observances for 2024", table))

	records, err := Extract(doc, testLogger())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(records) != 30 {
		t.Errorf("expected 30 records, got %d", len(records))
	}
}

func TestHeadingYear(t *testing.T) {
	tests := []struct {
		title string
		year  string
		ok    bool
	}{
		{"Caltech Holiday Observances for 2024", "2024", true},
		{"  Caltech Holiday Observances for 2025  ", "2025", true},
		{"Caltech Holiday Observances for 20XX", "", false},
		{"Upcoming Events", "", false},
		{"Holiday Observances for 2024", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			doc := docFromHTML(t, "<html><body><h3>"+tt.title+"</h3></body></html>")
			year, ok := headingYear(doc.Find("h3").First(), testLogger())
			if ok != tt.ok {
				t.Fatalf("headingYear ok = %v, want %v", ok, tt.ok)
			}
			if year != tt.year {
				t.Errorf("headingYear = %q, want %q", year, tt.year)
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		year    string
		day     string
		want    time.Time
		wantErr bool
	}{
		{
			name: "section year applied",
			year: "2024", day: "January 1",
			want: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "explicit year overrides section",
			year: "2024", day: "January 1, 2025",
			want: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "leap day",
			year: "2024", day: "February 29",
			want: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "garbage day",
			year: "2024", day: "Jamuary 32",
			wantErr: true,
		},
		{
			name: "empty day",
			year: "2024", day: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDay(tt.year, tt.day)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseDay(%q, %q) expected error, got %v", tt.year, tt.day, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDay(%q, %q) failed: %v", tt.year, tt.day, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseDay(%q, %q) = %v, want %v", tt.year, tt.day, got, tt.want)
			}
		})
	}
}

func TestSkippedRows(t *testing.T) {
	table := `<table><tbody>
		<tr><td>1</td><td>Monday</td><td>January 1</td><td>New Year's Day</td></tr>
		<tr><td>13</td><td>-</td><td>-</td><td>Personal Holiday</td></tr>
		<tr><td>14</td><td>-</td><td>-</td><td>Office Closure</td></tr>
		<tr><td>Monday</td><td>December 25</td><td>Christmas Day</td></tr>
		<tr><td>2</td><td>Funday</td><td>Jamuary 32</td><td>Broken Day</td></tr>
	</tbody></table>`
	doc := docFromHTML(t, sectionHTML("Caltech Holiday Observances for 2024", table))

	records, err := Extract(doc, testLogger())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected only the well-formed row, got %d records", len(records))
	}
	if records[0].Description != "New Year's Day" {
		t.Errorf("unexpected record: %+v", records[0])
	}
}
