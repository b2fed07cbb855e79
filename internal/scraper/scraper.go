// Package scraper fetches the holiday-observances page and turns it into a
// navigable document for extraction. The page's Last-Modified header becomes
// the DTSTAMP for every event built during the run.
package scraper

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ghic-org/caltech-holidays/internal/logger"
)

const (
	HolidayPageURL = "https://hr.caltech.edu/resources/holiday-observances"
	UserAgent      = "caltech-holidays/1.0 (github.com/ghic-org/caltech-holidays)"
	Timeout        = 30 * time.Second
)

// Scraper handles fetching the Caltech holiday observances page
type Scraper struct {
	client    *http.Client
	url       string
	userAgent string
	log       *logger.Logger
}

// New creates a new Scraper instance
func New(url, userAgent string, timeout time.Duration, log *logger.Logger) *Scraper {
	if url == "" {
		url = HolidayPageURL
	}
	if userAgent == "" {
		userAgent = UserAgent
	}
	if timeout <= 0 {
		timeout = Timeout
	}
	return &Scraper{
		client: &http.Client{
			Timeout: timeout,
		},
		url:       url,
		userAgent: userAgent,
		log:       log,
	}
}

// URL returns the page URL this scraper targets.
func (s *Scraper) URL() string {
	return s.url
}

// Get fetches the holiday page and returns its body along with the raw
// Last-Modified header (empty if the server sent none).
func (s *Scraper) Get() ([]byte, string, error) {
	req, err := http.NewRequest("GET", s.url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	s.log.Debug("fetching holiday page", logger.Fields{"url": s.url})

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, "", fmt.Errorf("reading page body: %w", err)
	}

	lastModified := resp.Header.Get("Last-Modified")
	s.log.Debug("fetched holiday page", logger.Fields{
		"bytes":         buf.Len(),
		"last_modified": lastModified,
	})
	return buf.Bytes(), lastModified, nil
}

// ParseLastModified converts a Last-Modified header into the stamp applied
// to built events. An absent header falls back to the current time; a header
// that is present but unparseable is an error, since events could not be
// stamped faithfully.
func ParseLastModified(header string) (time.Time, error) {
	if header == "" {
		return time.Now().UTC(), nil
	}

	t, err := http.ParseTime(header)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing Last-Modified header %q: %w", header, err)
	}
	return t, nil
}

// ParseDocument parses the fetched page body into a navigable document.
func ParseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
