// Package calendar owns the persistent iCalendar store: loading or creating
// the container, merging newly built events without duplicating entries
// already present, and writing the result back out.
//
// Deduplication never trusts persisted UIDs. The identity of every stored
// event is recomputed from its date and summary on each merge; a stored UID
// that disagrees with the recomputed value is reported as identifier drift
// and the recomputed value wins.
package calendar

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/ghic-org/caltech-holidays/internal/event"
	"github.com/ghic-org/caltech-holidays/internal/logger"
)

// ProdID identifies this tool as the calendar producer.
const ProdID = "-//ghic.org//caltech-holidays//EN"

// LoadOrCreate loads the calendar at path if one exists, otherwise returns
// a fresh calendar with the version and producer fields set.
func LoadOrCreate(path string, log *logger.Logger) (*ics.Calendar, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			cal, perr := ics.ParseCalendar(bytes.NewReader(data))
			if perr != nil {
				return nil, fmt.Errorf("parsing calendar %s: %w", path, perr)
			}
			log.Debug("loaded existing calendar", logger.Fields{
				"path":   path,
				"events": len(cal.Events()),
			})
			return cal, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading calendar %s: %w", path, err)
		}
	}

	cal := ics.NewCalendar()
	cal.SetVersion("2.0")
	cal.SetProductId(ProdID)
	log.Debug("created new calendar", logger.Fields{"path": path})
	return cal, nil
}

// KnownUIDs returns the recomputed identity of every stored event that
// carries a UID. Events without one are ignored.
func KnownUIDs(cal *ics.Calendar, log *logger.Logger) map[string]struct{} {
	known := make(map[string]struct{})
	for _, ve := range cal.Events() {
		if uid, ok := storedIdentity(ve, log); ok {
			known[uid] = struct{}{}
		}
	}
	return known
}

// storedIdentity derives the authoritative identity of a stored event:
// always recomputed from its date and summary, never the persisted UID.
func storedIdentity(ve *ics.VEvent, log *logger.Logger) (string, bool) {
	uidProp := ve.GetProperty(ics.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return "", false
	}

	startProp := ve.GetProperty(ics.ComponentPropertyDtStart)
	summaryProp := ve.GetProperty(ics.ComponentPropertySummary)
	if startProp == nil || summaryProp == nil {
		log.Warn("stored event lacks DTSTART or SUMMARY, ignoring for dedup", logger.Fields{
			"uid": uidProp.Value,
		})
		return "", false
	}

	start, err := parseDateValue(startProp.Value)
	if err != nil {
		log.Warn("stored event has unparseable DTSTART, ignoring for dedup", logger.Fields{
			"uid":     uidProp.Value,
			"dtstart": startProp.Value,
		})
		return "", false
	}

	recomputed := event.UID(start, summaryProp.Value)
	if uidProp.Value != recomputed {
		log.Warn("stored UID disagrees with recomputed identity", logger.Fields{
			"summary":    summaryProp.Value,
			"stored":     uidProp.Value,
			"recomputed": recomputed,
		})
	}
	return recomputed, true
}

// AddUnique appends evt to the calendar unless an event with the same
// identity is already stored. It reports whether the event was inserted.
// The known set is recomputed on every call; calendars here hold at most a
// few hundred entries.
func AddUnique(cal *ics.Calendar, evt *event.Event, log *logger.Logger) bool {
	known := KnownUIDs(cal, log)
	if _, dup := known[evt.UID]; dup {
		log.Debug("duplicate event discarded", logger.Fields{
			"uid":     evt.UID,
			"summary": evt.Summary,
		})
		logger.IncrCounter("merge.duplicates")
		return false
	}

	ve := cal.AddEvent(evt.UID)
	ve.SetAllDayStartAt(evt.Start)
	ve.SetAllDayEndAt(evt.End)
	ve.SetDtStampTime(evt.Stamp)
	ve.SetSummary(evt.Summary)

	log.Debug("event inserted", logger.Fields{
		"uid":     evt.UID,
		"date":    evt.Start.Format("2006-01-02"),
		"summary": evt.Summary,
	})
	logger.IncrCounter("merge.inserted")
	return true
}

// Write serializes the calendar to path.
func Write(cal *ics.Calendar, path string) error {
	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return fmt.Errorf("writing calendar %s: %w", path, err)
	}
	return nil
}

// Display renders the calendar for stdout: LF line endings, no trailing
// blank line.
func Display(cal *ics.Calendar) string {
	return strings.TrimSpace(strings.ReplaceAll(cal.Serialize(), "\r\n", "\n"))
}

// parseDateValue parses a DTSTART value in its DATE, DATE-TIME, or UTC
// DATE-TIME form.
func parseDateValue(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, fmt.Errorf("empty date value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.Parse("20060102T150405", v)
	default:
		return time.Parse("20060102", v)
	}
}
