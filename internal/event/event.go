package event

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Event represents a single all-day holiday observance
type Event struct {
	UID     string
	Start   time.Time // observance date
	End     time.Time // exclusive end, one day after Start
	Stamp   time.Time // page modification time at build
	Summary string
}

// UID creates the deterministic identifier for a holiday: the lowercase hex
// SHA256 digest of the ISO-8601 date concatenated with the raw description.
// No separator, and never the stamp.
func UID(date time.Time, description string) string {
	h := sha256.Sum256([]byte(date.Format("2006-01-02") + description))
	return hex.EncodeToString(h[:])
}

// New builds an Event with its UID and exclusive end date populated.
// The stamp is stored as given and plays no part in the identity.
func New(date time.Time, description string, stamp time.Time) *Event {
	return &Event{
		UID:     UID(date, description),
		Start:   date,
		End:     date.AddDate(0, 0, 1),
		Stamp:   stamp,
		Summary: description,
	}
}
