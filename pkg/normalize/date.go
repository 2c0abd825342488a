package normalize

import (
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/umputun/podjson/pkg/domain"
)

const (
	displayDateLayout = "02.01.2006"
	isoLayout         = "2006-01-02T15:04:05-07:00"
)

// PubDate is the resolved publish date of an entry
type PubDate struct {
	Time time.Time // UTC, zero if unknown
}

// ResolveDate finds the publish date of an entry. Pre-parsed timestamps are tried
// first (published, updated, created), then the raw date strings in the same order.
// Missing or unparsable dates give a zero PubDate.
func ResolveDate(e domain.Entry) PubDate {
	for _, t := range []*time.Time{e.Published, e.Updated, e.Created} {
		if t != nil && !t.IsZero() {
			return PubDate{Time: t.UTC().Truncate(time.Second)}
		}
	}

	for _, raw := range []string{e.PublishedRaw, e.UpdatedRaw, e.CreatedRaw} {
		if t, ok := parseDate(raw); ok {
			return PubDate{Time: t.UTC().Truncate(time.Second)}
		}
	}
	return PubDate{}
}

// IsZero reports whether the date is unknown
func (d PubDate) IsZero() bool {
	return d.Time.IsZero()
}

// Display returns the date as DD.MM.YYYY, empty if unknown
func (d PubDate) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(displayDateLayout)
}

// Year returns the publish year, nil if unknown
func (d PubDate) Year() *int {
	if d.IsZero() {
		return nil
	}
	y := d.Time.Year()
	return &y
}

// ISO returns the timestamp as ISO-8601 with explicit +00:00 offset, empty if unknown
func (d PubDate) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(isoLayout)
}

// parseDate parses RFC 2822 dates, with a lenient fallback for the
// malformed variants feeds tend to produce. Dates without zone are UTC.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := mail.ParseDate(raw); err == nil {
		return t, true
	}
	if t, err := dateparse.ParseIn(raw, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}
