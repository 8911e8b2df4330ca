/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package epicorder

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Timeline is one segment of history the player sorts cards onto. Start and
// End are informational only.
type Timeline struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// EventCard is a single historical event. TimelineID is the correct
// timeline, fixed when the card is generated.
type EventCard struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Tooltip     string `json:"tooltip"`
	Date        string `json:"date"`
	TimelineID  string `json:"timelineId"`
}

// When returns the parsed date of the card. Unparsable dates sort first.
func (c EventCard) When() Date {
	d, err := ParseDate(c.Date)
	if err != nil {
		return Date{Year: minYear}
	}
	return d
}

// Catalog indexes the dealt cards by ID.
type Catalog map[string]EventCard

func NewCatalog(cards []EventCard) Catalog {
	c := make(Catalog, len(cards))
	for _, card := range cards {
		c[card.ID] = card
	}
	return c
}

// Chronological returns ids sorted by date ascending. Cards sharing a date
// keep their relative order.
func (c Catalog) Chronological(ids []string) []string {
	out := slices.Clone(ids)
	slices.SortStableFunc(out, func(a, b string) int {
		return c[a].When().Compare(c[b].When())
	})
	return out
}

const minYear = -1 << 31

// Date is a calendar date that allows years before the common era as
// negative numbers. Month and Day are zero when unknown.
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) Compare(o Date) int {
	if c := cmp.Compare(d.Year, o.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(d.Month, o.Month); c != 0 {
		return c
	}
	return cmp.Compare(d.Day, o.Day)
}

// YearString renders the year the way timelines display their bounds.
func (d Date) YearString() string {
	return strconv.Itoa(d.Year)
}

var ErrInvalidDate = errors.New("invalid date")

// ParseDate accepts "1854", "1854-05", "1854-05-30", RFC 3339 timestamps,
// signed years such as "-0490-09-12", and era suffixes ("490 BC", "30 CE").
func ParseDate(s string) (Date, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}

	bce := false
	upper := strings.ToUpper(s)
	for _, suffix := range []string{" BCE", " BC", " CE", " AD"} {
		if strings.HasSuffix(upper, suffix) {
			bce = strings.HasPrefix(suffix, " B")
			s = strings.TrimSpace(s[:len(s)-len(suffix)])
			break
		}
	}

	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}

	sign := 1
	switch {
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	parts := strings.Split(s, "-")
	if len(parts) > 3 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}

	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		fields[i] = n
	}

	d := Date{Year: sign * fields[0], Month: fields[1], Day: fields[2]}
	if bce {
		if sign < 0 {
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		d.Year = -d.Year
	}
	if d.Month > 12 || d.Day > 31 || (len(parts) > 1 && d.Month == 0) || (len(parts) > 2 && d.Day == 0) {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}

	return d, nil
}
