package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const CalendarDateLayout = "2006-01-02"

// CalendarDate is a date without a time of day. The zero value means "no
// date" and is written as JSON null.
type CalendarDate struct {
	t time.Time
}

func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseCalendarDate accepts YYYY-MM-DD. Full RFC 3339 timestamps, as some
// document stores return for date fields, are reduced to their UTC date.
func ParseCalendarDate(raw string) (CalendarDate, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CalendarDate{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(CalendarDateLayout, raw); err == nil {
		return CalendarDate{t: t}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid date %q", raw)
	}
	t = t.UTC()
	return NewCalendarDate(t.Year(), t.Month(), t.Day()), nil
}

func (d CalendarDate) IsZero() bool {
	return d.t.IsZero()
}

func (d CalendarDate) Time() time.Time {
	return d.t
}

func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(CalendarDateLayout)
}

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = CalendarDate{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		*d = CalendarDate{}
		return nil
	}
	parsed, err := ParseCalendarDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
