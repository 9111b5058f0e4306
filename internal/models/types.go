package models

import (
	"fmt"
	"time"
)

// Date is a calendar date without time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, &InvalidDateFormatError{Kind: "date", Value: s, Err: err}
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// In returns midnight of the date in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(data []byte) error {
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeOfDay is a wall-clock time without date or zone.
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

var timeOfDayLayouts = []string{
	"15:04:05.999999999",
	"15:04",
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var lastErr error
	for _, layout := range timeOfDayLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return TimeOfDayOf(t), nil
		}
		lastErr = err
	}
	return TimeOfDay{}, &InvalidDateFormatError{Kind: "time", Value: s, Err: lastErr}
}

func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()}
}

func (t TimeOfDay) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Nanosecond != 0 {
		s += fmt.Sprintf(".%06d", t.Nanosecond/1000)
	}
	return s
}

// HHMM is the short form used in schedule summaries.
func (t TimeOfDay) HHMM() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) sinceMidnight() time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second +
		time.Duration(t.Nanosecond)
}

// Compare returns -1, 0 or +1.
func (t TimeOfDay) Compare(o TimeOfDay) int {
	a, b := t.sinceMidnight(), o.sinceMidnight()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (t TimeOfDay) Before(o TimeOfDay) bool { return t.Compare(o) < 0 }

func (t TimeOfDay) After(o TimeOfDay) bool { return t.Compare(o) > 0 }

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(data []byte) error {
	parsed, err := ParseTimeOfDay(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// DateTime is an ISO-8601 timestamp that remembers whether it carried a UTC
// offset. Naive values hold their wall clock in UTC and are placed in a zone
// with In.
type DateTime struct {
	t     time.Time
	zoned bool
}

var zonedLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04Z07:00",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

func ZonedDateTime(t time.Time) DateTime {
	return DateTime{t: t, zoned: true}
}

func NaiveDateTime(t time.Time) DateTime {
	return DateTime{
		t: time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC),
	}
}

func ParseDateTime(s string) (DateTime, error) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ZonedDateTime(t), nil
		}
	}

	var lastErr error
	for _, layout := range naiveLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return DateTime{t: t}, nil
		}
		lastErr = err
	}

	return DateTime{}, &InvalidDateFormatError{Kind: "datetime", Value: s, Err: lastErr}
}

func (d DateTime) IsZero() bool { return d.t.IsZero() }

func (d DateTime) Zoned() bool { return d.zoned }

// In resolves the instant, reading naive values as wall clock in loc.
func (d DateTime) In(loc *time.Location) time.Time {
	if d.zoned {
		return d.t
	}
	t := d.t
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// Display renders the stored wall clock as "YYYY-MM-DD HH:MM".
func (d DateTime) Display() string {
	return d.t.Format("2006-01-02 15:04")
}

func (d DateTime) String() string {
	s := d.t.Format("2006-01-02T15:04:05")
	if ns := d.t.Nanosecond(); ns != 0 {
		s += fmt.Sprintf(".%06d", ns/1000)
	}
	if d.zoned {
		s += d.t.Format("-07:00")
	}
	return s
}

func (d DateTime) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DateTime) UnmarshalText(data []byte) error {
	parsed, err := ParseDateTime(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
