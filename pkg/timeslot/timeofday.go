package timeslot

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is an offset from midnight. It carries second precision so that
// normalization can round explicitly instead of truncating on parse.
type TimeOfDay time.Duration

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m, sec int
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
		}
	case 3:
		if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
			return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
		}
	default:
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second
	return TimeOfDay(d), nil
}

func (t TimeOfDay) Duration() time.Duration { return time.Duration(t) }

// FloorMinute rounds down to the containing minute.
func (t TimeOfDay) FloorMinute() TimeOfDay {
	return TimeOfDay(time.Duration(t).Truncate(time.Minute))
}

// CeilMinute rounds up to the next minute boundary.
func (t TimeOfDay) CeilMinute() TimeOfDay {
	d := time.Duration(t)
	truncated := d.Truncate(time.Minute)
	if truncated == d {
		return t
	}
	return TimeOfDay(truncated + time.Minute)
}

func (t TimeOfDay) AddMinutes(m int) TimeOfDay {
	return t + TimeOfDay(time.Duration(m)*time.Minute)
}

func (t TimeOfDay) String() string {
	d := time.Duration(t)
	neg := ""
	if d < 0 {
		neg = "-"
		d = -d
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	return fmt.Sprintf("%s%02d:%02d", neg, h, m)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.String())), nil
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value stores the time as HH:MM:SS for postgres TIME columns.
func (t TimeOfDay) Value() (driver.Value, error) {
	d := time.Duration(t)
	if d < 0 || d >= 24*time.Hour {
		return nil, fmt.Errorf("time of day %s outside storable range", t)
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s), nil
}

func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		parsed, err := ParseTimeOfDay(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case time.Time:
		d := time.Duration(v.Hour())*time.Hour +
			time.Duration(v.Minute())*time.Minute +
			time.Duration(v.Second())*time.Second
		*t = TimeOfDay(d)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}
