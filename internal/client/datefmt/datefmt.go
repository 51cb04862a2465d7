// Package datefmt renders service timestamps the way the list pages show
// them: day-first (EU) or month-first (US), in local wall-clock time and UTC.
package datefmt

import (
	"fmt"
	"strings"
	"time"
)

type Format int

const (
	EU Format = iota
	US
	// Mobile is the short form of the Android client, see Compact.
	Mobile
)

func (f Format) String() string {
	switch f {
	case US:
		return "us"
	case Mobile:
		return "mobile"
	}
	return "eu"
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "eu":
		return EU, nil
	case "us", "usa":
		return US, nil
	case "mobile", "compact":
		return Mobile, nil
	}
	return EU, fmt.Errorf("unknown date format %q (want eu, us or mobile)", s)
}

func (f Format) dateLayout() string {
	if f == US {
		return "01-02-2006"
	}
	return "02-01-2006"
}

func (f Format) timeLayout() string {
	if f == US {
		return "3:04:05 PM"
	}
	return "15:04:05"
}

// zoned layouts carry their own offset; naive ones are read in the viewer's zone.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.000-0700",
		"2006-01-02T15:04:05-0700",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
	}
)

// Parse reads a service timestamp. A bare date is taken as UTC midnight and a
// date-time without offset as wall-clock time in loc.
func Parse(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Date renders only the date part in loc. A bare calendar date is printed as
// is, without a zone shift. Empty or unparseable input gives "".
func Date(raw string, f Format, loc *time.Location) string {
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(raw)); err == nil {
		return t.Format(f.dateLayout())
	}
	t, ok := Parse(raw, loc)
	if !ok {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(f.dateLayout())
}

// Dual is one instant rendered twice.
type Dual struct {
	Local string
	UTC   string
}

func (d Dual) String() string {
	if d.Local == "" && d.UTC == "" {
		return ""
	}
	return "Local: " + d.Local + ", UTC: " + d.UTC
}

// DateTime renders raw in loc and in UTC. Empty input gives an empty Dual;
// input that does not parse is echoed verbatim in both halves.
func DateTime(raw string, f Format, loc *time.Location) Dual {
	if strings.TrimSpace(raw) == "" {
		return Dual{}
	}
	t, ok := Parse(raw, loc)
	if !ok {
		return Dual{Local: raw, UTC: raw}
	}
	if loc == nil {
		loc = time.Local
	}
	layout := f.dateLayout() + " " + f.timeLayout()
	return Dual{
		Local: t.In(loc).Format(layout),
		UTC:   t.UTC().Format(layout),
	}
}

// Compact is the short dd.MM.yyyy[ HH:mm:ss] form; it falls back to the raw
// string when parsing fails.
func Compact(raw string, withTime bool, loc *time.Location) string {
	layout := "02.01.2006"
	if withTime {
		layout += " 15:04:05"
	}
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(raw)); err == nil {
		return t.Format(layout)
	}
	t, ok := Parse(raw, loc)
	if !ok {
		return raw
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(layout)
}
