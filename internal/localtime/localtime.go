package localtime

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for the two failure modes of resolution. Callers match
// with errors.Is.
var (
	// ErrInvalidInput indicates a malformed expression or an impossible
	// calendar value (February 30, hour 25, and so on).
	ErrInvalidInput = errors.New("invalid date/time input")

	// ErrInvalidTimezone indicates a timezone identifier that the zone
	// database does not recognize.
	ErrInvalidTimezone = errors.New("invalid timezone")
)

// Canonical serialization layout: ISO 8601, millisecond precision, "Z".
const canonicalLayout = "2006-01-02T15:04:05.000Z07:00"

// Context is the ordered timezone-resolution policy for local datetimes.
// The first populated source wins; sources are never merged. An empty
// Context falls back to the machine's local timezone.
type Context struct {
	// TimeZone is an explicit per-call IANA zone identifier.
	TimeZone string

	// DefaultTimeZone is the process-wide configured default. It is
	// injected here rather than read from the environment inside the
	// resolver so that resolution stays a pure function of its inputs.
	DefaultTimeZone string

	// AccountTimeZone lazily supplies the account's stored timezone.
	// It may be nil or return "" when no account zone is available.
	AccountTimeZone func() string
}

// Location resolves the Context to a concrete *time.Location.
// An unrecognized identifier from the winning source is ErrInvalidTimezone;
// later sources are not consulted as a fallback.
func (c Context) Location() (*time.Location, error) {
	name := c.TimeZone
	if name == "" {
		name = c.DefaultTimeZone
	}
	if name == "" && c.AccountTimeZone != nil {
		name = c.AccountTimeZone()
	}
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// Format serializes an instant in the canonical form.
func Format(t time.Time) string {
	return t.UTC().Format(canonicalLayout)
}

var (
	// Trailing explicit offset: "Z", "+02:00", "-0800".
	offsetSuffixRe = regexp.MustCompile(`(?:[zZ]|[+-]\d{2}:?\d{2})$`)

	// Local date with optional time-of-day, "T" or space separated,
	// optional seconds and fractional seconds.
	localRe = regexp.MustCompile(
		`^(\d{4})-(\d{1,2})-(\d{1,2})(?:[T ](\d{1,2}):(\d{2})(?::(\d{2})(?:\.(\d{1,9}))?)?)?$`)
)

// Layouts tried for absolute inputs that end in an offset or "Z".
var absoluteLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// Layouts tried by the permissive fallback when neither the absolute nor
// the local grammar matches. Parsed components still go through the same
// timezone disambiguation as the local grammar.
var permissiveLayouts = []string{
	"January 2, 2006 15:04:05",
	"January 2, 2006 15:04",
	"January 2, 2006",
	"Jan 2, 2006 15:04",
	"Jan 2, 2006",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"01/02/2006 15:04",
	"01/02/2006",
}

// components holds a naive local datetime prior to disambiguation.
type components struct {
	year, month, day     int
	hour, minute, second int
	millisecond          int
}

// Resolve converts a date/time expression into an absolute UTC instant.
//
// Expressions carrying an explicit UTC offset are honored as-is and the
// Context is ignored. Offset-less expressions are interpreted in the
// Context's resolved timezone. Malformed or calendar-impossible expressions
// fail with ErrInvalidInput; an unrecognized timezone fails with
// ErrInvalidTimezone.
func Resolve(expr string, rc Context) (time.Time, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty expression", ErrInvalidInput)
	}

	if offsetSuffixRe.MatchString(s) {
		for _, layout := range absoluteLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: cannot parse %q as an absolute datetime", ErrInvalidInput, s)
	}

	if m := localRe.FindStringSubmatch(s); m != nil {
		comps, err := parseComponents(m)
		if err != nil {
			return time.Time{}, err
		}
		loc, err := rc.Location()
		if err != nil {
			return time.Time{}, err
		}
		return resolveInZone(comps, loc), nil
	}

	// Permissive fallback for colloquial formats. The parsed wall-clock
	// components are re-resolved through the same disambiguation path.
	for _, layout := range permissiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			loc, lerr := rc.Location()
			if lerr != nil {
				return time.Time{}, lerr
			}
			comps := components{
				year: t.Year(), month: int(t.Month()), day: t.Day(),
				hour: t.Hour(), minute: t.Minute(), second: t.Second(),
				millisecond: t.Nanosecond() / int(time.Millisecond),
			}
			return resolveInZone(comps, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: unrecognized date/time expression %q", ErrInvalidInput, s)
}

// ResolveRelativeDays shifts now forward by days whole days, preserving the
// wall-clock time exactly. This is a fixed-duration shift in absolute time,
// not a timezone-aware calendar shift: a DST transition crossed during the
// shift moves the local wall-clock reading by the transition amount.
// Non-positive day counts degrade to now.
func ResolveRelativeDays(days int, now time.Time) time.Time {
	if days <= 0 {
		return now
	}
	return now.Add(time.Duration(days) * 24 * time.Hour)
}

// parseComponents validates and extracts the local-grammar submatches.
func parseComponents(m []string) (components, error) {
	atoi := func(s string) int {
		if s == "" {
			return 0
		}
		n, _ := strconv.Atoi(s)
		return n
	}

	c := components{
		year:   atoi(m[1]),
		month:  atoi(m[2]),
		day:    atoi(m[3]),
		hour:   atoi(m[4]),
		minute: atoi(m[5]),
		second: atoi(m[6]),
	}
	if frac := m[7]; frac != "" {
		// Fractional seconds truncate to millisecond precision.
		if len(frac) > 3 {
			frac = frac[:3]
		}
		for len(frac) < 3 {
			frac += "0"
		}
		c.millisecond = atoi(frac)
	}

	switch {
	case c.month < 1 || c.month > 12:
		return components{}, fmt.Errorf("%w: month %d out of range", ErrInvalidInput, c.month)
	case c.day < 1 || c.day > 31:
		return components{}, fmt.Errorf("%w: day %d out of range", ErrInvalidInput, c.day)
	case c.hour > 23:
		return components{}, fmt.Errorf("%w: hour %d out of range", ErrInvalidInput, c.hour)
	case c.minute > 59:
		return components{}, fmt.Errorf("%w: minute %d out of range", ErrInvalidInput, c.minute)
	case c.second > 59:
		return components{}, fmt.Errorf("%w: second %d out of range", ErrInvalidInput, c.second)
	}

	// Reject composite roll-over (February 30 passes the per-field checks
	// but normalizes to a different date).
	probe := time.Date(c.year, time.Month(c.month), c.day, 0, 0, 0, 0, time.UTC)
	if probe.Year() != c.year || int(probe.Month()) != c.month || probe.Day() != c.day {
		return components{}, fmt.Errorf("%w: %04d-%02d-%02d is not a valid calendar date",
			ErrInvalidInput, c.year, c.month, c.day)
	}

	return c, nil
}

// naive renders the components as if they were UTC. This approximation
// seeds the offset search and doubles as the comparison key for the
// gap-snapping rule.
func (c components) naive() time.Time {
	return time.Date(c.year, time.Month(c.month), c.day,
		c.hour, c.minute, c.second, c.millisecond*int(time.Millisecond), time.UTC)
}

// resolveInZone disambiguates naive local components against a timezone.
//
// The naive-as-UTC approximation is off from the real instant by the zone's
// UTC offset, so the offset search is anchored at the offset-adjusted
// instant: the zone is sampled there and one hour either side, which lands
// the probes next to any transition adjacent to the requested local time.
// Each distinct offset observed (the anchor's included) yields a candidate
// instant; a candidate whose local rendering equals the requested components
// exactly is a match, and the earliest match wins (fall-back overlap rule).
// With no exact match the requested time sits in a spring-forward gap, and
// the result snaps to the nearest candidate whose rendering is at or after
// the requested time.
func resolveInZone(c components, loc *time.Location) time.Time {
	approx := c.naive()

	_, anchorOff := approx.In(loc).Zone()
	anchor := approx.Add(-time.Duration(anchorOff) * time.Second)

	offsets := map[int]struct{}{anchorOff: {}}
	for _, probe := range []time.Time{anchor.Add(-time.Hour), anchor, anchor.Add(time.Hour)} {
		_, off := probe.In(loc).Zone()
		offsets[off] = struct{}{}
	}

	type candidate struct {
		instant time.Time
		wall    time.Time // rendering in loc, re-expressed as naive UTC
	}

	var exact []time.Time
	candidates := make([]candidate, 0, len(offsets))
	for off := range offsets {
		instant := approx.Add(-time.Duration(off) * time.Second)
		local := instant.In(loc)
		wall := time.Date(local.Year(), local.Month(), local.Day(),
			local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), time.UTC)
		if wall.Equal(approx) {
			exact = append(exact, instant)
			continue
		}
		candidates = append(candidates, candidate{instant: instant, wall: wall})
	}

	if len(exact) > 0 {
		earliest := exact[0]
		for _, t := range exact[1:] {
			if t.Before(earliest) {
				earliest = t
			}
		}
		return earliest
	}

	// Spring-forward gap: prefer the closest rendering at or after the
	// requested time; failing that, the closest overall.
	var best *candidate
	var bestDelta time.Duration
	for i := range candidates {
		cand := candidates[i]
		if cand.wall.Before(approx) {
			continue
		}
		delta := cand.wall.Sub(approx)
		if best == nil || delta < bestDelta {
			best = &candidates[i]
			bestDelta = delta
		}
	}
	if best == nil {
		for i := range candidates {
			cand := candidates[i]
			delta := approx.Sub(cand.wall)
			if delta < 0 {
				delta = -delta
			}
			if best == nil || delta < bestDelta {
				best = &candidates[i]
				bestDelta = delta
			}
		}
	}
	return best.instant
}
