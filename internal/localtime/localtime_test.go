package localtime

import (
	"errors"
	"testing"
	"time"
)

func losAngeles() Context {
	return Context{TimeZone: "America/Los_Angeles"}
}

func TestResolveAbsoluteIgnoresContext(t *testing.T) {
	// An explicit offset is honored as-is; the timezone context must not
	// change the instant.
	contexts := []Context{
		{},
		{TimeZone: "America/Los_Angeles"},
		{TimeZone: "Asia/Tokyo"},
		{DefaultTimeZone: "Europe/Berlin"},
	}

	inputs := []struct {
		expr string
		want string
	}{
		{"2026-01-05T16:00:00Z", "2026-01-05T16:00:00.000Z"},
		{"2026-01-05T08:00:00-08:00", "2026-01-05T16:00:00.000Z"},
		{"2026-01-05T17:00:00+01:00", "2026-01-05T16:00:00.000Z"},
		{"2026-01-05T16:00:00.250Z", "2026-01-05T16:00:00.250Z"},
	}

	for _, in := range inputs {
		for _, rc := range contexts {
			got, err := Resolve(in.expr, rc)
			if err != nil {
				t.Fatalf("Resolve(%q) returned error: %v", in.expr, err)
			}
			if Format(got) != in.want {
				t.Errorf("Resolve(%q) = %s, want %s", in.expr, Format(got), in.want)
			}
		}
	}
}

func TestResolveLocalDatetime(t *testing.T) {
	tests := []struct {
		name string
		expr string
		rc   Context
		want string
	}{
		{
			name: "winter time",
			expr: "2026-01-05T08:00:00",
			rc:   losAngeles(),
			want: "2026-01-05T16:00:00.000Z",
		},
		{
			name: "space separator",
			expr: "2026-01-05 08:00:00",
			rc:   losAngeles(),
			want: "2026-01-05T16:00:00.000Z",
		},
		{
			name: "no seconds",
			expr: "2026-01-05T08:00",
			rc:   losAngeles(),
			want: "2026-01-05T16:00:00.000Z",
		},
		{
			name: "fractional seconds",
			expr: "2026-01-05T08:00:00.5",
			rc:   losAngeles(),
			want: "2026-01-05T16:00:00.500Z",
		},
		{
			name: "summer time",
			expr: "2026-07-05T08:00:00",
			rc:   losAngeles(),
			want: "2026-07-05T15:00:00.000Z",
		},
		{
			name: "date only is local midnight",
			expr: "2026-01-05",
			rc:   losAngeles(),
			want: "2026-01-05T08:00:00.000Z",
		},
		{
			name: "default timezone source",
			expr: "2026-01-05T08:00:00",
			rc:   Context{DefaultTimeZone: "America/Los_Angeles"},
			want: "2026-01-05T16:00:00.000Z",
		},
		{
			name: "explicit beats default",
			expr: "2026-01-05T08:00:00",
			rc:   Context{TimeZone: "UTC", DefaultTimeZone: "America/Los_Angeles"},
			want: "2026-01-05T08:00:00.000Z",
		},
		{
			name: "account timezone source",
			expr: "2026-01-05T08:00:00",
			rc:   Context{AccountTimeZone: func() string { return "America/Los_Angeles" }},
			want: "2026-01-05T16:00:00.000Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.expr, tt.rc)
			if err != nil {
				t.Fatalf("Resolve(%q) returned error: %v", tt.expr, err)
			}
			if Format(got) != tt.want {
				t.Errorf("Resolve(%q) = %s, want %s", tt.expr, Format(got), tt.want)
			}
		})
	}
}

func TestResolveSpringForwardGap(t *testing.T) {
	// Each wall-clock time falls inside the zone's spring-forward gap and
	// never occurs; the result snaps forward by the transition amount.
	tests := []struct {
		name string
		expr string
		zone string
		want string
	}{
		{
			// 02:00 PST jumps to 03:00 PDT; 02:30 becomes 03:30 PDT.
			name: "Los Angeles",
			expr: "2026-03-08T02:30:00",
			zone: "America/Los_Angeles",
			want: "2026-03-08T10:30:00.000Z",
		},
		{
			// 02:00 CET jumps to 03:00 CEST; 02:30 becomes 03:30 CEST.
			name: "Paris",
			expr: "2026-03-29T02:30:00",
			zone: "Europe/Paris",
			want: "2026-03-29T01:30:00.000Z",
		},
		{
			// 02:00 AEST jumps to 03:00 AEDT; 02:30 becomes 03:30 AEDT.
			name: "Sydney",
			expr: "2026-10-04T02:30:00",
			zone: "Australia/Sydney",
			want: "2026-10-03T16:30:00.000Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.expr, Context{TimeZone: tt.zone})
			if err != nil {
				t.Fatalf("Resolve(%q) returned error: %v", tt.expr, err)
			}
			if Format(got) != tt.want {
				t.Errorf("gap resolution = %s, want %s", Format(got), tt.want)
			}
		})
	}
}

func TestResolveFallBackOverlap(t *testing.T) {
	// Each wall-clock time occurs twice across the zone's fall-back
	// transition; the earlier occurrence (the daylight-time one) wins.
	tests := []struct {
		name string
		expr string
		zone string
		want string
	}{
		{
			// 01:30 exists as PDT and again as PST.
			name: "Los Angeles",
			expr: "2026-11-01T01:30:00",
			zone: "America/Los_Angeles",
			want: "2026-11-01T08:30:00.000Z",
		},
		{
			// 02:30 exists as CEST and again as CET.
			name: "Paris",
			expr: "2026-10-25T02:30:00",
			zone: "Europe/Paris",
			want: "2026-10-25T00:30:00.000Z",
		},
		{
			// 02:30 exists as AEDT and again as AEST.
			name: "Sydney",
			expr: "2026-04-05T02:30:00",
			zone: "Australia/Sydney",
			want: "2026-04-04T15:30:00.000Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.expr, Context{TimeZone: tt.zone})
			if err != nil {
				t.Fatalf("Resolve(%q) returned error: %v", tt.expr, err)
			}
			if Format(got) != tt.want {
				t.Errorf("overlap resolution = %s, want %s", Format(got), tt.want)
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	first, err := Resolve("2026-11-01T01:30:00", losAngeles())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Resolve("2026-11-01T01:30:00", losAngeles())
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if !again.Equal(first) {
			t.Fatalf("resolution not deterministic: %v vs %v", again, first)
		}
	}
}

func TestResolveInvalidInput(t *testing.T) {
	tests := []string{
		"",
		"not a date",
		"2026-02-30T09:00:00", // February 30
		"2026-01-05T25:00:00", // hour 25
		"2026-13-01",          // month 13
		"2026-01-05T08:61:00", // minute 61
		"2026-01-05T08:00:00+9:00",
	}

	for _, expr := range tests {
		_, err := Resolve(expr, losAngeles())
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalidInput", expr, err)
		}
	}
}

func TestResolveInvalidTimezone(t *testing.T) {
	_, err := Resolve("2026-01-05T08:00:00", Context{TimeZone: "Mars/Olympus_Mons"})
	if !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("error = %v, want ErrInvalidTimezone", err)
	}

	// An absolute input never consults the timezone, so a bad zone does
	// not fail it.
	if _, err := Resolve("2026-01-05T16:00:00Z", Context{TimeZone: "Mars/Olympus_Mons"}); err != nil {
		t.Errorf("absolute input should ignore the timezone, got error: %v", err)
	}
}

func TestResolvePermissiveFallback(t *testing.T) {
	got, err := Resolve("January 5, 2026 08:00", Context{TimeZone: "America/Los_Angeles"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if want := "2026-01-05T16:00:00.000Z"; Format(got) != want {
		t.Errorf("permissive resolution = %s, want %s", Format(got), want)
	}
}

func TestResolveRelativeDays(t *testing.T) {
	now := time.Date(2026, time.March, 6, 9, 30, 0, 0, time.UTC)

	got := ResolveRelativeDays(3, now)
	if want := now.Add(72 * time.Hour); !got.Equal(want) {
		t.Errorf("ResolveRelativeDays(3) = %v, want %v", got, want)
	}

	// Wall-clock time in UTC is preserved exactly.
	if got.Hour() != 9 || got.Minute() != 30 {
		t.Errorf("wall-clock not preserved: %v", got)
	}

	// Non-positive counts degrade to now.
	if got := ResolveRelativeDays(0, now); !got.Equal(now) {
		t.Errorf("ResolveRelativeDays(0) = %v, want now", got)
	}
	if got := ResolveRelativeDays(-2, now); !got.Equal(now) {
		t.Errorf("ResolveRelativeDays(-2) = %v, want now", got)
	}
}

func TestContextLocation(t *testing.T) {
	loc, err := Context{}.Location()
	if err != nil {
		t.Fatalf("empty context returned error: %v", err)
	}
	if loc != time.Local {
		t.Errorf("empty context location = %v, want time.Local", loc)
	}

	if _, err := (Context{DefaultTimeZone: "Not/AZone"}).Location(); !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("error = %v, want ErrInvalidTimezone", err)
	}
}

func TestFormatMillisecondPrecision(t *testing.T) {
	in := time.Date(2026, time.January, 5, 16, 0, 0, 123456789, time.UTC)
	if got, want := Format(in), "2026-01-05T16:00:00.123Z"; got != want {
		t.Errorf("Format = %s, want %s", got, want)
	}

	// Non-UTC instants are re-expressed in UTC.
	loc, _ := time.LoadLocation("America/Los_Angeles")
	in = time.Date(2026, time.January, 5, 8, 0, 0, 0, loc)
	if got, want := Format(in), "2026-01-05T16:00:00.000Z"; got != want {
		t.Errorf("Format = %s, want %s", got, want)
	}
}
