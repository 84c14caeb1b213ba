// Package localtime resolves user-supplied date/time expressions into
// absolute UTC instants.
//
// Inputs come in three shapes:
//   - Absolute datetimes carrying an explicit UTC offset or "Z", which are
//     parsed as-is.
//   - Local datetimes (date with optional time-of-day, no offset), which are
//     ambiguous until resolved against a timezone.
//   - Relative day counts ("N days from now"), accepted through a separate
//     numeric channel, never through the string grammar.
//
// Local datetimes are disambiguated with a small offset search rather than a
// transition-rule table: the zone's offset is probed around a UTC
// approximation of the naive components, and each plausible offset yields a
// candidate instant. A candidate whose wall-clock rendering matches the
// requested components exactly wins; when a DST fall-back makes a local time
// occur twice, the earlier instant is chosen. When a spring-forward gap makes
// the local time never occur, the result snaps forward to the nearest valid
// local time. The probe window is one hour on either side, which covers
// real-world DST transitions; half-hour historical transitions would require
// widening it.
//
// The timezone itself comes from a Context holding an ordered list of
// sources: an explicit per-call zone, a configured process default, the
// account's stored zone, and finally the machine's local zone. The first
// populated source wins outright; sources are never merged.
//
// All results serialize through Format to ISO 8601 with millisecond
// precision and a "Z" suffix.
package localtime
