package normalize

import "strings"

// Canonical event sub-type tags accepted by the service.
const (
	SubTypeFocus        = "FOCUS"
	SubTypeStaffMeeting = "STAFF_MEETING"
	SubTypeEmail        = "EMAIL"
	SubTypeTravel       = "TRAVEL"
	SubTypePersonal     = "PERSONAL"
	SubTypeSelfCare     = "SELF_CARE"
)

// Primary lookup tables map an already-canonicalized token to its tag.
// Alias tables are consulted on primary miss and absorb the colloquial
// spellings callers actually send.

var categoryTags = map[string]string{
	"work":     "WORK",
	"personal": "PERSONAL",
}

var categoryAliases = map[string]string{
	"job":      "WORK",
	"office":   "WORK",
	"business": "WORK",
	"private":  "PERSONAL",
	"home":     "PERSONAL",
	"life":     "PERSONAL",
}

var subTypeTags = map[string]string{
	"focus":         SubTypeFocus,
	"staff_meeting": SubTypeStaffMeeting,
	"email":         SubTypeEmail,
	"travel":        SubTypeTravel,
	"personal":      SubTypePersonal,
	"self_care":     SubTypeSelfCare,
}

var subTypeAliases = map[string]string{
	"meeting":       SubTypeStaffMeeting,
	"staff meeting": SubTypeStaffMeeting,
	"1:1":           SubTypeStaffMeeting,
	"one on one":    SubTypeStaffMeeting,
	"deep work":     SubTypeFocus,
	"focus work":    SubTypeFocus,
	"coding":        SubTypeFocus,
	"writing":       SubTypeFocus,
	"mail":          SubTypeEmail,
	"inbox":         SubTypeEmail,
	"commute":       SubTypeTravel,
	"trip":          SubTypeTravel,
	"errand":        SubTypePersonal,
	"chore":         SubTypePersonal,
	"self care":     SubTypeSelfCare,
	"selfcare":      SubTypeSelfCare,
	"workout":       SubTypeSelfCare,
	"exercise":      SubTypeSelfCare,
}

// Sub-types that imply the personal category when the category itself is
// left unset.
var personalSubTypes = map[string]bool{
	SubTypePersonal: true,
	SubTypeSelfCare: true,
}

var priorityTags = map[string]string{
	"p1": "P1",
	"p2": "P2",
	"p3": "P3",
	"p4": "P4",
}

var priorityAliases = map[string]string{
	"1":        "P1",
	"2":        "P2",
	"3":        "P3",
	"4":        "P4",
	"critical": "P1",
	"urgent":   "P1",
	"high":     "P2",
	"medium":   "P3",
	"normal":   "P3",
	"low":      "P4",
}

var colorTags = map[string]string{
	"none":      "NONE",
	"lavender":  "LAVENDER",
	"sage":      "SAGE",
	"grape":     "GRAPE",
	"flamingo":  "FLAMINGO",
	"banana":    "BANANA",
	"tangerine": "TANGERINE",
	"peacock":   "PEACOCK",
	"graphite":  "GRAPHITE",
	"blueberry": "BLUEBERRY",
	"basil":     "BASIL",
	"tomato":    "TOMATO",
}

var colorAliases = map[string]string{
	"purple": "GRAPE",
	"violet": "LAVENDER",
	"green":  "BASIL",
	"blue":   "BLUEBERRY",
	"teal":   "PEACOCK",
	"red":    "TOMATO",
	"yellow": "BANANA",
	"orange": "TANGERINE",
	"pink":   "FLAMINGO",
	"gray":   "GRAPHITE",
	"grey":   "GRAPHITE",
}

// canonToken lowercases and collapses surrounding whitespace for table
// lookup.
func canonToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// lookupTag resolves a raw value against a primary table and an alias
// table. A miss in both returns "", signalling the caller to apply its
// documented default.
func lookupTag(raw string, primary, aliases map[string]string) string {
	token := canonToken(raw)
	if token == "" {
		return ""
	}
	if tag, ok := primary[token]; ok {
		return tag
	}
	if tag, ok := aliases[token]; ok {
		return tag
	}
	// Values already in canonical form pass through the primary table via
	// their lowercase token; anything else is unrecognized.
	return ""
}

// CanonicalCategory resolves a category value; "" means unrecognized or
// unset.
func CanonicalCategory(raw string) string {
	return lookupTag(raw, categoryTags, categoryAliases)
}

// CanonicalSubType resolves a sub-type value; "" means unrecognized or
// unset.
func CanonicalSubType(raw string) string {
	return lookupTag(raw, subTypeTags, subTypeAliases)
}

// CanonicalPriority resolves a priority value; "" means unrecognized or
// unset.
func CanonicalPriority(raw string) string {
	return lookupTag(raw, priorityTags, priorityAliases)
}

// CanonicalColor resolves a color value; "" means unrecognized or unset,
// in which case the field is omitted and the service default applies.
func CanonicalColor(raw string) string {
	return lookupTag(raw, colorTags, colorAliases)
}

// DefaultSubTypeFor returns the category-conditioned default sub-type.
func DefaultSubTypeFor(category string) string {
	if category == "PERSONAL" {
		return SubTypePersonal
	}
	return SubTypeFocus
}

// CategoryForSubType infers a category from a canonical sub-type.
func CategoryForSubType(subType string) string {
	if personalSubTypes[subType] {
		return "PERSONAL"
	}
	return "WORK"
}
