package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/erikmackinnon/reclaim-mcp-server/internal/localtime"
	"github.com/erikmackinnon/reclaim-mcp-server/internal/reclaim"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

var losAngeles = localtime.Context{TimeZone: "America/Los_Angeles"}

var testNow = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

func TestCreateConvertsMinutesToChunks(t *testing.T) {
	fields, err := Create(RawTask{
		Title:           "Write report",
		DurationMinutes: intPtr(60),
	}, reclaim.TaskDefaults{}, losAngeles, testNow)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if fields["timeChunksRequired"] != 4 {
		t.Errorf("expected 4 chunks, got %v", fields["timeChunksRequired"])
	}
}

func TestCreateRejectsPartialChunkMinutes(t *testing.T) {
	_, err := Create(RawTask{
		Title:           "Write report",
		DurationMinutes: intPtr(50),
	}, reclaim.TaskDefaults{}, losAngeles, testNow)
	if !errors.Is(err, localtime.ErrInvalidInput) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestCreateMinuteBoundsConflict(t *testing.T) {
	_, err := Create(RawTask{
		Title:              "Write report",
		MinDurationMinutes: intPtr(60),
		MaxDurationMinutes: intPtr(30),
	}, reclaim.TaskDefaults{}, losAngeles, testNow)
	if !errors.Is(err, ErrChunkSizeConflict) {
		t.Errorf("expected chunk size conflict, got %v", err)
	}
}

func TestCreateLockToDuration(t *testing.T) {
	fields, err := Create(RawTask{
		Title:           "Deploy",
		DurationMinutes: intPtr(120),
		MinChunkSize:    intPtr(1),
		MaxChunkSize:    intPtr(2),
		LockToDuration:  boolPtr(true),
	}, reclaim.TaskDefaults{}, losAngeles, testNow)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if fields["minChunkSize"] != 8 || fields["maxChunkSize"] != 8 {
		t.Errorf("lock must force min = max = total, got min=%v max=%v",
			fields["minChunkSize"], fields["maxChunkSize"])
	}
}

func TestCreateFillsAccountDefaults(t *testing.T) {
	defaults := reclaim.TaskDefaults{
		EventCategory:      "WORK",
		EventSubType:       "FOCUS",
		TimeChunksRequired: intPtr(4),
		MinChunkSize:       intPtr(2),
		MaxChunkSize:       intPtr(4),
		AlwaysPrivate:      boolPtr(true),
		OnDeck:             boolPtr(false),
	}

	fields, err := Create(RawTask{Title: "Plan sprint"}, defaults, losAngeles, testNow)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if fields["timeChunksRequired"] != 4 {
		t.Errorf("expected default chunk count 4, got %v", fields["timeChunksRequired"])
	}
	if fields["minChunkSize"] != 2 || fields["maxChunkSize"] != 4 {
		t.Errorf("expected default bounds 2/4, got %v/%v",
			fields["minChunkSize"], fields["maxChunkSize"])
	}
	if fields["eventCategory"] != "WORK" || fields["eventSubType"] != "FOCUS" {
		t.Errorf("expected default category/sub-type, got %v/%v",
			fields["eventCategory"], fields["eventSubType"])
	}
	if fields["alwaysPrivate"] != true || fields["onDeck"] != false {
		t.Errorf("expected default flags, got alwaysPrivate=%v onDeck=%v",
			fields["alwaysPrivate"], fields["onDeck"])
	}
}

func TestCreateExplicitValuesBeatDefaults(t *testing.T) {
	defaults := reclaim.TaskDefaults{
		EventCategory:      "WORK",
		TimeChunksRequired: intPtr(4),
		Priority:           "P3",
	}

	fields, err := Create(RawTask{
		Title:              "Pack for trip",
		Category:           "personal",
		TimeChunksRequired: intPtr(2),
		Priority:           "urgent",
	}, defaults, losAngeles, testNow)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if fields["eventCategory"] != "PERSONAL" {
		t.Errorf("expected explicit category to win, got %v", fields["eventCategory"])
	}
	if fields["timeChunksRequired"] != 2 {
		t.Errorf("expected explicit chunk count to win, got %v", fields["timeChunksRequired"])
	}
	if fields["priority"] != "P1" {
		t.Errorf("expected explicit priority to win, got %v", fields["priority"])
	}
}

func TestCreateInfersPersonalCategoryFromSubType(t *testing.T) {
	fields, err := Create(RawTask{
		Title:   "Gym session",
		SubType: "workout",
	}, reclaim.TaskDefaults{}, losAngeles, testNow)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if fields["eventCategory"] != "PERSONAL" {
		t.Errorf("expected inferred PERSONAL category, got %v", fields["eventCategory"])
	}
	if fields["eventSubType"] != SubTypeSelfCare {
		t.Errorf("expected %s sub-type, got %v", SubTypeSelfCare, fields["eventSubType"])
	}
}

func TestCreateRepairsBoundsAgainstTotal(t *testing.T) {
	fields, err := Create(RawTask{
		Title:              "Quick fix",
		TimeChunksRequired: intPtr(2),
		MinChunkSize:       intPtr(6),
		MaxChunkSize:       intPtr(8),
	}, reclaim.TaskDefaults{}, losAngeles, testNow)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if fields["minChunkSize"] != 2 || fields["maxChunkSize"] != 2 {
		t.Errorf("expected bounds clamped to total 2, got min=%v max=%v",
			fields["minChunkSize"], fields["maxChunkSize"])
	}
}

func TestCreateUnrecognizedEnumFallsBack(t *testing.T) {
	fields, err := Create(RawTask{
		Title:    "Mystery",
		Category: "whatever",
		Priority: "sideways",
	}, reclaim.TaskDefaults{}, losAngeles, testNow)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if fields["eventCategory"] != "WORK" {
		t.Errorf("expected WORK fallback, got %v", fields["eventCategory"])
	}
	if _, present := fields["priority"]; present {
		t.Errorf("unrecognized priority must be omitted, got %v", fields["priority"])
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	if _, err := Create(RawTask{}, reclaim.TaskDefaults{}, losAngeles, testNow); !errors.Is(err, localtime.ErrInvalidInput) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestCreateResolvesDueThroughLocalTime(t *testing.T) {
	fields, err := Create(RawTask{
		Title: "Write report",
		Due:   "2026-01-05T08:00:00",
	}, reclaim.TaskDefaults{}, losAngeles, testNow)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if fields["due"] != "2026-01-05T16:00:00.000Z" {
		t.Errorf("unexpected due: %v", fields["due"])
	}
}

func TestCreateDueInDays(t *testing.T) {
	fields, err := Create(RawTask{
		Title:     "Follow up",
		DueInDays: intPtr(3),
	}, reclaim.TaskDefaults{}, losAngeles, testNow)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if fields["due"] != "2026-01-08T12:00:00.000Z" {
		t.Errorf("unexpected due: %v", fields["due"])
	}
}

func TestCreateExplicitDueBeatsDueInDays(t *testing.T) {
	fields, err := Create(RawTask{
		Title:     "Follow up",
		Due:       "2026-02-01T09:00:00",
		DueInDays: intPtr(3),
	}, reclaim.TaskDefaults{}, losAngeles, testNow)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if fields["due"] != "2026-02-01T17:00:00.000Z" {
		t.Errorf("unexpected due: %v", fields["due"])
	}
}

func TestCreateStartAtDerivesDue(t *testing.T) {
	fields, err := Create(RawTask{
		Title:              "Prep demo",
		StartAt:            "2026-01-05T08:00:00",
		TimeChunksRequired: intPtr(4),
	}, reclaim.TaskDefaults{}, losAngeles, testNow)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if fields["snoozeUntil"] != "2026-01-05T16:00:00.000Z" {
		t.Errorf("unexpected snoozeUntil: %v", fields["snoozeUntil"])
	}
	// Start plus 4 chunks of 15 minutes.
	if fields["due"] != "2026-01-05T17:00:00.000Z" {
		t.Errorf("unexpected derived due: %v", fields["due"])
	}
}

func TestUpdateDoesNotInjectDefaults(t *testing.T) {
	fields, err := Update(RawTask{
		Notes: "updated notes",
	}, losAngeles, testNow)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if len(fields) != 1 {
		t.Errorf("expected exactly the supplied field, got %v", fields)
	}
	if fields["notes"] != "updated notes" {
		t.Errorf("unexpected notes: %v", fields["notes"])
	}
}

func TestUpdateConvertsMinutes(t *testing.T) {
	fields, err := Update(RawTask{
		DurationMinutes: intPtr(90),
	}, losAngeles, testNow)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if fields["timeChunksRequired"] != 6 {
		t.Errorf("expected 6 chunks, got %v", fields["timeChunksRequired"])
	}
	if _, present := fields["minChunkSize"]; present {
		t.Error("update must not synthesize bounds the caller did not supply")
	}
}

func TestUpdateMinuteBoundsConflict(t *testing.T) {
	_, err := Update(RawTask{
		MinDurationMinutes: intPtr(60),
		MaxDurationMinutes: intPtr(30),
	}, losAngeles, testNow)
	if !errors.Is(err, ErrChunkSizeConflict) {
		t.Errorf("expected chunk size conflict, got %v", err)
	}
}

func TestUpdateResolvesSnooze(t *testing.T) {
	fields, err := Update(RawTask{
		SnoozeUntil: "2026-11-01T01:30:00",
	}, losAngeles, testNow)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	// Repeated wall-clock hour resolves to its first occurrence.
	if fields["snoozeUntil"] != "2026-11-01T08:30:00.000Z" {
		t.Errorf("unexpected snoozeUntil: %v", fields["snoozeUntil"])
	}
}
