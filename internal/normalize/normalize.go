package normalize

import (
	"fmt"
	"time"

	"github.com/erikmackinnon/reclaim-mcp-server/internal/localtime"
	"github.com/erikmackinnon/reclaim-mcp-server/internal/reclaim"
)

// RawTask is the caller-supplied field set prior to normalization. Pointer
// fields distinguish "not supplied" from zero values; string fields treat
// "" as not supplied.
type RawTask struct {
	Title    string
	Notes    string
	Category string
	SubType  string
	Priority string
	Color    string

	// Durations, in either denomination. Minute values must divide
	// exactly into 15-minute chunks and take precedence over the
	// chunk-denominated fields when both are supplied.
	DurationMinutes    *int
	MinDurationMinutes *int
	MaxDurationMinutes *int
	TimeChunksRequired *int
	MinChunkSize       *int
	MaxChunkSize       *int

	// LockToDuration forces min = max = total: the scheduler may not
	// split the task.
	LockToDuration *bool

	AlwaysPrivate *bool
	OnDeck        *bool

	// Due is a date/time expression; DueInDays is the numeric
	// relative-day channel. Due wins when both are supplied.
	Due       string
	DueInDays *int

	SnoozeUntil string

	// StartAt requests scheduling at an explicit start time. It shares
	// the snoozeUntil wire field with SnoozeUntil (snoozing is how the
	// service defers a start); SnoozeUntil wins when both are supplied.
	StartAt string

	TimeSchemeID string
}

// chunkBounds is the converted duration triple during normalization.
// Nil means not yet determined.
type chunkBounds struct {
	total *int
	min   *int
	max   *int
}

// convertDurations turns the raw duration fields into chunk counts.
// Minute-denominated values are validated for exact division, and an
// explicit minute minimum exceeding an explicit minute maximum is the one
// irreconcilable conflict.
func convertDurations(raw RawTask) (chunkBounds, error) {
	var b chunkBounds

	if raw.DurationMinutes != nil {
		chunks, err := MinutesToChunks(*raw.DurationMinutes)
		if err != nil {
			return b, err
		}
		b.total = &chunks
	} else if raw.TimeChunksRequired != nil {
		b.total = raw.TimeChunksRequired
	}

	if raw.MinDurationMinutes != nil {
		chunks, err := MinutesToChunks(*raw.MinDurationMinutes)
		if err != nil {
			return b, err
		}
		b.min = &chunks
	} else if raw.MinChunkSize != nil {
		b.min = raw.MinChunkSize
	}

	if raw.MaxDurationMinutes != nil {
		chunks, err := MinutesToChunks(*raw.MaxDurationMinutes)
		if err != nil {
			return b, err
		}
		b.max = &chunks
	} else if raw.MaxChunkSize != nil {
		b.max = raw.MaxChunkSize
	}

	if raw.MinDurationMinutes != nil && raw.MaxDurationMinutes != nil && *b.min > *b.max {
		return b, fmt.Errorf("%w: %d minutes > %d minutes",
			ErrChunkSizeConflict, *raw.MinDurationMinutes, *raw.MaxDurationMinutes)
	}

	return b, nil
}

// repair clamps the bounds to the total and widens an inverted range
// rather than failing: both bounds are capped at the total, then the
// maximum is raised to the minimum if still inverted.
func (b *chunkBounds) repair() {
	if b.total == nil {
		return
	}
	if b.min != nil && *b.min > *b.total {
		*b.min = *b.total
	}
	if b.max != nil && *b.max > *b.total {
		*b.max = *b.total
	}
	if b.min != nil && b.max != nil && *b.min > *b.max {
		*b.max = *b.min
	}
}

// lock forces both bounds to the total, overriding anything supplied.
func (b *chunkBounds) lock() {
	if b.total == nil {
		return
	}
	total := *b.total
	b.min = &total
	max := total
	b.max = &max
}

// Create normalizes a task-creation field set. Account defaults fill any
// still-unset field; dated fields resolve through the localtime Context;
// now anchors relative-day and start-time derivations.
func Create(raw RawTask, defaults reclaim.TaskDefaults, rc localtime.Context, now time.Time) (reclaim.FieldMap, error) {
	if raw.Title == "" {
		return nil, fmt.Errorf("%w: title is required", localtime.ErrInvalidInput)
	}

	bounds, err := convertDurations(raw)
	if err != nil {
		return nil, err
	}

	// Enumerations first: the category/sub-type pair feeds defaulting.
	subType := CanonicalSubType(raw.SubType)
	if subType == "" {
		subType = CanonicalSubType(defaults.EventSubType)
	}
	category := CanonicalCategory(raw.Category)
	if category == "" {
		category = CanonicalCategory(defaults.EventCategory)
	}
	if category == "" && subType != "" {
		category = CategoryForSubType(subType)
	}
	if category == "" {
		category = "WORK"
	}
	if subType == "" {
		subType = DefaultSubTypeFor(category)
	}

	priority := CanonicalPriority(raw.Priority)
	if priority == "" {
		priority = CanonicalPriority(defaults.Priority)
	}

	onDeck := raw.OnDeck
	if onDeck == nil {
		onDeck = defaults.OnDeck
	}
	alwaysPrivate := raw.AlwaysPrivate
	if alwaysPrivate == nil {
		alwaysPrivate = defaults.AlwaysPrivate
	}
	timeSchemeID := raw.TimeSchemeID
	if timeSchemeID == "" {
		timeSchemeID = defaults.TimeSchemeID
	}

	// Total chunk count: explicit value, then account default, then the
	// larger explicit bound, then a single chunk.
	if bounds.total == nil {
		switch {
		case defaults.TimeChunksRequired != nil:
			total := *defaults.TimeChunksRequired
			bounds.total = &total
		case bounds.min != nil || bounds.max != nil:
			total := 0
			if bounds.min != nil {
				total = *bounds.min
			}
			if bounds.max != nil && *bounds.max > total {
				total = *bounds.max
			}
			bounds.total = &total
		default:
			total := 1
			bounds.total = &total
		}
	}

	if raw.LockToDuration != nil && *raw.LockToDuration {
		bounds.lock()
	} else {
		if bounds.min == nil {
			min := 1
			if defaults.MinChunkSize != nil {
				min = *defaults.MinChunkSize
			}
			bounds.min = &min
		}
		if bounds.max == nil {
			max := *bounds.total
			if defaults.MaxChunkSize != nil {
				max = *defaults.MaxChunkSize
			}
			bounds.max = &max
		}
	}
	bounds.repair()

	fields := reclaim.FieldMap{
		"title":              raw.Title,
		"eventCategory":      category,
		"eventSubType":       subType,
		"timeChunksRequired": *bounds.total,
		"minChunkSize":       *bounds.min,
		"maxChunkSize":       *bounds.max,
	}
	if raw.Notes != "" {
		fields["notes"] = raw.Notes
	}
	if priority != "" {
		fields["priority"] = priority
	}
	if color := CanonicalColor(raw.Color); color != "" {
		fields["eventColor"] = color
	}
	if onDeck != nil {
		fields["onDeck"] = *onDeck
	}
	if alwaysPrivate != nil {
		fields["alwaysPrivate"] = *alwaysPrivate
	}
	if timeSchemeID != "" {
		fields["timeSchemeId"] = timeSchemeID
	}

	if err := resolveTimes(fields, raw, rc, now); err != nil {
		return nil, err
	}

	// Create-at-start derives a due when none was given: start plus the
	// required time, falling back to the default due offset in days,
	// falling back to one day.
	if _, hasDue := fields["due"]; !hasDue && raw.StartAt != "" {
		start, err := localtime.Resolve(raw.StartAt, rc)
		if err != nil {
			return nil, err
		}
		var due time.Time
		if *bounds.total > 0 {
			due = start.Add(time.Duration(*bounds.total) * ChunkDuration)
		} else {
			days := 1
			if defaults.DueInDays != nil && *defaults.DueInDays > 0 {
				days = *defaults.DueInDays
			}
			due = start.Add(time.Duration(days) * 24 * time.Hour)
		}
		fields["due"] = localtime.Format(due)
	}

	return fields, nil
}

// Update normalizes a partial-update field set. Defaults are not injected:
// only fields the caller supplied are converted and forwarded.
func Update(raw RawTask, rc localtime.Context, now time.Time) (reclaim.FieldMap, error) {
	bounds, err := convertDurations(raw)
	if err != nil {
		return nil, err
	}
	if raw.LockToDuration != nil && *raw.LockToDuration {
		bounds.lock()
	}
	bounds.repair()

	fields := reclaim.FieldMap{}
	if raw.Title != "" {
		fields["title"] = raw.Title
	}
	if raw.Notes != "" {
		fields["notes"] = raw.Notes
	}
	if category := CanonicalCategory(raw.Category); category != "" {
		fields["eventCategory"] = category
	}
	if subType := CanonicalSubType(raw.SubType); subType != "" {
		fields["eventSubType"] = subType
	}
	if priority := CanonicalPriority(raw.Priority); priority != "" {
		fields["priority"] = priority
	}
	if color := CanonicalColor(raw.Color); color != "" {
		fields["eventColor"] = color
	}
	if bounds.total != nil {
		fields["timeChunksRequired"] = *bounds.total
	}
	if bounds.min != nil {
		fields["minChunkSize"] = *bounds.min
	}
	if bounds.max != nil {
		fields["maxChunkSize"] = *bounds.max
	}
	if raw.OnDeck != nil {
		fields["onDeck"] = *raw.OnDeck
	}
	if raw.AlwaysPrivate != nil {
		fields["alwaysPrivate"] = *raw.AlwaysPrivate
	}
	if raw.TimeSchemeID != "" {
		fields["timeSchemeId"] = raw.TimeSchemeID
	}

	if err := resolveTimes(fields, raw, rc, now); err != nil {
		return nil, err
	}

	return fields, nil
}

// resolveTimes routes every dated field through the resolver and writes
// the canonical serializations into fields. An explicit due expression
// supersedes the relative-day channel.
func resolveTimes(fields reclaim.FieldMap, raw RawTask, rc localtime.Context, now time.Time) error {
	switch {
	case raw.Due != "":
		due, err := localtime.Resolve(raw.Due, rc)
		if err != nil {
			return err
		}
		fields["due"] = localtime.Format(due)
	case raw.DueInDays != nil:
		fields["due"] = localtime.Format(localtime.ResolveRelativeDays(*raw.DueInDays, now))
	}

	snooze := raw.SnoozeUntil
	if snooze == "" {
		snooze = raw.StartAt
	}
	if snooze != "" {
		t, err := localtime.Resolve(snooze, rc)
		if err != nil {
			return err
		}
		fields["snoozeUntil"] = localtime.Format(t)
	}

	return nil
}
