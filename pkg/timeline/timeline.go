// Package timeline turns a snapshot of tasks and fixed commitments into an
// ordered list of what happens when, starting at a reference instant.
//
// Build is a pure function: no I/O, no clocks, no shared state. Callers pass
// the reference instant explicitly and get a fresh slice every call.
package timeline

import (
	"errors"
	"slices"
	"time"

	"github.com/harrisonrobin/agenda/pkg/model"
)

// ErrNoReferenceInstant is returned when Input.Now is unset.
var ErrNoReferenceInstant = errors.New("reference instant is required")

// Input is the snapshot the timeline is built from.
type Input struct {
	// FreeTasks run back to back in the given order.
	FreeTasks []model.Task
	// Commitments are scheduled tasks, repeat projections and calendar
	// items. See FromScheduledTasks, FromProjections, FromCalendarItems.
	Commitments []Commitment

	WorkHours  *Window
	LunchBreak *Window

	CurrentTaskID string
	// CurrentOffset defaults to DefaultCurrentOffset.
	CurrentOffset time.Duration

	Now time.Time
}

// Build computes the timeline. Invalid work-hour or lunch clocks fail the
// whole call with an error wrapping ErrInvalidClockString.
func Build(in Input) ([]Entry, error) {
	if in.Now.IsZero() {
		return nil, ErrNoReferenceInstant
	}
	workdays, err := NonWorkWindows(in.Now, in.WorkHours, LookAheadDays)
	if err != nil {
		return nil, err
	}
	lunches, err := LunchBreaks(in.Now, in.LunchBreak, LookAheadDays)
	if err != nil {
		return nil, err
	}
	if len(in.FreeTasks) == 0 && len(in.Commitments) == 0 {
		return nil, nil
	}

	start := in.Now
	if in.WorkHours != nil && in.CurrentTaskID == "" {
		workStart, err := ResolveClock(in.WorkHours.Start, in.Now)
		if err != nil {
			return nil, err
		}
		if workStart.After(in.Now) {
			start = workStart
		}
	}

	tasks := in.FreeTasks
	if in.CurrentTaskID != "" {
		tasks = currentFirst(tasks, in.CurrentTaskID)
	}
	free, err := Sequence(start, tasks)
	if err != nil {
		return nil, err
	}

	blocks := Merge(slices.Concat(in.Commitments, workdays, lunches))
	entries := insertBlocks(free, blocks, in.Now)

	sortEntries(entries)
	if in.CurrentTaskID != "" {
		offset := in.CurrentOffset
		if offset == 0 {
			offset = DefaultCurrentOffset
		}
		entries = pinCurrent(entries, in.CurrentTaskID, in.Now, offset)
	}
	entries = trimBoundaries(entries)
	entries = collapseEmptyWorkdays(entries)
	return insertDayCrossings(entries, in.Now), nil
}
