package timeline

import (
	"fmt"
	"slices"
	"time"
)

// insertBlocks walks the blocks in start order and pushes the free-task run
// around them, splitting any task that would run into a block. Tasks move
// only as far as a block actually holds them up. The result holds the
// reworked run followed by the entries of every block, unsorted. The free
// entries passed in are not modified.
func insertBlocks(free []Entry, blocks []Block, now time.Time) []Entry {
	run := slices.Clone(free)
	var fixed []Entry

	for _, b := range blocks {
		if !b.Start.After(now) {
			// Already in effect: the run waits for it to finish.
			pushPast(run, 0, b.End)
		} else {
			run = splitAround(run, b)
		}
		fixed = append(fixed, blockEntries(b)...)
	}
	return append(run, fixed...)
}

// splitAround makes room for a block that starts in the future. The first
// entry that is not over by the block's start either starts at or after it
// and waits for the block to end, or runs into it and is split.
func splitAround(run []Entry, b Block) []Entry {
	for i, e := range run {
		switch {
		case !e.Start.Before(b.Start):
			pushPast(run, i, b.End)
			return run
		case e.End().After(b.Start):
			return splitAt(run, i, b)
		}
	}
	return run
}

// pushPast moves run[from:] later so that run[from] starts no earlier than t.
func pushPast(run []Entry, from int, t time.Time) {
	if from >= len(run) {
		return
	}
	if d := t.Sub(run[from].Start); d > 0 {
		shift(run, from, d)
	}
}

// splitAt cuts run[i] at the block's start and continues it after the block.
func splitAt(run []Entry, i int, b Block) []Entry {
	e := run[i]
	consumed := b.Start.Sub(e.Start)
	left := e.Duration - consumed
	taskID := e.TaskID()
	title := e.Title()

	if e.Type == TypeTask {
		e.Type = TypeSplitTask
	}
	e.Duration = consumed
	run[i] = e

	next := 0
	for j := range run {
		c := run[j].Continuation
		if c == nil || c.TaskID != taskID {
			continue
		}
		if run[j].Type == TypeSplitTaskContinuedLast {
			run[j].Type = TypeSplitTaskContinued
		}
		if c.Index >= next {
			next = c.Index + 1
		}
	}

	pushPast(run, i+1, b.End.Add(left))
	cont := Entry{
		ID:       fmt.Sprintf("%s__%d", taskID, next),
		Type:     TypeSplitTaskContinuedLast,
		Start:    b.End,
		Duration: left,
		Continuation: &Continuation{
			Title:    title,
			TimeToGo: left,
			TaskID:   taskID,
			Index:    next,
		},
	}
	return slices.Insert(run, i+1, cont)
}

func shift(run []Entry, from int, d time.Duration) {
	for j := from; j < len(run); j++ {
		run[j].Start = run[j].Start.Add(d)
	}
}

// blockEntries renders the commitments of a block. A non-work window turns
// into a WorkdayEnd at its start and a WorkdayStart at its end.
func blockEntries(b Block) []Entry {
	out := make([]Entry, 0, len(b.Entries))
	for _, c := range b.Entries {
		switch c.Kind {
		case KindScheduledTask:
			out = append(out, Entry{ID: c.ID, Type: TypeScheduledTask, Start: c.Start, Duration: c.Duration(), Task: c.Task, Commitment: &c})
		case KindRepeatProjection:
			out = append(out, Entry{ID: c.ID, Type: TypeScheduledRepeatProjection, Start: c.Start, Duration: c.Duration(), Task: c.Task, Commitment: &c})
		case KindCalendarEvent:
			out = append(out, Entry{ID: c.ID, Type: TypeCalendarEvent, Start: c.Start, Duration: c.Duration(), Commitment: &c})
		case KindLunchBreak:
			out = append(out, Entry{ID: c.ID, Type: TypeLunchBreak, Start: c.Start, Duration: c.Duration(), Commitment: &c})
		case KindNonWorkWindow:
			out = append(out,
				Entry{ID: c.ID + "_end", Type: TypeWorkdayEnd, Start: c.Start, Commitment: &c},
				Entry{ID: c.ID + "_start", Type: TypeWorkdayStart, Start: c.End, Commitment: &c},
			)
		}
	}
	return out
}
