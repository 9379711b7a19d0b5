package timeline

import (
	"fmt"
	"time"

	"github.com/harrisonrobin/agenda/pkg/model"
)

// SourceKind tells where a fixed commitment came from.
type SourceKind int

const (
	KindScheduledTask SourceKind = iota
	KindRepeatProjection
	KindCalendarEvent
	KindNonWorkWindow
	KindLunchBreak
)

func (k SourceKind) String() string {
	switch k {
	case KindScheduledTask:
		return "scheduled-task"
	case KindRepeatProjection:
		return "repeat-projection"
	case KindCalendarEvent:
		return "calendar-event"
	case KindNonWorkWindow:
		return "non-work-window"
	case KindLunchBreak:
		return "lunch-break"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// EntryType is the rendering type of a timeline entry.
type EntryType int

const (
	TypeTask EntryType = iota
	TypeScheduledTask
	TypeSplitTask
	TypeSplitTaskContinued
	TypeSplitTaskContinuedLast
	TypeCalendarEvent
	TypeWorkdayStart
	TypeWorkdayEnd
	TypeDayCrossing
	TypeScheduledRepeatProjection
	TypeLunchBreak
)

var entryTypeNames = map[EntryType]string{
	TypeTask:                      "Task",
	TypeScheduledTask:             "ScheduledTask",
	TypeSplitTask:                 "SplitTask",
	TypeSplitTaskContinued:        "SplitTaskContinued",
	TypeSplitTaskContinuedLast:    "SplitTaskContinuedLast",
	TypeCalendarEvent:             "CalendarEvent",
	TypeWorkdayStart:              "WorkdayStart",
	TypeWorkdayEnd:                "WorkdayEnd",
	TypeDayCrossing:               "DayCrossing",
	TypeScheduledRepeatProjection: "ScheduledRepeatTaskProjection",
	TypeLunchBreak:                "LunchBreak",
}

func (t EntryType) String() string {
	if s, ok := entryTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("EntryType(%d)", int(t))
}

// IsContinuation reports whether the type is a synthetic split remainder.
func (t EntryType) IsContinuation() bool {
	return t == TypeSplitTaskContinued || t == TypeSplitTaskContinuedLast
}

// IsWorkday reports whether the type is a work-day boundary marker.
func (t EntryType) IsWorkday() bool {
	return t == TypeWorkdayStart || t == TypeWorkdayEnd
}

// CalendarItem is an already fetched, time-zone resolved calendar event.
type CalendarItem struct {
	ID       string
	Title    string
	Icon     string
	Start    time.Time
	Duration time.Duration
}

// Projection is one materialized occurrence of a recurring task.
type Projection struct {
	Task  model.Task
	Start time.Time
}

// Commitment is a fixed [Start, End) interval that free tasks must flow
// around. End is never before Start; a zero length marks a single instant.
type Commitment struct {
	Start time.Time
	End   time.Time
	Kind  SourceKind
	ID    string
	Title string
	Icon  string
	// Task is set for scheduled tasks and repeat projections.
	Task *model.Task
}

func (c Commitment) Duration() time.Duration {
	return c.End.Sub(c.Start)
}

// Block is a merged busy interval. Start and End are the min start and max
// end of its entries.
type Block struct {
	Start   time.Time
	End     time.Time
	Entries []Commitment
}

func (b Block) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// Continuation is the remainder of a task interrupted by a block.
type Continuation struct {
	Title    string
	TimeToGo time.Duration
	TaskID   string
	Index    int
}

// Entry is one rendered line of the timeline.
type Entry struct {
	ID         string
	Type       EntryType
	Start      time.Time
	IsHideTime bool
	// Duration is the share of work or busy time that sits in this slot.
	Duration time.Duration

	Task         *model.Task
	Continuation *Continuation
	Commitment   *Commitment
}

func (e Entry) End() time.Time {
	return e.Start.Add(e.Duration)
}

// TaskID returns the id of the task an entry belongs to, or "".
func (e Entry) TaskID() string {
	switch {
	case e.Continuation != nil:
		return e.Continuation.TaskID
	case e.Task != nil:
		return e.Task.ID
	}
	return ""
}

func (e Entry) Title() string {
	switch {
	case e.Continuation != nil:
		return e.Continuation.Title
	case e.Task != nil:
		return e.Task.Description
	case e.Commitment != nil:
		return e.Commitment.Title
	}
	return ""
}

// isFree reports whether the entry belongs to the free-running task flow.
func (e Entry) isFree() bool {
	return e.Type == TypeTask || e.Type == TypeSplitTask || e.Type.IsContinuation()
}
