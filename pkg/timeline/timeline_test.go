package timeline

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/harrisonrobin/agenda/pkg/model"
)

func TestBuildEmpty(t *testing.T) {
	t.Parallel()
	entries, err := Build(Input{
		WorkHours: &Window{Start: "9:00", End: "17:00"},
		Now:       at(9, 0),
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("Expected no entries, got %v", types(entries))
	}
}

func TestBuildRequiresReferenceInstant(t *testing.T) {
	t.Parallel()
	_, err := Build(Input{FreeTasks: []model.Task{freeTask("a", hours(1))}})
	if !errors.Is(err, ErrNoReferenceInstant) {
		t.Fatalf("Build error = %v, want ErrNoReferenceInstant", err)
	}
}

func TestBuildSingleFreeTask(t *testing.T) {
	t.Parallel()
	entries, err := Build(Input{
		FreeTasks: []model.Task{freeTask("a", hours(2))},
		Now:       at(9, 0),
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if e := entries[0]; e.Type != TypeTask || !e.Start.Equal(at(9, 0)) || e.IsHideTime {
		t.Errorf("Unexpected entry %+v", e)
	}
}

func TestBuildSplitsAroundScheduledTask(t *testing.T) {
	t.Parallel()
	entries, err := Build(Input{
		FreeTasks:   []model.Task{freeTask("a", hours(4))},
		Commitments: FromScheduledTasks([]model.Task{scheduledTask("s", at(10, 0), hours(1))}),
		Now:         at(9, 0),
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %v", types(entries))
	}

	if e := entries[0]; e.Type != TypeSplitTask || !e.Start.Equal(at(9, 0)) {
		t.Errorf("entry 0 = %v at %v, want SplitTask at 9:00", e.Type, e.Start)
	}
	if e := entries[1]; e.Type != TypeScheduledTask || !e.Start.Equal(at(10, 0)) {
		t.Errorf("entry 1 = %v at %v, want ScheduledTask at 10:00", e.Type, e.Start)
	}
	e := entries[2]
	if e.Type != TypeSplitTaskContinuedLast || !e.Start.Equal(at(11, 0)) {
		t.Errorf("entry 2 = %v at %v, want SplitTaskContinuedLast at 11:00", e.Type, e.Start)
	}
	if e.Continuation == nil || e.Continuation.TimeToGo != hours(3) {
		t.Fatalf("Expected 3h to go, got %+v", e.Continuation)
	}
	if e.Continuation.TaskID != "a" || e.Continuation.Index != 0 || e.ID != "a__0" {
		t.Errorf("Unexpected continuation %+v (id %s)", e.Continuation, e.ID)
	}
}

func TestBuildSplitsAcrossWorkdays(t *testing.T) {
	t.Parallel()
	entries, err := Build(Input{
		FreeTasks: []model.Task{freeTask("big", hours(20))},
		WorkHours: &Window{Start: "9:00", End: "17:00"},
		Now:       at(9, 0),
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	want := []EntryType{
		TypeSplitTask,
		TypeWorkdayEnd, TypeWorkdayStart,
		TypeSplitTaskContinued,
		TypeWorkdayEnd, TypeWorkdayStart,
		TypeSplitTaskContinuedLast,
	}
	if got := types(entries); !reflect.DeepEqual(got, want) {
		t.Fatalf("types = %v, want %v", got, want)
	}
	if got := workDuration(entries, "big"); got != hours(20) {
		t.Errorf("work for big = %v, want 20h", got)
	}

	last := entries[len(entries)-1]
	if !last.Start.Equal(onDay(2, 9, 0)) || last.Continuation.TimeToGo != hours(4) || last.Continuation.Index != 1 {
		t.Errorf("Unexpected last continuation %+v at %v", last.Continuation, last.Start)
	}

	crossings := 0
	for _, e := range entries {
		if e.Type == TypeDayCrossing {
			crossings++
		}
	}
	if crossings != 2 {
		t.Errorf("Expected 2 day crossings, got %d", crossings)
	}
}

func TestBuildInvalidWorkHours(t *testing.T) {
	t.Parallel()
	entries, err := Build(Input{
		FreeTasks: []model.Task{freeTask("a", hours(1))},
		WorkHours: &Window{Start: "25:00", End: "17:00"},
		Now:       at(9, 0),
	})
	if !errors.Is(err, ErrInvalidClockString) {
		t.Fatalf("Build error = %v, want ErrInvalidClockString", err)
	}
	if entries != nil {
		t.Fatalf("Expected no entries on error, got %d", len(entries))
	}

	_, err = Build(Input{
		FreeTasks:  []model.Task{freeTask("a", hours(1))},
		LunchBreak: &Window{Start: "12:00", End: "1300"},
		Now:        at(9, 0),
	})
	if !errors.Is(err, ErrInvalidClockString) {
		t.Fatalf("Build error = %v, want ErrInvalidClockString", err)
	}
}

func TestBuildStartsAtWorkStart(t *testing.T) {
	t.Parallel()
	entries, err := Build(Input{
		FreeTasks: []model.Task{freeTask("a", hours(1))},
		WorkHours: &Window{Start: "9:00", End: "17:00"},
		Now:       at(7, 0),
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if entries[0].Type != TypeTask || !entries[0].Start.Equal(at(9, 0)) {
		t.Fatalf("Expected task at 9:00, got %v at %v", entries[0].Type, entries[0].Start)
	}
	if got := types(entries); !reflect.DeepEqual(got, []EntryType{TypeTask, TypeWorkdayEnd}) {
		t.Errorf("types = %v", got)
	}
}

func TestBuildWorkStartWithEarlyCommitments(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		start     time.Time
		duration  time.Duration
		wantStart time.Time
		wantCont  time.Time
	}{
		{name: "ends before work start", start: at(7, 30), duration: 30 * time.Minute, wantStart: at(9, 0)},
		{name: "running at now, ends before work start", start: at(6, 0), duration: hours(2), wantStart: at(9, 0)},
		{name: "running at now, ends after work start", start: at(6, 0), duration: 3*time.Hour + 30*time.Minute, wantStart: at(9, 30)},
		{name: "overlaps work start", start: at(8, 30), duration: hours(1), wantStart: at(9, 30)},
		{name: "starts inside the first task", start: at(9, 30), duration: 30 * time.Minute, wantStart: at(9, 0), wantCont: at(10, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			entries, err := Build(Input{
				FreeTasks: []model.Task{freeTask("a", hours(1))},
				Commitments: FromCalendarItems([]CalendarItem{
					{ID: "event", Title: "Event", Start: tt.start, Duration: tt.duration},
				}),
				WorkHours: &Window{Start: "9:00", End: "17:00"},
				Now:       at(7, 0),
			})
			if err != nil {
				t.Fatalf("Build error: %v", err)
			}

			var first, cont *Entry
			for i := range entries {
				switch entries[i].ID {
				case "a":
					first = &entries[i]
				case "a__0":
					cont = &entries[i]
				}
			}
			if first == nil || !first.Start.Equal(tt.wantStart) {
				t.Fatalf("Expected a at %v, got %+v (types %v)", tt.wantStart, first, types(entries))
			}
			if tt.wantCont.IsZero() {
				if cont != nil || first.Type != TypeTask {
					t.Errorf("Expected no split, got types %v", types(entries))
				}
			} else if cont == nil || !cont.Start.Equal(tt.wantCont) || first.Type != TypeSplitTask {
				t.Errorf("Expected continuation at %v, got %+v", tt.wantCont, cont)
			}
			if got := workDuration(entries, "a"); got != hours(1) {
				t.Errorf("work for a = %v, want 1h", got)
			}
		})
	}
}

func TestBuildConsecutiveBlocks(t *testing.T) {
	t.Parallel()
	entries, err := Build(Input{
		FreeTasks: []model.Task{freeTask("a", hours(1)), freeTask("b", hours(1))},
		Commitments: FromCalendarItems([]CalendarItem{
			{ID: "gap", Title: "Gap", Start: at(10, 0), Duration: 30 * time.Minute},
			{ID: "short", Title: "Short", Start: at(10, 45), Duration: 15 * time.Minute},
		}),
		Now: at(9, 0),
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	// b waits for the first event, then runs into the second and continues
	// after it.
	for _, e := range entries {
		if e.ID == "b" {
			if e.Type != TypeSplitTask || !e.Start.Equal(at(10, 30)) {
				t.Errorf("Expected b split at 10:30, got %v at %v", e.Type, e.Start)
			}
		}
		if e.ID == "b__0" && !e.Start.Equal(at(11, 0)) {
			t.Errorf("Expected b to continue at 11:00, got %v", e.Start)
		}
	}
	if got := workDuration(entries, "b"); got != hours(1) {
		t.Errorf("work for b = %v, want 1h", got)
	}
}

func TestBuildAfterHoursWaitsForNextWorkday(t *testing.T) {
	t.Parallel()
	entries, err := Build(Input{
		FreeTasks: []model.Task{freeTask("a", hours(2))},
		WorkHours: &Window{Start: "9:00", End: "17:00"},
		Now:       at(20, 0),
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if got := types(entries); !reflect.DeepEqual(got, []EntryType{TypeWorkdayStart, TypeTask}) {
		t.Fatalf("types = %v", got)
	}
	for _, e := range entries {
		if e.ID == "a" && !e.Start.Equal(onDay(1, 9, 0)) {
			t.Errorf("Expected a to start Tuesday 9:00, got %v", e.Start)
		}
	}
}

func TestBuildRunningCommitmentDelaysTasks(t *testing.T) {
	t.Parallel()
	entries, err := Build(Input{
		FreeTasks: []model.Task{freeTask("a", hours(1))},
		Commitments: FromCalendarItems([]CalendarItem{
			{ID: "call", Title: "Call", Start: at(8, 30), Duration: hours(1)},
		}),
		Now: at(9, 0),
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if got := types(entries); !reflect.DeepEqual(got, []EntryType{TypeCalendarEvent, TypeTask}) {
		t.Fatalf("types = %v", got)
	}
	if !entries[1].Start.Equal(at(9, 30)) {
		t.Errorf("Expected task at 9:30, got %v", entries[1].Start)
	}
}

func TestBuildBlockStartingNowIsInEffect(t *testing.T) {
	t.Parallel()
	entries, err := Build(Input{
		FreeTasks:   []model.Task{freeTask("a", hours(2))},
		Commitments: FromScheduledTasks([]model.Task{scheduledTask("s", at(9, 0), hours(1))}),
		Now:         at(9, 0),
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	for _, e := range entries {
		if e.Type == TypeSplitTask || e.Type.IsContinuation() {
			t.Fatalf("Expected no split, got %v", types(entries))
		}
	}
	if got := types(entries); !reflect.DeepEqual(got, []EntryType{TypeScheduledTask, TypeTask}) {
		t.Fatalf("types = %v", got)
	}
	if !entries[1].Start.Equal(at(10, 0)) {
		t.Errorf("Expected task at 10:00, got %v", entries[1].Start)
	}
}

func TestBuildFullDay(t *testing.T) {
	t.Parallel()
	in := Input{
		FreeTasks: []model.Task{freeTask("a", hours(2)), freeTask("b", hours(3))},
		Commitments: FromCalendarItems([]CalendarItem{
			{ID: "standup", Title: "Standup", Start: at(10, 30), Duration: 30 * time.Minute},
		}),
		WorkHours:  &Window{Start: "9:00", End: "17:00"},
		LunchBreak: &Window{Start: "12:00", End: "13:00"},
		Now:        at(9, 0),
	}
	entries, err := Build(in)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	want := []struct {
		typ   EntryType
		id    string
		start time.Time
	}{
		{TypeSplitTask, "a", at(9, 0)},
		{TypeCalendarEvent, "standup", at(10, 30)},
		{TypeSplitTaskContinuedLast, "a__0", at(11, 0)},
		{TypeSplitTask, "b", at(11, 30)},
		{TypeLunchBreak, "lunch_2024-03-04", at(12, 0)},
		{TypeSplitTaskContinuedLast, "b__0", at(13, 0)},
	}
	if len(entries) != len(want) {
		t.Fatalf("types = %v", types(entries))
	}
	for i, w := range want {
		e := entries[i]
		if e.Type != w.typ || e.ID != w.id || !e.Start.Equal(w.start) {
			t.Errorf("entry %d = %v %s %v, want %v %s %v", i, e.Type, e.ID, e.Start, w.typ, w.id, w.start)
		}
	}
	for _, task := range in.FreeTasks {
		if got := workDuration(entries, task.ID); got != task.Remaining() {
			t.Errorf("work for %s = %v, want %v", task.ID, got, task.Remaining())
		}
	}
}

func TestBuildPinsCurrentTask(t *testing.T) {
	t.Parallel()
	entries, err := Build(Input{
		FreeTasks:     []model.Task{freeTask("a", hours(1)), freeTask("b", hours(1))},
		CurrentTaskID: "b",
		Now:           at(9, 0),
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if entries[0].ID != "b" || !entries[0].Start.Equal(at(8, 50)) {
		t.Fatalf("Expected b pinned at 8:50, got %s at %v", entries[0].ID, entries[0].Start)
	}
	if entries[1].ID != "a" || !entries[1].Start.Equal(at(10, 0)) {
		t.Fatalf("Expected a at 10:00, got %s at %v", entries[1].ID, entries[1].Start)
	}
}

func TestBuildCurrentTaskIgnoresWorkStart(t *testing.T) {
	t.Parallel()
	entries, err := Build(Input{
		FreeTasks:     []model.Task{freeTask("a", hours(1)), freeTask("b", hours(1))},
		WorkHours:     &Window{Start: "9:00", End: "17:00"},
		CurrentTaskID: "a",
		CurrentOffset: 5 * time.Minute,
		Now:           at(7, 0),
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if entries[0].ID != "a" || !entries[0].Start.Equal(at(6, 55)) {
		t.Fatalf("Expected a pinned at 6:55, got %s at %v", entries[0].ID, entries[0].Start)
	}
	if entries[1].ID != "b" || !entries[1].Start.Equal(at(8, 0)) {
		t.Fatalf("Expected b at 8:00, got %s at %v", entries[1].ID, entries[1].Start)
	}
}

func TestBuildRepeatProjections(t *testing.T) {
	t.Parallel()
	standup := model.Task{ID: "standup", Description: "Standup", Estimate: 15 * time.Minute}
	entries, err := Build(Input{
		FreeTasks: []model.Task{freeTask("a", hours(2))},
		Commitments: FromProjections([]Projection{
			{Task: standup, Start: at(9, 30)},
			{Task: standup, Start: onDay(1, 9, 30)},
		}),
		Now: at(9, 0),
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	want := []EntryType{TypeSplitTask, TypeScheduledRepeatProjection, TypeSplitTaskContinuedLast, TypeScheduledRepeatProjection}
	if got := types(entries); !reflect.DeepEqual(got, want) {
		t.Fatalf("types = %v, want %v", got, want)
	}
	if entries[1].ID != "standup_20240304T0930" {
		t.Errorf("Unexpected projection id %s", entries[1].ID)
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	tasks := []model.Task{freeTask("a", hours(4))}
	commitments := FromScheduledTasks([]model.Task{scheduledTask("s", at(10, 0), hours(1))})
	before := commitments[0]

	for i := 0; i < 2; i++ {
		entries, err := Build(Input{FreeTasks: tasks, Commitments: commitments, Now: at(9, 0)})
		if err != nil {
			t.Fatalf("Build error: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("run %d: types = %v", i, types(entries))
		}
	}
	if commitments[0].Start != before.Start || commitments[0].End != before.End || tasks[0].ID != "a" {
		t.Fatal("Build modified its input")
	}
}

func TestBuildDeterministic(t *testing.T) {
	t.Parallel()
	in := Input{
		FreeTasks:   []model.Task{freeTask("a", hours(5)), freeTask("b", hours(7))},
		Commitments: FromScheduledTasks([]model.Task{scheduledTask("s", at(11, 0), hours(1))}),
		WorkHours:   &Window{Start: "8:30", End: "16:30"},
		Now:         at(9, 15),
	}
	first, err := Build(in)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	second, _ := Build(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("Expected identical output for identical input")
	}
	for _, task := range in.FreeTasks {
		if got := workDuration(first, task.ID); got != task.Remaining() {
			t.Errorf("work for %s = %v, want %v", task.ID, got, task.Remaining())
		}
	}
}
