package timeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/harrisonrobin/agenda/pkg/model"
)

// ErrBrokenSequence means a free task ended up with neither a predecessor
// nor a start instant to be placed at.
var ErrBrokenSequence = errors.New("free task has no predecessor and no start")

// Sequence lays the free tasks out back to back from start, ignoring any
// commitments. A task with nothing left to do shares its start with the
// next one, which is then flagged IsHideTime.
func Sequence(start time.Time, tasks []model.Task) ([]Entry, error) {
	if len(tasks) == 0 {
		return nil, nil
	}
	if start.IsZero() {
		return nil, fmt.Errorf("%w: task %s", ErrBrokenSequence, tasks[0].ID)
	}

	entries := make([]Entry, 0, len(tasks))
	at := start
	for i, t := range tasks {
		hide := false
		if i > 0 {
			prev := tasks[i-1].Remaining()
			at = at.Add(prev)
			hide = prev == 0
		}
		entries = append(entries, Entry{
			ID:         t.ID,
			Type:       TypeTask,
			Start:      at,
			IsHideTime: hide,
			Duration:   t.Remaining(),
			Task:       &t,
		})
	}
	return entries, nil
}

// currentFirst moves the task with the given id to the head of the list.
func currentFirst(tasks []model.Task, id string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == id {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return tasks
	}
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
