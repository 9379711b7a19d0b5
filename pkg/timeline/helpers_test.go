package timeline

import (
	"time"

	"github.com/harrisonrobin/agenda/pkg/model"
)

// monday is 2024-03-04 00:00 UTC.
var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return monday.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func onDay(day, h, m int) time.Time {
	return at(h, m).AddDate(0, 0, day)
}

func hours(n int) time.Duration {
	return time.Duration(n) * time.Hour
}

func freeTask(id string, estimate time.Duration) model.Task {
	return model.Task{ID: id, Description: id, Status: model.StatusPending, Estimate: estimate}
}

func scheduledTask(id string, start time.Time, estimate time.Duration) model.Task {
	t := freeTask(id, estimate)
	t.FixedStart = start
	t.HasFixedStart = true
	return t
}

func types(entries []Entry) []EntryType {
	out := make([]EntryType, 0, len(entries))
	for _, e := range entries {
		if e.Type == TypeDayCrossing {
			continue
		}
		out = append(out, e.Type)
	}
	return out
}

func workDuration(entries []Entry, taskID string) time.Duration {
	var total time.Duration
	for _, e := range entries {
		if e.isFree() && e.TaskID() == taskID {
			total += e.Duration
		}
	}
	return total
}
