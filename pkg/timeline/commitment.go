package timeline

import (
	"fmt"
	"time"

	"github.com/harrisonrobin/agenda/pkg/model"
)

// LookAheadDays is how many calendar days of non-work windows and lunch
// breaks are generated from the reference instant.
const LookAheadDays = 8

// FromScheduledTasks turns every scheduled task into a commitment lasting its
// remaining duration. Tasks without a fixed start are skipped.
func FromScheduledTasks(tasks []model.Task) []Commitment {
	var out []Commitment
	for _, t := range tasks {
		if !t.IsScheduled() {
			continue
		}
		out = append(out, Commitment{
			Start: t.FixedStart,
			End:   t.FixedStart.Add(t.Remaining()),
			Kind:  KindScheduledTask,
			ID:    t.ID,
			Title: t.Description,
			Task:  &t,
		})
	}
	return out
}

// FromProjections applies the scheduled-task rule to each occurrence.
func FromProjections(projections []Projection) []Commitment {
	out := make([]Commitment, 0, len(projections))
	for _, p := range projections {
		task := p.Task
		out = append(out, Commitment{
			Start: p.Start,
			End:   p.Start.Add(task.Remaining()),
			Kind:  KindRepeatProjection,
			ID:    fmt.Sprintf("%s_%s", task.ID, p.Start.Format("20060102T1504")),
			Title: task.Description,
			Task:  &task,
		})
	}
	return out
}

func FromCalendarItems(items []CalendarItem) []Commitment {
	out := make([]Commitment, 0, len(items))
	for _, item := range items {
		d := item.Duration
		if d < 0 {
			d = 0
		}
		out = append(out, Commitment{
			Start: item.Start,
			End:   item.Start.Add(d),
			Kind:  KindCalendarEvent,
			ID:    item.ID,
			Title: item.Title,
			Icon:  item.Icon,
		})
	}
	return out
}

// NonWorkWindows emits one commitment per day from that day's work end to
// the next work start. A nil policy contributes nothing.
func NonWorkWindows(now time.Time, policy *Window, days int) ([]Commitment, error) {
	if policy == nil {
		return nil, nil
	}
	start, end, err := policy.clocks()
	if err != nil {
		return nil, fmt.Errorf("work hours: %w", err)
	}

	out := make([]Commitment, 0, days)
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, i)
		from := end.On(day)
		to := start.On(day)
		if !to.After(from) {
			to = start.On(day.AddDate(0, 0, 1))
		}
		out = append(out, Commitment{
			Start: from,
			End:   to,
			Kind:  KindNonWorkWindow,
			ID:    "workday_" + day.Format("2006-01-02"),
		})
	}
	return out, nil
}

// LunchBreaks emits one commitment per day for the lunch window.
func LunchBreaks(now time.Time, policy *Window, days int) ([]Commitment, error) {
	if policy == nil {
		return nil, nil
	}
	start, end, err := policy.clocks()
	if err != nil {
		return nil, fmt.Errorf("lunch break: %w", err)
	}

	out := make([]Commitment, 0, days)
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, i)
		from, to := start.On(day), end.On(day)
		if to.Before(from) {
			to = from
		}
		out = append(out, Commitment{
			Start: from,
			End:   to,
			Kind:  KindLunchBreak,
			ID:    "lunch_" + day.Format("2006-01-02"),
			Title: "Lunch break",
		})
	}
	return out, nil
}
