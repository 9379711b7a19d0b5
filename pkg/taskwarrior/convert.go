package taskwarrior

import (
	"sort"
	"time"

	"github.com/harrisonrobin/agenda/pkg/model"
)

// ToModel converts a Taskwarrior task. A scheduled date without a time of
// day (exported as local midnight) is a plan for the day, not an
// appointment: it is kept as FixedStart but not marked as fixed.
func ToModel(t Task, loc *time.Location) model.Task {
	est, _ := ParseDuration(t.Est)
	act, _ := ParseDuration(t.Act)

	m := model.Task{
		ID:          t.UUID,
		Description: t.Description,
		Tags:        t.Tags,
		Status:      t.Status,
		Source:      "taskwarrior",
		Project:     t.Project,
		Urgency:     t.Urgency,
		Estimate:    est,
		Spent:       act,
	}
	if t.Scheduled.isSet() {
		local := t.Scheduled.Time.In(loc)
		m.FixedStart = local
		m.HasFixedStart = local.Hour() != 0 || local.Minute() != 0
	}
	return m
}

// ToModels converts all tasks, skipping those that are not pending.
func ToModels(tasks []Task, loc *time.Location) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != PENDING {
			continue
		}
		out = append(out, ToModel(t, loc))
	}
	return out
}

// ActiveID returns the UUID of the started pending task, if any. When more
// than one is started the most recently started wins.
func ActiveID(tasks []Task) string {
	var id string
	var latest time.Time
	for _, t := range tasks {
		if t.Status != PENDING || !t.Start.isSet() {
			continue
		}
		if id == "" || t.Start.Time.After(latest) {
			id, latest = t.UUID, t.Start.Time
		}
	}
	return id
}

// SortByUrgency orders tasks by descending urgency, keeping input order for ties.
func SortByUrgency(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Urgency > tasks[j].Urgency
	})
}
