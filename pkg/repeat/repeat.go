// Package repeat materializes recurring commitments declared as cron
// expressions into concrete occurrences for the timeline.
package repeat

import (
	"fmt"
	"time"

	"github.com/harrisonrobin/agenda/pkg/model"
	"github.com/harrisonrobin/agenda/pkg/timeline"
	"github.com/robfig/cron/v3"
)

// maxOccurrences bounds a single rule so "* * * * *" cannot flood the timeline.
const maxOccurrences = 500

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Rule is one recurring commitment.
type Rule struct {
	ID       string
	Title    string
	Project  string
	Cron     string
	Duration time.Duration
}

// Validate checks the cron expression.
func (r Rule) Validate() error {
	if _, err := parser.Parse(r.Cron); err != nil {
		return fmt.Errorf("repeat %s: invalid cron %q: %w", r.ID, r.Cron, err)
	}
	return nil
}

func (r Rule) task() model.Task {
	return model.Task{
		ID:          r.ID,
		Description: r.Title,
		Project:     r.Project,
		Status:      model.StatusPending,
		Source:      "repeat",
		Estimate:    r.Duration,
	}
}

// Expand returns the occurrences of every rule that are still relevant in
// [from, from+days). An occurrence already running at from is kept; one
// that has ended is not. Schedules are evaluated in from's location.
func Expand(rules []Rule, from time.Time, days int) ([]timeline.Projection, error) {
	until := from.AddDate(0, 0, days)

	var out []timeline.Projection
	for _, r := range rules {
		sched, err := parser.Parse(r.Cron)
		if err != nil {
			return nil, fmt.Errorf("repeat %s: invalid cron %q: %w", r.ID, r.Cron, err)
		}
		task := r.task()

		cursor := from.Add(-r.Duration).Add(-time.Second)
		for n := 0; n < maxOccurrences; n++ {
			next := sched.Next(cursor)
			if next.IsZero() || !next.Before(until) {
				break
			}
			cursor = next
			end := next.Add(r.Duration)
			if end.After(from) || (r.Duration == 0 && !next.Before(from)) {
				out = append(out, timeline.Projection{Task: task, Start: next})
			}
		}
	}
	return out, nil
}
