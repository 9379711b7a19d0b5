package model

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusWaiting   = "waiting"
	StatusDeleted   = "deleted"
)

// Task represents a generic task from any source.
type Task struct {
	ID          string
	Description string
	Tags        []string
	Status      string
	Source      string // "taskwarrior" or "orgmode"
	Project     string
	Urgency     float64
	// Accounting
	Estimate time.Duration
	Spent    time.Duration
	// FixedStart is only meaningful when HasFixedStart is set. Sources may
	// leave a stale value behind (e.g. a date-only plan).
	FixedStart    time.Time
	HasFixedStart bool
}

// Remaining is the estimate minus the time already spent, never below zero.
func (t Task) Remaining() time.Duration {
	if t.Estimate <= t.Spent {
		return 0
	}
	return t.Estimate - t.Spent
}

// IsScheduled reports whether the task is pinned to a fixed start.
func (t Task) IsScheduled() bool {
	return t.HasFixedStart && !t.FixedStart.IsZero()
}

// IsOverdue reports whether a scheduled task's slot ended at or before now.
// A zero now never makes a task overdue.
func (t Task) IsOverdue(now time.Time) bool {
	if now.IsZero() || !t.IsScheduled() {
		return false
	}
	return !t.FixedStart.Add(t.Remaining()).After(now)
}

func (t Task) IsDone() bool {
	return t.Status == StatusCompleted || t.Status == StatusDeleted
}

// Partition drops finished tasks and separates the free-running ones from
// those with a fixed start. Input order is preserved in both results.
func Partition(tasks []Task) (free, scheduled []Task) {
	return PartitionAt(tasks, time.Time{})
}

// PartitionAt is Partition with a scheduled task whose slot has already
// passed at now treated as leftover work: it joins the free tasks.
func PartitionAt(tasks []Task, now time.Time) (free, scheduled []Task) {
	for _, t := range tasks {
		if t.IsDone() {
			continue
		}
		if t.IsScheduled() && !t.IsOverdue(now) {
			scheduled = append(scheduled, t)
		} else {
			free = append(free, t)
		}
	}
	return free, scheduled
}
