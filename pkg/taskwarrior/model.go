package taskwarrior

import (
	"fmt"
	"strings"
	"time"
)

const (
	PENDING   = "pending"
	COMPLETED = "completed"
	WAITING   = "waiting"
	DELETED   = "deleted"
)

type CustomTime struct {
	time.Time
}

const taskwarriorTimeLayout = "20060102T150405Z" // YYYYMMDDTHHMMSSZ, 'Z' indicates UTC

// UnmarshalJSON implements the json.Unmarshaler interface for CustomTime.
func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "0" {
		ct.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(taskwarriorTimeLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse Taskwarrior time string '%s': %w", s, err)
	}
	ct.Time = t
	return nil
}

// MarshalJSON implements the json.Marshaler interface for CustomTime.
func (ct CustomTime) MarshalJSON() ([]byte, error) {
	if ct.Time.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ct.Time.UTC().Format(taskwarriorTimeLayout) + `"`), nil
}

func (ct *CustomTime) isSet() bool {
	return ct != nil && !ct.Time.IsZero()
}

type Task struct {
	UUID        string      `json:"uuid"`
	Description string      `json:"description"`
	Due         *CustomTime `json:"due,omitempty"`
	Scheduled   *CustomTime `json:"scheduled,omitempty"`
	Status      string      `json:"status"`
	Project     string      `json:"project,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Urgency     float64     `json:"urgency,omitempty"`
	// Start is set while the task is being worked on.
	Start *CustomTime `json:"start,omitempty"`
	End   *CustomTime `json:"end,omitempty"`
	// UDAs: uda.estimate.label=est, uda.actual.label=act, ISO 8601 durations.
	Est string `json:"est,omitempty"`
	Act string `json:"act,omitempty"`
}
