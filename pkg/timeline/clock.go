package timeline

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidClockString is returned for anything that is not H:MM or HH:MM
// with hour 0-23 and minute 0-59.
var ErrInvalidClockString = errors.New("invalid clock string")

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})$`)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "9:00" or "09:00" style strings.
func ParseClock(s string) (Clock, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClockString, s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: %q out of range", ErrInvalidClockString, s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// On returns the instant at this wall-clock time on the calendar day of ref,
// in ref's location. Seconds and below are zeroed.
func (c Clock) On(ref time.Time) time.Time {
	y, m, d := ref.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, ref.Location())
}

func (c Clock) String() string {
	return fmt.Sprintf("%d:%02d", c.Hour, c.Minute)
}

// ResolveClock turns a clock string into an instant on ref's day.
func ResolveClock(s string, ref time.Time) (time.Time, error) {
	c, err := ParseClock(s)
	if err != nil {
		return time.Time{}, err
	}
	return c.On(ref), nil
}

// Window is a daily wall-clock range such as work hours or a lunch break.
type Window struct {
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

func (w Window) clocks() (start, end Clock, err error) {
	if start, err = ParseClock(w.Start); err != nil {
		return Clock{}, Clock{}, err
	}
	if end, err = ParseClock(w.End); err != nil {
		return Clock{}, Clock{}, err
	}
	return start, end, nil
}

// Validate checks both clock strings.
func (w Window) Validate() error {
	_, _, err := w.clocks()
	return err
}
