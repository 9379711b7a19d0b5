package taskwarrior

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var durationPart = regexp.MustCompile(`(\d+)([HMS])`)

// ParseDuration parses the ISO 8601 time durations (PT1H30M) Taskwarrior
// exports for duration UDAs. An empty string is a zero duration.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	if len(s) < 2 || s[0] != 'P' {
		return 0, fmt.Errorf("invalid ISO 8601 duration format: %s", s)
	}
	rest := s[1:]
	if len(rest) == 0 || rest[0] != 'T' {
		return 0, fmt.Errorf("invalid ISO 8601 duration (missing T): %s", s)
	}
	rest = rest[1:]

	var total time.Duration
	matched := 0
	for _, match := range durationPart.FindAllStringSubmatch(rest, -1) {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			return 0, fmt.Errorf("invalid ISO 8601 duration %s: %w", s, err)
		}
		matched += len(match[0])
		switch match[2] {
		case "H":
			total += time.Duration(value) * time.Hour
		case "M":
			total += time.Duration(value) * time.Minute
		case "S":
			total += time.Duration(value) * time.Second
		}
	}
	if matched == 0 || matched != len(rest) {
		return 0, fmt.Errorf("invalid ISO 8601 duration: %s", s)
	}
	return total, nil
}
