package orgmode

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/harrisonrobin/agenda/pkg/model"
	"github.com/spf13/afero"
)

const (
	orgDateTime = "2006-01-02 Mon 15:04"
	orgDate     = "2006-01-02 Mon"
)

var (
	headingRegex   = regexp.MustCompile(`^\*+\s+(TODO|DONE)\s*(?:\[#([A-Z])\])?\s*(.*?)(?:\s+(:(?:[\w@]+:)+))?\s*$`)
	scheduledRegex = regexp.MustCompile(`SCHEDULED:\s+<(\d{4}-\d{2}-\d{2}\s+[A-Za-z]{2,3})(?:\s+(\d{1,2}:\d{2}))?[^>]*>`)
	idRegex        = regexp.MustCompile(`^:ID:\s+(\S+)`)
	effortRegex    = regexp.MustCompile(`^:EFFORT:\s+(\S+)`)
	clockRegex     = regexp.MustCompile(`^CLOCK:\s+\[([^\]]+)\](?:--\[([^\]]+)\])?`)
)

// Result is what a set of org files contributes to the timeline.
type Result struct {
	Tasks []model.Task
	// ActiveID is the task with an open CLOCK line, if any.
	ActiveID string
}

// ParseFiles parses multiple Org-mode files.
func ParseFiles(fs afero.Fs, filePaths []string, loc *time.Location) (Result, error) {
	var all Result
	for _, filePath := range filePaths {
		f, err := fs.Open(filePath)
		if err != nil {
			return Result{}, err
		}
		res, err := Parse(f, filePath, loc)
		f.Close()
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", filePath, err)
		}
		all.Tasks = append(all.Tasks, res.Tasks...)
		if res.ActiveID != "" {
			all.ActiveID = res.ActiveID
		}
	}
	return all, nil
}

// Parse reads TODO/DONE headings with their SCHEDULED stamp, :EFFORT:
// estimate and CLOCK entries. Headings without an :ID: get one derived from
// the source name and line number.
func Parse(r io.Reader, source string, loc *time.Location) (Result, error) {
	scanner := bufio.NewScanner(r)
	var res Result
	var current *model.Task
	open := false

	flush := func() {
		if current == nil || current.Description == "" {
			return
		}
		res.Tasks = append(res.Tasks, *current)
		if open && current.Status == model.StatusPending {
			res.ActiveID = current.ID
		}
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		// Headings start in the first column; indented stars are list items.
		if m := headingRegex.FindStringSubmatch(raw); m != nil {
			flush()
			status := model.StatusPending
			if m[1] == "DONE" {
				status = model.StatusCompleted
			}
			current = &model.Task{
				ID:          fmt.Sprintf("%s:%d", source, lineNo),
				Description: strings.TrimSpace(m[3]),
				Status:      status,
				Source:      "orgmode",
			}
			if m[4] != "" {
				current.Tags = strings.Split(strings.Trim(m[4], ":"), ":")
			}
			open = false
			continue
		}
		if strings.HasPrefix(raw, "*") {
			flush()
			current = nil
			continue
		}
		if current == nil {
			continue
		}

		switch {
		case scheduledRegex.MatchString(line):
			m := scheduledRegex.FindStringSubmatch(line)
			if m[2] != "" {
				if ts, err := time.ParseInLocation(orgDateTime, m[1]+" "+m[2], loc); err == nil {
					current.FixedStart = ts
					current.HasFixedStart = true
				}
			} else if ts, err := time.ParseInLocation(orgDate, m[1], loc); err == nil {
				current.FixedStart = ts
			}
		case idRegex.MatchString(line):
			current.ID = idRegex.FindStringSubmatch(line)[1]
		case effortRegex.MatchString(line):
			d, err := ParseEffort(effortRegex.FindStringSubmatch(line)[1])
			if err != nil {
				return Result{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			current.Estimate = d
		case clockRegex.MatchString(line):
			m := clockRegex.FindStringSubmatch(line)
			if m[2] == "" {
				open = true
				continue
			}
			from, err1 := time.ParseInLocation(orgDateTime, m[1], loc)
			to, err2 := time.ParseInLocation(orgDateTime, m[2], loc)
			if err1 == nil && err2 == nil && to.After(from) {
				current.Spent += to.Sub(from)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Result{}, err
	}
	flush()
	return res, nil
}

// ParseEffort accepts org's H:MM effort notation or a Go duration.
func ParseEffort(s string) (time.Duration, error) {
	if h, m, ok := strings.Cut(s, ":"); ok {
		hours, err1 := strconv.Atoi(h)
		minutes, err2 := strconv.Atoi(m)
		if err1 != nil || err2 != nil || hours < 0 || minutes < 0 || minutes > 59 {
			return 0, fmt.Errorf("invalid effort %q", s)
		}
		return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid effort %q", s)
	}
	return d, nil
}

// FilterTasks filters a slice of tasks by a given filter string.
// Currently, it only supports filtering by a single tag.
func FilterTasks(tasks []model.Task, filter string) []model.Task {
	var filteredTasks []model.Task
	for _, task := range tasks {
		for _, tag := range task.Tags {
			if tag == filter {
				filteredTasks = append(filteredTasks, task)
				break
			}
		}
	}
	return filteredTasks
}
