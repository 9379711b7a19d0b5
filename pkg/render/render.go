// Package render prints timeline days to a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/harrisonrobin/agenda/pkg/colors"
	"github.com/harrisonrobin/agenda/pkg/timeline"
)

const (
	clockFormat = "15:04"
	dayFormat   = "Mon 02 Jan 2006"
)

// Printer writes one table per day.
type Printer struct {
	Out io.Writer
	// Colors is optional; without it projects are not colored.
	Colors *colors.ColorCache

	projects map[string]string
}

func New(out io.Writer, cache *colors.ColorCache) *Printer {
	if out == nil {
		out = color.Output
	}
	return &Printer{Out: out, Colors: cache}
}

// Days prints at most limit days, or all of them when limit <= 0.
func (p *Printer) Days(days []timeline.Day, limit int) {
	if len(days) == 0 {
		faint := color.New(color.Faint, color.Italic)
		_, _ = fmt.Fprintln(p.Out, faint.Sprint("nothing planned"))
		return
	}
	if limit > 0 && len(days) > limit {
		days = days[:limit]
	}
	p.projects = make(map[string]string)
	for i, d := range days {
		if i > 0 {
			_, _ = fmt.Fprintln(p.Out, "")
		}
		p.Day(d)
	}
}

func (p *Printer) Day(d timeline.Day) {
	if p.projects == nil {
		p.projects = make(map[string]string)
	}
	title := color.New(color.Bold, color.Underline)
	heading := d.Date.Format(dayFormat)
	if d.IsToday {
		heading += " (today)"
	}
	_, _ = fmt.Fprintln(p.Out, title.Sprint(heading))

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	var total time.Duration
	for _, e := range d.Entries {
		if e.Task != nil {
			p.projects[e.Task.ID] = e.Task.Project
		}
		if counts(e.Type) {
			total += e.Duration
		}
		tbl.AddRow(p.clock(e), marker(e.Type), p.title(e), detail(e))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(p.Out, tbl)

	faint := color.New(color.Faint)
	_, _ = fmt.Fprintln(p.Out, faint.Sprintf("planned work %s", FormatDuration(total)))
}

func (p *Printer) clock(e timeline.Entry) string {
	if e.IsHideTime {
		return ""
	}
	return e.Start.Format(clockFormat)
}

func (p *Printer) title(e timeline.Entry) string {
	t := e.Title()
	switch e.Type {
	case timeline.TypeWorkdayStart:
		return color.New(color.Faint).Sprint("start of work")
	case timeline.TypeWorkdayEnd:
		return color.New(color.Faint).Sprint("end of work")
	case timeline.TypeLunchBreak:
		return color.New(color.Faint).Sprint("lunch")
	case timeline.TypeCalendarEvent:
		if e.Commitment != nil && e.Commitment.Icon != "" {
			t = e.Commitment.Icon + " " + t
		}
		return color.New(color.Bold).Sprint(t)
	}
	if p.Colors == nil {
		return t
	}
	project, ok := p.projects[e.TaskID()]
	if !ok || project == "" {
		return t
	}
	return p.Colors.Color(project).Sprint(t)
}

func marker(t timeline.EntryType) string {
	switch t {
	case timeline.TypeTask:
		return "•"
	case timeline.TypeSplitTask:
		return "◐"
	case timeline.TypeSplitTaskContinued, timeline.TypeSplitTaskContinuedLast:
		return "↳"
	case timeline.TypeScheduledTask:
		return "@"
	case timeline.TypeScheduledRepeatProjection:
		return "↻"
	case timeline.TypeCalendarEvent:
		return "▣"
	case timeline.TypeWorkdayStart, timeline.TypeWorkdayEnd, timeline.TypeLunchBreak:
		return "-"
	}
	return ""
}

func detail(e timeline.Entry) string {
	faint := color.New(color.Faint)
	switch e.Type {
	case timeline.TypeWorkdayStart, timeline.TypeWorkdayEnd:
		return ""
	case timeline.TypeSplitTaskContinued, timeline.TypeSplitTaskContinuedLast:
		c := e.Continuation
		if c == nil {
			return FormatDuration(e.Duration)
		}
		return faint.Sprintf("%s  part %d, %s to go", FormatDuration(e.Duration), c.Index+2, FormatDuration(c.TimeToGo))
	}
	return FormatDuration(e.Duration)
}

// counts reports whether an entry's duration is work on a task.
func counts(t timeline.EntryType) bool {
	switch t {
	case timeline.TypeTask, timeline.TypeSplitTask, timeline.TypeSplitTaskContinued,
		timeline.TypeSplitTaskContinuedLast, timeline.TypeScheduledTask, timeline.TypeScheduledRepeatProjection:
		return true
	}
	return false
}

// FormatDuration renders d as "1h30m", "45m" or "2h".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	if d <= 0 {
		return "0m"
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	var b strings.Builder
	if h > 0 {
		fmt.Fprintf(&b, "%dh", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dm", m)
	}
	return b.String()
}
