package google

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/harrisonrobin/agenda/pkg/logx"
	"github.com/harrisonrobin/agenda/pkg/timeline"
	"google.golang.org/api/calendar/v3"
)

// TaskIDProperty marks events that mirror a taskwarrior task. Those tasks
// already reach the timeline as tasks.
const TaskIDProperty = "taskwarrior_id"

const maxPages = 20

// Older synced events only carry the task id in their description.
var descriptionTaskID = regexp.MustCompile(`ID: [a-f0-9]{8}-[a-f0-9\-]+`)

// CalendarClient reads events from one calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	log        logx.Logger
}

func NewCalendarClient(srv *calendar.Service, calendarID string, log logx.Logger) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID, log: log}
}

// ListEvents fetches the single (recurrence-expanded) events overlapping
// [from, to), ordered by start.
func (c *CalendarClient) ListEvents(ctx context.Context, from, to time.Time) ([]*calendar.Event, error) {
	call := c.srv.Events.List(c.calendarID).
		Context(ctx).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339))

	var out []*calendar.Event
	for page := 0; page < maxPages; page++ {
		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
		}
		out = append(out, events.Items...)
		if events.NextPageToken == "" {
			break
		}
		call.PageToken(events.NextPageToken)
	}
	c.log.Debug("listed events", logx.Int("count", len(out)), logx.Time("from", from), logx.Time("to", to))
	return out, nil
}

// ToCalendarItems converts events into timeline items in loc. Cancelled,
// all-day, free (transparent) and task-mirroring events are skipped, as are
// events whose times do not parse.
func ToCalendarItems(events []*calendar.Event, loc *time.Location) []timeline.CalendarItem {
	items := make([]timeline.CalendarItem, 0, len(events))
	for _, ev := range events {
		if ev == nil || ev.Status == "cancelled" || ev.Transparency == "transparent" {
			continue
		}
		if isTaskMirror(ev) {
			continue
		}
		if ev.Start == nil || ev.End == nil || ev.Start.DateTime == "" || ev.End.DateTime == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, ev.End.DateTime)
		if err != nil || end.Before(start) {
			continue
		}
		items = append(items, timeline.CalendarItem{
			ID:       ev.Id,
			Title:    ev.Summary,
			Icon:     icon(ev),
			Start:    start.In(loc),
			Duration: end.Sub(start),
		})
	}
	return items
}

func isTaskMirror(ev *calendar.Event) bool {
	if ev.ExtendedProperties != nil {
		if _, ok := ev.ExtendedProperties.Private[TaskIDProperty]; ok {
			return true
		}
	}
	return descriptionTaskID.MatchString(ev.Description)
}

func icon(ev *calendar.Event) string {
	switch {
	case ev.HangoutLink != "" || ev.ConferenceData != nil:
		return "📹"
	case ev.Location != "":
		return "📍"
	}
	return "📅"
}
