package google

import (
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
)

func timed(id, start, end string) *calendar.Event {
	return &calendar.Event{
		Id:      id,
		Summary: id,
		Status:  "confirmed",
		Start:   &calendar.EventDateTime{DateTime: start},
		End:     &calendar.EventDateTime{DateTime: end},
	}
}

func TestToCalendarItems(t *testing.T) {
	loc := time.FixedZone("CET", 3600)

	meeting := timed("meeting", "2024-03-04T09:00:00Z", "2024-03-04T10:30:00Z")
	meeting.Location = "Room 1"

	cancelled := timed("cancelled", "2024-03-04T11:00:00Z", "2024-03-04T12:00:00Z")
	cancelled.Status = "cancelled"

	free := timed("free", "2024-03-04T11:00:00Z", "2024-03-04T12:00:00Z")
	free.Transparency = "transparent"

	mirror := timed("mirror", "2024-03-04T13:00:00Z", "2024-03-04T14:00:00Z")
	mirror.ExtendedProperties = &calendar.EventExtendedProperties{
		Private: map[string]string{TaskIDProperty: "abc"},
	}

	legacy := timed("legacy", "2024-03-04T15:00:00Z", "2024-03-04T16:00:00Z")
	legacy.Description = "Project: work\nID: f45a05b3-c12e-42e5-9c9c-333333333333"

	allDay := &calendar.Event{
		Id:    "holiday",
		Start: &calendar.EventDateTime{Date: "2024-03-04"},
		End:   &calendar.EventDateTime{Date: "2024-03-05"},
	}

	broken := timed("broken", "yesterday", "2024-03-04T14:00:00Z")

	items := ToCalendarItems([]*calendar.Event{meeting, cancelled, free, mirror, legacy, allDay, broken, nil}, loc)
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d: %+v", len(items), items)
	}
	got := items[0]
	if got.ID != "meeting" || got.Duration != 90*time.Minute || got.Icon != "📍" {
		t.Errorf("Unexpected item %+v", got)
	}
	if got.Start.Location() != loc || got.Start.Hour() != 10 {
		t.Errorf("Expected start converted to 10:00 CET, got %v", got.Start)
	}
}

func TestIcon(t *testing.T) {
	ev := timed("call", "2024-03-04T09:00:00Z", "2024-03-04T10:00:00Z")
	if icon(ev) != "📅" {
		t.Errorf("Expected default icon, got %q", icon(ev))
	}
	ev.HangoutLink = "https://meet.google.com/x"
	if icon(ev) != "📹" {
		t.Errorf("Expected video icon, got %q", icon(ev))
	}
}
