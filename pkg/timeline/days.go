package timeline

import "time"

// Day is one calendar day worth of timeline entries.
type Day struct {
	Date    time.Time
	IsToday bool
	Entries []Entry
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dayOf is the day an entry is listed under. Anything that began before
// today, such as the pinned current task just after midnight, is listed today.
func dayOf(t, today time.Time) time.Time {
	if d := startOfDay(t); d.After(today) {
		return d
	}
	return today
}

// insertDayCrossings adds a DayCrossing entry at local midnight wherever two
// consecutive entries fall on different days.
func insertDayCrossings(entries []Entry, now time.Time) []Entry {
	if len(entries) < 2 {
		return entries
	}
	today := startOfDay(now)
	out := make([]Entry, 0, len(entries)+LookAheadDays)
	out = append(out, entries[0])
	for i := 1; i < len(entries); i++ {
		day := dayOf(entries[i].Start, today)
		if day.After(dayOf(entries[i-1].Start, today)) {
			out = append(out, Entry{
				ID:    "day_" + day.Format("2006-01-02"),
				Type:  TypeDayCrossing,
				Start: day,
			})
		}
		out = append(out, entries[i])
	}
	return out
}

// Days splits a built timeline at its DayCrossing entries. The crossings
// themselves are not part of any bucket.
func Days(entries []Entry, now time.Time) []Day {
	if len(entries) == 0 {
		return nil
	}
	today := startOfDay(now)

	var days []Day
	cur := Day{Date: dayOf(entries[0].Start, today)}
	for _, e := range entries {
		if e.Type == TypeDayCrossing {
			if len(cur.Entries) > 0 {
				days = append(days, cur)
			}
			cur = Day{Date: startOfDay(e.Start)}
			continue
		}
		cur.Entries = append(cur.Entries, e)
	}
	if len(cur.Entries) > 0 {
		days = append(days, cur)
	}
	for i := range days {
		days[i].IsToday = days[i].Date.Equal(today)
	}
	return days
}
