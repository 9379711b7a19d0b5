package timeline

import (
	"sort"
	"time"
)

// DefaultCurrentOffset is how far before the reference instant the current
// task is drawn, so it always reads as already in progress.
const DefaultCurrentOffset = 10 * time.Minute

// tieRank orders entries that share a start: a day boundary renders as end,
// then midnight, then start, then whatever follows it.
func tieRank(t EntryType) int {
	switch t {
	case TypeWorkdayEnd:
		return 0
	case TypeDayCrossing:
		return 1
	case TypeWorkdayStart:
		return 2
	}
	return 3
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return tieRank(a.Type) < tieRank(b.Type)
	})
}

// pinCurrent moves the entry of the current task to the front.
func pinCurrent(entries []Entry, id string, now time.Time, offset time.Duration) []Entry {
	i := -1
	for j, e := range entries {
		if e.ID == id {
			i = j
			break
		}
	}
	if i < 0 {
		return entries
	}
	current := entries[i]
	current.Start = now.Add(-offset)
	current.IsHideTime = false

	out := make([]Entry, 0, len(entries))
	out = append(out, current)
	out = append(out, entries[:i]...)
	return append(out, entries[i+1:]...)
}

// trimBoundaries drops a leading WorkdayEnd and any trailing markers. Lunch
// breaks count as markers at the tail, otherwise every look-ahead day would
// keep one.
func trimBoundaries(entries []Entry) []Entry {
	if len(entries) > 0 && entries[0].Type == TypeWorkdayEnd {
		entries = entries[1:]
	}
	for len(entries) > 2 && isTrailingMarker(entries[len(entries)-1].Type) {
		entries = entries[:len(entries)-1]
	}
	return entries
}

// collapseEmptyWorkdays removes degenerate boundary pairs left behind when a
// commitment swallows a whole work day.
func collapseEmptyWorkdays(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for i, e := range entries {
		if i > 0 && e.Type == TypeWorkdayEnd {
			prev := entries[i-1]
			if prev.Type == TypeWorkdayStart && prev.Start.Equal(e.Start) {
				continue
			}
		}
		if e.Type == TypeWorkdayStart && i+2 < len(entries) && entries[i+2].Type == TypeWorkdayStart {
			continue
		}
		out = append(out, e)
	}
	return out
}

func isTrailingMarker(t EntryType) bool {
	return t.IsWorkday() || t == TypeLunchBreak
}
