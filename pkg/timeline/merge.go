package timeline

import (
	"sort"
	"time"
)

// Merge coalesces overlapping or touching commitments into blocks sorted by
// start. Each commitment is first absorbed into the first block it touches;
// because absorbing can widen a block into its neighbours, the block list is
// then re-merged until a full pass changes nothing.
//
// This is quadratic in the number of commitments. Per-week counts are in the
// tens, so a sweep-line merge is not worth it yet.
func Merge(commitments []Commitment) []Block {
	var blocks []Block
	for _, c := range commitments {
		if c.End.Before(c.Start) {
			c.End = c.Start
		}
		absorbed := false
		for i := range blocks {
			if overlaps(blocks[i].Start, blocks[i].End, c.Start, c.End) {
				blocks[i] = blocks[i].absorb(Block{Start: c.Start, End: c.End, Entries: []Commitment{c}})
				absorbed = true
				break
			}
		}
		if !absorbed {
			blocks = append(blocks, Block{Start: c.Start, End: c.End, Entries: []Commitment{c}})
		}
	}

	blocks = mergeUntilStable(blocks)
	for i := range blocks {
		sortCommitments(blocks[i].Entries)
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Start.Before(blocks[j].Start)
	})
	return blocks
}

func mergeUntilStable(blocks []Block) []Block {
	for {
		merged := false
		for i := 0; i < len(blocks); i++ {
			for j := i + 1; j < len(blocks); j++ {
				if !overlaps(blocks[i].Start, blocks[i].End, blocks[j].Start, blocks[j].End) {
					continue
				}
				blocks[i] = blocks[i].absorb(blocks[j])
				blocks = append(blocks[:j], blocks[j+1:]...)
				merged = true
				j--
			}
		}
		if !merged {
			return blocks
		}
	}
}

// absorb returns the union of b and o. The entry list is freshly allocated.
func (b Block) absorb(o Block) Block {
	entries := make([]Commitment, 0, len(b.Entries)+len(o.Entries))
	entries = append(entries, b.Entries...)
	entries = append(entries, o.Entries...)
	out := Block{Start: b.Start, End: b.End, Entries: entries}
	if o.Start.Before(out.Start) {
		out.Start = o.Start
	}
	if o.End.After(out.End) {
		out.End = o.End
	}
	return out
}

// overlaps is inclusive at both ends, so touching ranges count.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return within(aStart, bStart, bEnd) || within(aEnd, bStart, bEnd) ||
		within(bStart, aStart, aEnd) || within(bEnd, aStart, aEnd)
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func sortCommitments(cs []Commitment) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.End.Before(b.End)
	})
}
