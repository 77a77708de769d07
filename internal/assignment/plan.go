package assignment

import (
	"sort"

	"tably/internal/tables"
)

// bucket is one step of the capacity search plan. capacity selects
// tables by their ordinary maximum; paired buckets seat the party on an
// ampliable table combined with its designated auxiliary.
type bucket struct {
	capacity   int
	indoorOnly bool
	paired     bool
}

// searchPlan returns the fixed, party-size-dependent bucket order.
// Smaller parties try the tightest tables first; brackets of five and
// above are seated indoors only; nine and ten always need a pairing.
func searchPlan(partySize int) []bucket {
	switch {
	case partySize <= 2:
		return []bucket{{capacity: 2}, {capacity: 4}}
	case partySize <= 4:
		return []bucket{{capacity: 4}, {capacity: 6}}
	case partySize <= 6:
		return []bucket{{capacity: 6, indoorOnly: true}}
	case partySize <= 8:
		return []bucket{
			{capacity: 8, indoorOnly: true},
			{capacity: 6, indoorOnly: true, paired: true},
		}
	default:
		return []bucket{{capacity: 8, indoorOnly: true, paired: true}}
	}
}

// candidates filters and orders the catalog tables for one bucket. The
// zone preference narrows the set only where the bucket allows both
// zones; a closed terrace always excludes outdoor tables, and a pet
// constraint excludes everything but the terrace. Ordering is
// lexicographic: least wasted capacity first, then priority rank.
func candidates(all []tables.Table, b bucket, partySize int, pref *tables.Zone, terraceClosed, requireOutdoor bool) []tables.Table {
	var out []tables.Table
	for _, t := range all {
		if t.Status == tables.TableStatusBlocked {
			continue
		}
		if t.CapacityMax != b.capacity {
			continue
		}
		if t.Zone == tables.ZoneOutdoor && (b.indoorOnly || terraceClosed) {
			continue
		}
		if requireOutdoor && t.Zone != tables.ZoneOutdoor {
			continue
		}
		if !b.indoorOnly && !requireOutdoor && pref != nil && t.Zone != *pref {
			continue
		}
		if b.paired {
			if !t.FitsExtended(partySize) {
				continue
			}
		} else if !t.Fits(partySize) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		wi, wj := out[i].Waste(partySize), out[j].Waste(partySize)
		if wi != wj {
			return wi < wj
		}
		return out[i].Priority < out[j].Priority
	})
	return out
}
