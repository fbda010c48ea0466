package services

import (
	"sort"

	"zenlodge-server/models"
)

// AvailableUnits resolves which physical units are free for a date range.
// overlapping must already be filtered to the query interval (see
// LoadOverlappingReservations). The algorithm:
//
//  1. Candidates are the active units, ascending by name.
//  2. Reservations with an explicit assignment remove that exact unit.
//  3. Floating reservations are counted; that many units are trimmed from
//     the END of the remaining pool, so low-ordinal units stay exposed as
//     concretely available.
//
// The floating trim is a heuristic, not a guarantee: if a floating
// reservation is later pinned to a unit this call returned, two callers
// may have been promised the same unit. Callers must still create the
// reservation through the lifecycle, which re-checks capacity atomically.
func AvailableUnits(units []models.RoomUnit, overlapping []models.Reservation) []models.RoomUnit {
	candidates := make([]models.RoomUnit, len(units))
	copy(candidates, units)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })

	taken := make(map[uint]bool)
	floating := 0
	for i := range overlapping {
		r := &overlapping[i]
		if !r.Occupies() {
			continue
		}
		if a := r.Assignment(); a.Assigned {
			taken[a.UnitID] = true
		} else {
			floating++
		}
	}

	var free []models.RoomUnit
	for _, u := range candidates {
		if !taken[u.ID] {
			free = append(free, u)
		}
	}

	if floating >= len(free) {
		return nil
	}
	return free[:len(free)-floating]
}
