package brackets

import (
	"errors"
	"time"

	"github.com/carromhq/tournament-engine/models"
)

var (
	ErrInvalidParallelCapacity = errors.New("parallel capacity must be at least 1")
	ErrInvalidMatchDuration    = errors.New("match duration must be positive")
)

// Slot is an assigned start/end window for one match.
type Slot struct {
	Start time.Time
	End   time.Time
}

// ScheduleSlots assigns count matches to sequential time slots of width
// duration. Up to capacity matches share a slot; the match at position i
// lands in slot i/capacity, which starts at start + (i/capacity)*duration.
// The total span is therefore ceil(count/capacity) * duration.
//
// The assignment is purely positional: it does not check whether two matches
// in the same slot share a team. Callers that care about that supply an
// order produced by OrderAvoidingClashes.
func ScheduleSlots(count int, start time.Time, duration time.Duration, capacity int) ([]Slot, error) {
	if capacity < 1 {
		return nil, ErrInvalidParallelCapacity
	}
	if duration <= 0 {
		return nil, ErrInvalidMatchDuration
	}

	slots := make([]Slot, count)
	for i := 0; i < count; i++ {
		slotStart := start.Add(time.Duration(i/capacity) * duration)
		slots[i] = Slot{Start: slotStart, End: slotStart.Add(duration)}
	}
	return slots, nil
}

// OrderAvoidingClashes reorders matches so that, where possible, no two
// matches sharing a team land in the same slot of width capacity. Greedy:
// each slot is filled with the earliest remaining matches whose teams are
// still free in that slot; when none fits the earliest remaining match is
// taken anyway, so every slot holds exactly capacity matches and the order
// packs the same way under the positional slot assignment of ScheduleSlots.
// Pair composition is never changed, only position, and the result is
// deterministic for a given input order.
func OrderAvoidingClashes(matches []models.Match, capacity int) []models.Match {
	if capacity < 2 || len(matches) == 0 {
		out := make([]models.Match, len(matches))
		copy(out, matches)
		return out
	}

	remaining := make([]models.Match, len(matches))
	copy(remaining, matches)

	ordered := make([]models.Match, 0, len(matches))
	for len(remaining) > 0 {
		busy := make(map[int]bool)
		filled := 0
		for filled < capacity && len(remaining) > 0 {
			picked := -1
			for i, m := range remaining {
				if !busy[m.Team1ID] && !busy[m.Team2ID] {
					picked = i
					break
				}
			}
			if picked == -1 {
				// unavoidable clash: the slot must still fill, an
				// underfilled slot would shift every later match out of
				// its positional slot
				picked = 0
			}
			m := remaining[picked]
			busy[m.Team1ID] = true
			busy[m.Team2ID] = true
			ordered = append(ordered, m)
			remaining = append(remaining[:picked], remaining[picked+1:]...)
			filled++
		}
	}
	return ordered
}
