package brackets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carromhq/tournament-engine/models"
)

func TestScheduleSlotsSequential(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	duration := 20 * time.Minute

	slots, err := ScheduleSlots(5, start, duration, 1)
	require.NoError(t, err)
	require.Len(t, slots, 5)

	for i, slot := range slots {
		assert.Equal(t, start.Add(time.Duration(i)*duration), slot.Start)
		assert.Equal(t, slot.Start.Add(duration), slot.End)
		if i > 0 {
			assert.Equal(t, slots[i-1].End, slot.Start, "capacity 1 must be fully sequential")
		}
	}
}

func TestScheduleSlotsParallel(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	duration := 30 * time.Minute

	slots, err := ScheduleSlots(7, start, duration, 2)
	require.NoError(t, err)
	require.Len(t, slots, 7)

	perStart := make(map[time.Time]int)
	var latestEnd time.Time
	for _, slot := range slots {
		perStart[slot.Start]++
		if slot.End.After(latestEnd) {
			latestEnd = slot.End
		}
	}
	for at, n := range perStart {
		assert.LessOrEqual(t, n, 2, "more than capacity matches start at %v", at)
	}
	// ceil(7/2) = 4 slots
	assert.Equal(t, start.Add(4*duration), latestEnd)
}

func TestScheduleSlotsInvalidInput(t *testing.T) {
	start := time.Now()

	_, err := ScheduleSlots(3, start, 20*time.Minute, 0)
	assert.ErrorIs(t, err, ErrInvalidParallelCapacity)

	_, err = ScheduleSlots(3, start, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidMatchDuration)
}

func TestOrderAvoidingClashes(t *testing.T) {
	// Round-robin of 4 teams in generation order: slot pairs would collide
	// on team 1 immediately with capacity 2.
	matches := []models.Match{
		{ID: 1, Team1ID: 1, Team2ID: 2},
		{ID: 2, Team1ID: 1, Team2ID: 3},
		{ID: 3, Team1ID: 1, Team2ID: 4},
		{ID: 4, Team1ID: 2, Team2ID: 3},
		{ID: 5, Team1ID: 2, Team2ID: 4},
		{ID: 6, Team1ID: 3, Team2ID: 4},
	}

	ordered := OrderAvoidingClashes(matches, 2)
	require.Len(t, ordered, len(matches))

	// Same fixtures, only repositioned.
	ids := make(map[int]bool)
	for _, m := range ordered {
		ids[m.ID] = true
	}
	assert.Len(t, ids, len(matches))

	// No slot of two shares a team.
	for i := 0; i+1 < len(ordered); i += 2 {
		a, b := ordered[i], ordered[i+1]
		assert.False(t, a.HasTeam(b.Team1ID) || a.HasTeam(b.Team2ID),
			"slot %d pairs matches %d and %d with a shared team", i/2, a.ID, b.ID)
	}
}

func TestOrderAvoidingClashesKeepsSlotsFull(t *testing.T) {
	// Three mutually clashing matches plus one free pair: two slots of two
	// cannot avoid one clash, but the clash must stay confined to a single
	// positional slot instead of leaking across a boundary.
	matches := []models.Match{
		{ID: 1, Team1ID: 1, Team2ID: 2},
		{ID: 2, Team1ID: 1, Team2ID: 3},
		{ID: 3, Team1ID: 2, Team2ID: 3},
		{ID: 4, Team1ID: 4, Team2ID: 5},
	}

	ordered := OrderAvoidingClashes(matches, 2)
	require.Len(t, ordered, 4)

	ids := make([]int, len(ordered))
	for i, m := range ordered {
		ids[i] = m.ID
	}
	assert.Equal(t, []int{1, 4, 2, 3}, ids)

	// The first positional slot is clash-free.
	a, b := ordered[0], ordered[1]
	assert.False(t, a.HasTeam(b.Team1ID) || a.HasTeam(b.Team2ID),
		"first slot pairs matches %d and %d with a shared team", a.ID, b.ID)
}

func TestOrderAvoidingClashesCapacityOneIsIdentity(t *testing.T) {
	matches := []models.Match{
		{ID: 1, Team1ID: 1, Team2ID: 2},
		{ID: 2, Team1ID: 1, Team2ID: 3},
	}
	ordered := OrderAvoidingClashes(matches, 1)
	assert.Equal(t, matches, ordered)
}
