package brackets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/carromhq/tournament-engine/models"
)

var ErrInvalidGroupCount = errors.New("unsupported group count for knockout qualification")

// QualifiersPerGroup derives how many teams advance from each group so that
// totalQualifiers teams reach the knockout stage. Only the even splits are
// accepted: with 2 groups the top 4 of each qualify, with 4 groups the top 2.
func QualifiersPerGroup(numberOfGroups, totalQualifiers int) (int, error) {
	if numberOfGroups != 2 && numberOfGroups != 4 {
		return 0, fmt.Errorf("%w: %d groups", ErrInvalidGroupCount, numberOfGroups)
	}
	if totalQualifiers <= 0 || totalQualifiers%numberOfGroups != 0 {
		return 0, fmt.Errorf("%w: %d qualifiers cannot be split over %d groups", ErrInvalidGroupCount, totalQualifiers, numberOfGroups)
	}
	return totalQualifiers / numberOfGroups, nil
}

// TopQualifiers flattens ranked group standings into a single qualifier list.
// Groups are visited in ascending group-name order and the top perGroup team
// ids of each are appended in rank order. Deterministic for fixed input.
func TopQualifiers(standingsByGroup map[string][]models.GroupStanding, perGroup int) []int {
	groups := make([]string, 0, len(standingsByGroup))
	for g := range standingsByGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	qualifiers := make([]int, 0, perGroup*len(groups))
	for _, g := range groups {
		standings := standingsByGroup[g]
		for i := 0; i < perGroup && i < len(standings); i++ {
			qualifiers = append(qualifiers, standings[i].TeamID)
		}
	}
	return qualifiers
}

// KnockoutPairings pairs the qualifier list first against last: position i
// plays position n-1-i. An odd leftover team is dropped; callers feed an
// even list. Seeding is fixed by the input order, never randomized.
func KnockoutPairings(teamIDs []int) []Pairing {
	n := len(teamIDs)
	pairings := make([]Pairing, 0, n/2)
	for i := 0; i < n/2; i++ {
		pairings = append(pairings, Pairing{
			Team1ID: teamIDs[i],
			Team2ID: teamIDs[n-1-i],
		})
	}
	return pairings
}

// Winners extracts the winner of each completed knockout match in match-id
// order. A match without a decided winner is invalid input here and is
// reported, because a drawn knockout match cannot advance anyone.
func Winners(matches []models.Match) ([]int, error) {
	sorted := make([]models.Match, len(matches))
	copy(sorted, matches)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	winners := make([]int, 0, len(sorted))
	for _, m := range sorted {
		if m.WinnerID == nil {
			return nil, fmt.Errorf("match %d has no winner", m.ID)
		}
		winners = append(winners, *m.WinnerID)
	}
	return winners, nil
}
