package brackets

import (
	"errors"
	"fmt"
)

var ErrInvalidGroupSize = errors.New("not enough teams for a round-robin (minimum 2 required)")

// Pairing is one generated fixture before it becomes a persisted match.
type Pairing struct {
	Team1ID int
	Team2ID int
}

// RoundRobinPairings produces the complete single round-robin for the given
// teams: every unordered pair of distinct teams exactly once, N*(N-1)/2 in
// total. The output order is a pure function of the input order, so repeated
// calls with the same team list yield the same fixture list.
func RoundRobinPairings(teamIDs []int) ([]Pairing, error) {
	n := len(teamIDs)
	if n < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrInvalidGroupSize, n)
	}

	pairings := make([]Pairing, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairings = append(pairings, Pairing{
				Team1ID: teamIDs[i],
				Team2ID: teamIDs[j],
			})
		}
	}
	return pairings, nil
}
