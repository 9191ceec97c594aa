package brackets

import (
	"sort"

	"github.com/carromhq/tournament-engine/models"
)

// PointRules are the configured point awards per result.
type PointRules struct {
	Win  int
	Draw int
	Loss int
}

// DefaultPointRules is the classic 2/1/0 scheme.
func DefaultPointRules() PointRules {
	return PointRules{Win: 2, Draw: 1, Loss: 0}
}

// ComputeStandings folds the completed matches into one standing per team.
// Every team gets a row, so teams without a completed match appear with
// zeros. Matches referencing teams outside the given set contribute nothing
// for the unknown side. The result is ranked (see SortStandings).
//
// Standings are a pure function of the completed match set: recomputing from
// scratch after any sequence of submissions always yields the same rows.
func ComputeStandings(teams []models.Team, matches []models.Match, rules PointRules) []models.GroupStanding {
	byTeam := make(map[int]*models.GroupStanding, len(teams))
	order := make([]int, 0, len(teams))
	for _, t := range teams {
		group := ""
		if t.Group != nil {
			group = *t.Group
		}
		byTeam[t.ID] = &models.GroupStanding{
			TeamID:   t.ID,
			TeamName: t.Name,
			Group:    group,
		}
		order = append(order, t.ID)
	}

	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted {
			continue
		}
		applyResult(byTeam[m.Team1ID], &m, m.Team1ID, m.Score1, m.Score2, rules)
		applyResult(byTeam[m.Team2ID], &m, m.Team2ID, m.Score2, m.Score1, rules)
	}

	standings := make([]models.GroupStanding, 0, len(order))
	for _, id := range order {
		standings = append(standings, *byTeam[id])
	}
	SortStandings(standings)
	return standings
}

// applyResult accounts one completed match for one side. Points follow the
// explicit winner only; scores feed the tiebreaker aggregates regardless of
// who won.
func applyResult(s *models.GroupStanding, m *models.Match, teamID, scoreFor, scoreAgainst int, rules PointRules) {
	if s == nil {
		return
	}
	s.Played++
	s.ScoreFor += scoreFor
	s.ScoreAgainst += scoreAgainst

	switch {
	case m.WinnerID == nil:
		s.Draws++
		s.Points += rules.Draw
	case *m.WinnerID == teamID:
		s.Wins++
		s.Points += rules.Win
	default:
		s.Losses++
		s.Points += rules.Loss
	}
}

// SortStandings ranks in place: points, then score difference, then score
// for, all descending, with team id ascending as the final stable tie rule.
// The team-id rule keeps output reproducible; it makes no fairness claim.
func SortStandings(standings []models.GroupStanding) {
	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.ScoreDifference() != b.ScoreDifference() {
			return a.ScoreDifference() > b.ScoreDifference()
		}
		if a.ScoreFor != b.ScoreFor {
			return a.ScoreFor > b.ScoreFor
		}
		return a.TeamID < b.TeamID
	})
}
