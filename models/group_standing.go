package models

// GroupStanding is a derived view: it is recomputed from the completed
// matches of a group and never stored as a source of truth.
type GroupStanding struct {
	TeamID       int    `json:"team_id"`
	TeamName     string `json:"team_name"`
	Group        string `json:"group"`
	Played       int    `json:"matches_played"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	Points       int    `json:"points"`
	ScoreFor     int    `json:"score_for"`
	ScoreAgainst int    `json:"score_against"`
}

// ScoreDifference is the tiebreaker delta, for minus against.
func (s GroupStanding) ScoreDifference() int {
	return s.ScoreFor - s.ScoreAgainst
}
