package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
)

// Match представляет одну игру турнира.
//
// Score1/Score2 are tiebreaker input only; WinnerID alone decides points.
// A completed match with a nil WinnerID is a draw.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Team1ID      int         `json:"team1_id" db:"team1_id"`
	Team2ID      int         `json:"team2_id" db:"team2_id"`
	Stage        Stage       `json:"stage" db:"stage"`
	Group        *string     `json:"group,omitempty" db:"group_name"`
	Score1       int         `json:"score1" db:"score1"`
	Score2       int         `json:"score2" db:"score2"`
	WinnerID     *int        `json:"winner_id,omitempty" db:"winner_id"`
	Status       MatchStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	// Set by scheduling, nil until then. Times of completed matches are
	// never rewritten by a re-schedule.
	ScheduledStart *time.Time `json:"scheduled_start,omitempty" db:"scheduled_start"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty" db:"scheduled_end"`
}

// IsDraw reports whether the match finished without a winner.
func (m *Match) IsDraw() bool {
	return m.Status == MatchStatusCompleted && m.WinnerID == nil
}

// HasTeam reports whether teamID plays in this match.
func (m *Match) HasTeam(teamID int) bool {
	return m.Team1ID == teamID || m.Team2ID == teamID
}
