package models

import "time"

type Team struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	Participants []string  `json:"participants,omitempty" db:"participants"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// Group is nil until the team has been dealt into a group ("A", "B", ...).
	Group *string `json:"group,omitempty" db:"group_name"`
}
