package services

import (
	"time"

	"github.com/carromhq/tournament-engine/brackets"
)

// Settings carries the tunable tournament parameters. They come from the
// environment at startup; defaults mirror the classic carrom setup.
type Settings struct {
	Points             brackets.PointRules
	MatchDuration      time.Duration
	NumberOfGroups     int
	KnockoutQualifiers int
	ParallelCapacity   int
}

func DefaultSettings() Settings {
	return Settings{
		Points:             brackets.DefaultPointRules(),
		MatchDuration:      20 * time.Minute,
		NumberOfGroups:     2,
		KnockoutQualifiers: 8,
		ParallelCapacity:   1,
	}
}
