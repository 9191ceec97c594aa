package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурсы
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrGroupNotFound      = errors.New("group not found")

	// Ошибки валидации
	ErrTournamentNameRequired = errors.New("tournament name is required")

	ErrTeamNameRequired     = errors.New("team name is required")
	ErrTeamNameConflict     = errors.New("team name is already in use")
	ErrNegativeScore        = errors.New("scores must be non-negative")
	ErrInvalidTeamReference = errors.New("winner must be one of the two teams in the match")
	ErrInvalidStage         = errors.New("invalid stage")
	ErrGroupsNotAssigned    = errors.New("teams have not been divided into groups yet")
	ErrNoTeamsRegistered    = errors.New("no teams registered for this tournament")

	// Ошибки последовательности этапов
	ErrIncompleteStage       = errors.New("stage has matches that are not completed yet")
	ErrStageAlreadyGenerated = errors.New("stage has already been generated")
	ErrInvalidKnockoutResult = errors.New("knockout matches must have a decided winner")
	ErrTournamentComplete    = errors.New("tournament is complete, no further stages")
	ErrNothingToSchedule     = errors.New("no pending matches to schedule")
)
