package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/carromhq/tournament-engine/live"
	"github.com/carromhq/tournament-engine/models"
	"github.com/carromhq/tournament-engine/repositories"
)

type SubmitResultInput struct {
	Score1 int `json:"score1"`
	Score2 int `json:"score2"`
	// WinnerID nil marks a draw. The winner is named explicitly by the
	// submitter; it is never inferred from the scores.
	WinnerID *int `json:"winner_id,omitempty"`
}

type MatchService interface {
	SubmitResult(ctx context.Context, matchID int, input SubmitResultInput) (*models.Match, error)
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
	standings StandingsService
	hub       *live.Hub
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	standings StandingsService,
	hub *live.Hub,
) MatchService {
	return &matchService{
		matchRepo: matchRepo,
		standings: standings,
		hub:       hub,
	}
}

// SubmitResult records a result for a match. Submitting again for an already
// completed match is a first-class edit: the new score and winner replace
// the old ones entirely. Validation happens before any write, so a rejected
// submission leaves the match untouched.
func (s *matchService) SubmitResult(ctx context.Context, matchID int, input SubmitResultInput) (*models.Match, error) {
	if input.Score1 < 0 || input.Score2 < 0 {
		return nil, fmt.Errorf("%w: got %d and %d", ErrNegativeScore, input.Score1, input.Score2)
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrMatchNotFound, matchID)
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	if input.WinnerID != nil && !match.HasTeam(*input.WinnerID) {
		return nil, fmt.Errorf("%w: team %d does not play in match %d", ErrInvalidTeamReference, *input.WinnerID, matchID)
	}

	err = s.matchRepo.UpdateResult(ctx, nil, matchID, input.Score1, input.Score2, input.WinnerID, models.MatchStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to store result for match %d: %w", matchID, err)
	}

	match.Score1 = input.Score1
	match.Score2 = input.Score2
	match.WinnerID = input.WinnerID
	match.Status = models.MatchStatusCompleted

	s.broadcast(ctx, match)
	return match, nil
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrMatchNotFound, matchID)
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	return match, nil
}

// broadcast pushes the updated match, plus refreshed standings when it was a
// group match, to live observers. Failures here never fail the submission.
func (s *matchService) broadcast(ctx context.Context, match *models.Match) {
	if s.hub == nil {
		return
	}
	room := live.RoomForTournament(match.TournamentID)
	s.hub.BroadcastToRoom(room, live.Message{Type: live.EventMatchUpdated, Payload: match})

	if match.Group == nil {
		return
	}
	standings, err := s.standings.GroupStandings(ctx, match.TournamentID, *match.Group)
	if err != nil {
		return
	}
	s.hub.BroadcastToRoom(room, live.Message{
		Type: live.EventStandingsUpdated,
		Payload: map[string]interface{}{
			"group":     *match.Group,
			"standings": standings,
		},
	})
}
