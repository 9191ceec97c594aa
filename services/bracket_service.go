package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carromhq/tournament-engine/brackets"
	"github.com/carromhq/tournament-engine/live"
	"github.com/carromhq/tournament-engine/models"
	"github.com/carromhq/tournament-engine/repositories"
)

// BracketService drives the stage state machine:
// group -> quarter_final -> semi_final -> final -> complete.
type BracketService interface {
	// AdvanceStage closes the given stage and generates the next stage's
	// fixtures. Advancing the final generates nothing; it marks the
	// tournament completed instead.
	AdvanceStage(ctx context.Context, tournamentID int, from models.Stage) ([]*models.Match, error)
	// ResetFromStage discards every match of the given stage and all later
	// stages, so they can be regenerated.
	ResetFromStage(ctx context.Context, tournamentID int, stage models.Stage) error
}

type bracketService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	standings      StandingsService
	settings       Settings
	hub            *live.Hub
	snapshots      *SnapshotPublisher
	logger         *slog.Logger
}

func NewBracketService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	standings StandingsService,
	settings Settings,
	hub *live.Hub,
	snapshots *SnapshotPublisher,
	logger *slog.Logger,
) BracketService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bracketService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		standings:      standings,
		settings:       settings,
		hub:            hub,
		snapshots:      snapshots,
		logger:         logger,
	}
}

func (s *bracketService) AdvanceStage(ctx context.Context, tournamentID int, from models.Stage) ([]*models.Match, error) {
	if !from.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStage, from)
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, ErrTournamentNotFound
	}
	if tournament.Status == models.StatusCompleted {
		return nil, ErrTournamentComplete
	}

	fromMatches, err := s.stageMatches(ctx, tournamentID, from)
	if err != nil {
		return nil, err
	}
	if len(fromMatches) == 0 {
		return nil, fmt.Errorf("%w: no %s matches generated", ErrIncompleteStage, from)
	}
	for _, m := range fromMatches {
		if m.Status != models.MatchStatusCompleted {
			return nil, fmt.Errorf("%w: match %d is still %s", ErrIncompleteStage, m.ID, m.Status)
		}
	}

	if from == models.StageFinal {
		return nil, s.completeTournament(ctx, tournamentID, fromMatches)
	}

	next, _ := from.Next()
	existing, err := s.stageMatches(ctx, tournamentID, next)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrStageAlreadyGenerated, next)
	}

	var pairings []brackets.Pairing
	if from == models.StageGroup {
		pairings, err = s.qualifierPairings(ctx, tournamentID)
	} else {
		pairings, err = s.winnerPairings(fromMatches)
	}
	if err != nil {
		return nil, err
	}

	matches := make([]*models.Match, 0, len(pairings))
	for _, p := range pairings {
		matches = append(matches, &models.Match{
			TournamentID: tournamentID,
			Team1ID:      p.Team1ID,
			Team2ID:      p.Team2ID,
			Stage:        next,
			Status:       models.MatchStatusScheduled,
		})
	}
	if err := s.matchRepo.CreateBatch(ctx, nil, matches); err != nil {
		return nil, fmt.Errorf("failed to persist %s fixtures: %w", next, err)
	}

	s.logger.Info("stage advanced",
		slog.Int("tournament_id", tournamentID),
		slog.String("from", string(from)),
		slog.String("to", string(next)),
		slog.Int("matches", len(matches)))

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.RoomForTournament(tournamentID), live.Message{
			Type: live.EventStageAdvanced,
			Payload: map[string]interface{}{
				"stage":   next,
				"matches": matches,
			},
		})
	}
	s.publishSnapshot(ctx, tournamentID, string(next))

	return matches, nil
}

func (s *bracketService) ResetFromStage(ctx context.Context, tournamentID int, stage models.Stage) error {
	if !stage.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return ErrTournamentNotFound
	}

	if err := s.matchRepo.DeleteFromStage(ctx, nil, tournamentID, models.StagesFrom(stage)); err != nil {
		return fmt.Errorf("failed to reset from stage %s: %w", stage, err)
	}
	// a completed tournament is no longer complete once its bracket is cut
	if err := s.tournamentRepo.UpdateStatus(ctx, nil, tournamentID, models.StatusActive); err != nil {
		return fmt.Errorf("failed to reopen tournament %d: %w", tournamentID, err)
	}

	s.logger.Info("stages reset",
		slog.Int("tournament_id", tournamentID),
		slog.String("from", string(stage)))

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.RoomForTournament(tournamentID), live.Message{
			Type:    live.EventStageReset,
			Payload: map[string]interface{}{"stage": stage},
		})
	}
	return nil
}

// qualifierPairings ranks every group and seeds the knockout bracket from
// the qualifier list: groups in name order, top teams per group by rank,
// then first against last across the combined list.
func (s *bracketService) qualifierPairings(ctx context.Context, tournamentID int) ([]brackets.Pairing, error) {
	standingsByGroup, err := s.standings.AllGroupStandings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(standingsByGroup) == 0 {
		return nil, ErrGroupsNotAssigned
	}

	perGroup, err := brackets.QualifiersPerGroup(len(standingsByGroup), s.settings.KnockoutQualifiers)
	if err != nil {
		return nil, err
	}
	qualifiers := brackets.TopQualifiers(standingsByGroup, perGroup)
	// A short group leaves knockout seats unfilled; pairing the remainder
	// would knock a qualified team out without playing.
	if len(qualifiers) != s.settings.KnockoutQualifiers {
		return nil, fmt.Errorf("%w: the knockout bracket needs %d qualifiers, the groups yield %d",
			ErrIncompleteStage, s.settings.KnockoutQualifiers, len(qualifiers))
	}
	return brackets.KnockoutPairings(qualifiers), nil
}

func (s *bracketService) winnerPairings(fromMatches []*models.Match) ([]brackets.Pairing, error) {
	values := make([]models.Match, len(fromMatches))
	for i, m := range fromMatches {
		values[i] = *m
	}
	winners, err := brackets.Winners(values)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKnockoutResult, err)
	}
	return brackets.KnockoutPairings(winners), nil
}

func (s *bracketService) completeTournament(ctx context.Context, tournamentID int, finals []*models.Match) error {
	final := finals[0]
	if final.WinnerID == nil {
		return fmt.Errorf("%w: the final cannot end in a draw", ErrInvalidKnockoutResult)
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, nil, tournamentID, models.StatusCompleted); err != nil {
		return fmt.Errorf("failed to complete tournament %d: %w", tournamentID, err)
	}

	s.logger.Info("tournament completed",
		slog.Int("tournament_id", tournamentID),
		slog.Int("champion_team_id", *final.WinnerID))

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.RoomForTournament(tournamentID), live.Message{
			Type:    live.EventTournamentCompleted,
			Payload: map[string]interface{}{"champion_team_id": *final.WinnerID},
		})
	}
	s.publishSnapshot(ctx, tournamentID, "complete")
	return nil
}

func (s *bracketService) stageMatches(ctx context.Context, tournamentID int, stage models.Stage) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, repositories.MatchFilter{Stage: &stage})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s matches: %w", stage, err)
	}
	return matches, nil
}

func (s *bracketService) publishSnapshot(ctx context.Context, tournamentID int, label string) {
	if s.snapshots == nil {
		return
	}
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, repositories.MatchFilter{})
	if err != nil {
		s.logger.Warn("snapshot skipped", slog.Any("error", err))
		return
	}
	standingsByGroup, err := s.standings.AllGroupStandings(ctx, tournamentID)
	if err != nil {
		s.logger.Warn("snapshot skipped", slog.Any("error", err))
		return
	}
	s.snapshots.Publish(ctx, tournamentID, label, matches, standingsByGroup)
}
