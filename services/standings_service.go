package services

import (
	"context"
	"fmt"

	"github.com/carromhq/tournament-engine/brackets"
	"github.com/carromhq/tournament-engine/models"
	"github.com/carromhq/tournament-engine/repositories"
)

type StandingsService interface {
	// GroupStandings returns the ranked table for one group, recomputed
	// from scratch from the group's completed matches.
	GroupStandings(ctx context.Context, tournamentID int, group string) ([]models.GroupStanding, error)
	// AllGroupStandings computes every group's ranked table in one pass.
	AllGroupStandings(ctx context.Context, tournamentID int) (map[string][]models.GroupStanding, error)
}

type standingsService struct {
	teamRepo  repositories.TeamRepository
	matchRepo repositories.MatchRepository
	settings  Settings
}

func NewStandingsService(
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	settings Settings,
) StandingsService {
	return &standingsService{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		settings:  settings,
	}
}

func (s *standingsService) GroupStandings(ctx context.Context, tournamentID int, group string) ([]models.GroupStanding, error) {
	byGroup, err := s.AllGroupStandings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	standings, ok := byGroup[group]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGroupNotFound, group)
	}
	return standings, nil
}

func (s *standingsService) AllGroupStandings(ctx context.Context, tournamentID int) (map[string][]models.GroupStanding, error) {
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	stage := models.StageGroup
	completed := models.MatchStatusCompleted
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, repositories.MatchFilter{Stage: &stage, Status: &completed})
	if err != nil {
		return nil, fmt.Errorf("failed to list group matches: %w", err)
	}

	teamsByGroup := make(map[string][]models.Team)
	for _, team := range teams {
		if team.Group == nil {
			continue
		}
		teamsByGroup[*team.Group] = append(teamsByGroup[*team.Group], *team)
	}
	matchesByGroup := make(map[string][]models.Match)
	for _, match := range matches {
		if match.Group == nil {
			continue
		}
		matchesByGroup[*match.Group] = append(matchesByGroup[*match.Group], *match)
	}

	result := make(map[string][]models.GroupStanding, len(teamsByGroup))
	for group, groupTeams := range teamsByGroup {
		result[group] = brackets.ComputeStandings(groupTeams, matchesByGroup[group], s.settings.Points)
	}
	return result, nil
}
