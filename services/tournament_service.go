package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carromhq/tournament-engine/brackets"
	"github.com/carromhq/tournament-engine/models"
	"github.com/carromhq/tournament-engine/repositories"
)

type TeamInput struct {
	Name         string   `json:"name"`
	Participants []string `json:"participants,omitempty"`
}

// ScheduleOptions tunes one scheduling pass. Zero values fall back to the
// configured defaults.
type ScheduleOptions struct {
	MatchDuration    time.Duration
	ParallelCapacity int
	// AvoidTeamClashes reorders pending matches so teams do not play twice
	// in the same slot where that is avoidable. Off by default: the plain
	// positional assignment is the documented baseline behaviour.
	AvoidTeamClashes bool
}

type TournamentService interface {
	CreateTournament(ctx context.Context, name string, startDate time.Time) (*models.Tournament, error)
	RegisterTeams(ctx context.Context, tournamentID int, inputs []TeamInput) ([]*models.Team, error)
	DivideIntoGroups(ctx context.Context, tournamentID int, shuffle bool) (map[string][]*models.Team, error)
	GenerateGroupFixtures(ctx context.Context, tournamentID int) ([]*models.Match, error)
	ScheduleMatches(ctx context.Context, tournamentID int, start time.Time, opts ScheduleOptions) ([]*models.Match, error)
	GetTournament(ctx context.Context, tournamentID int) (*models.Tournament, error)
	ListMatches(ctx context.Context, tournamentID int, filter repositories.MatchFilter) ([]*models.Match, error)
	Champion(ctx context.Context, tournamentID int) (*models.Team, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	settings       Settings
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	settings Settings,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		settings:       settings,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, name string, startDate time.Time) (*models.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	tournament := &models.Tournament{
		Name:      name,
		StartDate: startDate,
		Status:    models.StatusSetup,
	}
	if err := s.tournamentRepo.Create(ctx, nil, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

// RegisterTeams creates the given teams in input order. Team identity is
// immutable after this point; only the group assignment changes later.
func (s *tournamentService) RegisterTeams(ctx context.Context, tournamentID int, inputs []TeamInput) ([]*models.Team, error) {
	if _, err := s.getTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, ErrNoTeamsRegistered
	}

	seen := make(map[string]bool, len(inputs))
	teams := make([]*models.Team, 0, len(inputs))
	for _, input := range inputs {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return nil, ErrTeamNameRequired
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrTeamNameConflict, name)
		}
		seen[name] = true

		participants := make([]string, 0, len(input.Participants))
		for _, p := range input.Participants {
			if p = strings.TrimSpace(p); p != "" {
				participants = append(participants, p)
			}
		}
		teams = append(teams, &models.Team{
			TournamentID: tournamentID,
			Name:         name,
			Participants: participants,
		})
	}

	for _, team := range teams {
		if err := s.teamRepo.Create(ctx, nil, team); err != nil {
			if errors.Is(err, repositories.ErrTeamNameConflict) {
				return nil, fmt.Errorf("%w: %q", ErrTeamNameConflict, team.Name)
			}
			return nil, fmt.Errorf("failed to register team %q: %w", team.Name, err)
		}
	}
	return teams, nil
}

// DivideIntoGroups deals the registered teams into the configured number of
// groups, named "A", "B" and so on. With shuffle disabled the deal follows
// team registration order and is fully reproducible.
func (s *tournamentService) DivideIntoGroups(ctx context.Context, tournamentID int, shuffle bool) (map[string][]*models.Team, error) {
	if _, err := s.getTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	stage := models.StageGroup
	existing, err := s.matchRepo.ListByTournament(ctx, tournamentID, repositories.MatchFilter{Stage: &stage})
	if err != nil {
		return nil, fmt.Errorf("failed to check existing fixtures: %w", err)
	}
	if len(existing) > 0 {
		// regrouping under generated fixtures would orphan them
		return nil, fmt.Errorf("%w: group fixtures exist, reset the group stage first", ErrStageAlreadyGenerated)
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	if len(teams) == 0 {
		return nil, ErrNoTeamsRegistered
	}

	dealt := make([]*models.Team, len(teams))
	copy(dealt, teams)
	if shuffle {
		rand.Shuffle(len(dealt), func(i, j int) { dealt[i], dealt[j] = dealt[j], dealt[i] })
	}

	groups := make(map[string][]*models.Team, s.settings.NumberOfGroups)
	for i, team := range dealt {
		groupName := string(rune('A' + i%s.settings.NumberOfGroups))
		team.Group = &groupName
		if err := s.teamRepo.UpdateGroup(ctx, nil, team.ID, team.Group); err != nil {
			return nil, fmt.Errorf("failed to assign team %d to group %s: %w", team.ID, groupName, err)
		}
		groups[groupName] = append(groups[groupName], team)
	}
	return groups, nil
}

// GenerateGroupFixtures builds the full round-robin of every group. Groups
// are processed in name order so match ids are contiguous per group and the
// whole fixture list is reproducible.
func (s *tournamentService) GenerateGroupFixtures(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	if _, err := s.getTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	stage := models.StageGroup
	existing, err := s.matchRepo.ListByTournament(ctx, tournamentID, repositories.MatchFilter{Stage: &stage})
	if err != nil {
		return nil, fmt.Errorf("failed to check existing fixtures: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: group fixtures", ErrStageAlreadyGenerated)
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	if len(teams) == 0 {
		return nil, ErrNoTeamsRegistered
	}

	byGroup := make(map[string][]int)
	for _, team := range teams {
		if team.Group == nil {
			return nil, ErrGroupsNotAssigned
		}
		byGroup[*team.Group] = append(byGroup[*team.Group], team.ID)
	}

	groupNames := make([]string, 0, len(byGroup))
	for g := range byGroup {
		groupNames = append(groupNames, g)
	}
	sort.Strings(groupNames)

	matches := make([]*models.Match, 0)
	for _, g := range groupNames {
		pairings, err := brackets.RoundRobinPairings(byGroup[g])
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", g, err)
		}
		groupName := g
		for _, p := range pairings {
			matches = append(matches, &models.Match{
				TournamentID: tournamentID,
				Team1ID:      p.Team1ID,
				Team2ID:      p.Team2ID,
				Stage:        models.StageGroup,
				Group:        &groupName,
				Status:       models.MatchStatusScheduled,
			})
		}
	}

	if err := s.matchRepo.CreateBatch(ctx, nil, matches); err != nil {
		return nil, fmt.Errorf("failed to persist group fixtures: %w", err)
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, nil, tournamentID, models.StatusActive); err != nil {
		return nil, fmt.Errorf("failed to activate tournament: %w", err)
	}
	return matches, nil
}

// ScheduleMatches assigns slot times to every not-yet-completed match.
// Completed matches keep their recorded times; re-running after a capacity
// change therefore only moves what still can move.
func (s *tournamentService) ScheduleMatches(ctx context.Context, tournamentID int, start time.Time, opts ScheduleOptions) ([]*models.Match, error) {
	if _, err := s.getTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	duration := opts.MatchDuration
	if duration == 0 {
		duration = s.settings.MatchDuration
	}
	capacity := opts.ParallelCapacity
	if capacity == 0 {
		capacity = s.settings.ParallelCapacity
	}

	pending := models.MatchStatusScheduled
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, repositories.MatchFilter{Status: &pending})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending matches: %w", err)
	}
	if len(matches) == 0 {
		return nil, ErrNothingToSchedule
	}

	// Stage order first, then id: earlier stages always play earlier.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Stage != matches[j].Stage {
			return matches[i].Stage.Order() < matches[j].Stage.Order()
		}
		return matches[i].ID < matches[j].ID
	})

	ordered := matches
	if opts.AvoidTeamClashes {
		values := make([]models.Match, len(matches))
		for i, m := range matches {
			values[i] = *m
		}
		reordered := brackets.OrderAvoidingClashes(values, capacity)
		ordered = make([]*models.Match, len(reordered))
		for i := range reordered {
			m := reordered[i]
			ordered[i] = &m
		}
	}

	slots, err := brackets.ScheduleSlots(len(ordered), start, duration, capacity)
	if err != nil {
		return nil, err
	}

	for i, match := range ordered {
		if err := s.matchRepo.UpdateSchedule(ctx, nil, match.ID, slots[i].Start, slots[i].End); err != nil {
			return nil, fmt.Errorf("failed to schedule match %d: %w", match.ID, err)
		}
		match.ScheduledStart = &slots[i].Start
		match.ScheduledEnd = &slots[i].End
	}
	return ordered, nil
}

// GetTournament returns the tournament with its teams and matches attached,
// loaded in parallel.
func (s *tournamentService) GetTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teams, err := s.teamRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		tournament.Teams = make([]models.Team, len(teams))
		for i, t := range teams {
			tournament.Teams[i] = *t
		}
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gCtx, tournamentID, repositories.MatchFilter{})
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		tournament.Matches = make([]models.Match, len(matches))
		for i, m := range matches {
			tournament.Matches[i] = *m
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) ListMatches(ctx context.Context, tournamentID int, filter repositories.MatchFilter) ([]*models.Match, error) {
	if _, err := s.getTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// Champion resolves the tournament winner: the decided winner of the
// completed final.
func (s *tournamentService) Champion(ctx context.Context, tournamentID int) (*models.Team, error) {
	if _, err := s.getTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	stage := models.StageFinal
	finals, err := s.matchRepo.ListByTournament(ctx, tournamentID, repositories.MatchFilter{Stage: &stage})
	if err != nil {
		return nil, fmt.Errorf("failed to list final matches: %w", err)
	}
	if len(finals) == 0 {
		return nil, fmt.Errorf("%w: final has not been generated", ErrIncompleteStage)
	}
	final := finals[0]
	if final.Status != models.MatchStatusCompleted {
		return nil, fmt.Errorf("%w: final has not been played", ErrIncompleteStage)
	}
	if final.WinnerID == nil {
		return nil, ErrInvalidKnockoutResult
	}

	team, err := s.teamRepo.GetByID(ctx, *final.WinnerID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load champion team %d: %w", *final.WinnerID, err)
	}
	return team, nil
}

func (s *tournamentService) getTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}
	return tournament, nil
}
