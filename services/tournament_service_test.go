package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carromhq/tournament-engine/brackets"
	"github.com/carromhq/tournament-engine/models"
	"github.com/carromhq/tournament-engine/repositories"
)

type fixture struct {
	tournamentRepo *repositories.MemoryTournamentRepository
	teamRepo       *repositories.MemoryTeamRepository
	matchRepo      *repositories.MemoryMatchRepository

	tournaments TournamentService
	standings   StandingsService
	matches     MatchService
	brackets    BracketService
}

func newFixture() *fixture {
	f := &fixture{
		tournamentRepo: repositories.NewMemoryTournamentRepository(),
		teamRepo:       repositories.NewMemoryTeamRepository(),
		matchRepo:      repositories.NewMemoryMatchRepository(),
	}
	settings := DefaultSettings()
	f.tournaments = NewTournamentService(f.tournamentRepo, f.teamRepo, f.matchRepo, settings)
	f.standings = NewStandingsService(f.teamRepo, f.matchRepo, settings)
	f.matches = NewMatchService(f.matchRepo, f.standings, nil)
	f.brackets = NewBracketService(f.tournamentRepo, f.matchRepo, f.standings, settings, nil, nil, nil)
	return f
}

// newActiveTournament creates a tournament with eight registered teams dealt
// into two groups, with the full group round-robin generated.
func newActiveTournament(t *testing.T, f *fixture) int {
	return newActiveTournamentWithTeams(t, f, 8)
}

func newActiveTournamentWithTeams(t *testing.T, f *fixture, teamCount int) int {
	t.Helper()
	ctx := context.Background()

	tournament, err := f.tournaments.CreateTournament(ctx, "Spring Open", time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	inputs := make([]TeamInput, 0, teamCount)
	for i := 1; i <= teamCount; i++ {
		inputs = append(inputs, TeamInput{Name: fmt.Sprintf("Team %d", i)})
	}
	_, err = f.tournaments.RegisterTeams(ctx, tournament.ID, inputs)
	require.NoError(t, err)

	_, err = f.tournaments.DivideIntoGroups(ctx, tournament.ID, false)
	require.NoError(t, err)

	_, err = f.tournaments.GenerateGroupFixtures(ctx, tournament.ID)
	require.NoError(t, err)

	return tournament.ID
}

// playStage completes every pending match of the stage, team1 winning 5-3.
func playStage(t *testing.T, f *fixture, tournamentID int, stage models.Stage) {
	t.Helper()
	ctx := context.Background()

	list, err := f.tournaments.ListMatches(ctx, tournamentID, repositories.MatchFilter{Stage: &stage})
	require.NoError(t, err)
	for _, m := range list {
		if m.Status == models.MatchStatusCompleted {
			continue
		}
		winner := m.Team1ID
		_, err := f.matches.SubmitResult(ctx, m.ID, SubmitResultInput{Score1: 5, Score2: 3, WinnerID: &winner})
		require.NoError(t, err)
	}
}

func TestCreateTournamentRequiresName(t *testing.T) {
	f := newFixture()

	_, err := f.tournaments.CreateTournament(context.Background(), "   ", time.Now())
	assert.ErrorIs(t, err, ErrTournamentNameRequired)
}

func TestRegisterTeamsRejectsDuplicateNames(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament, err := f.tournaments.CreateTournament(ctx, "Cup", time.Now())
	require.NoError(t, err)

	_, err = f.tournaments.RegisterTeams(ctx, tournament.ID, []TeamInput{
		{Name: "Alpha"},
		{Name: "Alpha"},
	})
	assert.ErrorIs(t, err, ErrTeamNameConflict)
}

func TestRegisterTeamsUnknownTournament(t *testing.T) {
	f := newFixture()

	_, err := f.tournaments.RegisterTeams(context.Background(), 42, []TeamInput{{Name: "Alpha"}})
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestDivideIntoGroupsDealsInRegistrationOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament, err := f.tournaments.CreateTournament(ctx, "Cup", time.Now())
	require.NoError(t, err)

	inputs := make([]TeamInput, 0, 8)
	for i := 1; i <= 8; i++ {
		inputs = append(inputs, TeamInput{Name: fmt.Sprintf("Team %d", i)})
	}
	teams, err := f.tournaments.RegisterTeams(ctx, tournament.ID, inputs)
	require.NoError(t, err)

	groups, err := f.tournaments.DivideIntoGroups(ctx, tournament.ID, false)
	require.NoError(t, err)

	require.Len(t, groups, 2)
	require.Len(t, groups["A"], 4)
	require.Len(t, groups["B"], 4)

	// Round-robin deal: 1st, 3rd, 5th, 7th registered teams land in A.
	assert.Equal(t, teams[0].ID, groups["A"][0].ID)
	assert.Equal(t, teams[2].ID, groups["A"][1].ID)
	assert.Equal(t, teams[1].ID, groups["B"][0].ID)
	assert.Equal(t, teams[3].ID, groups["B"][1].ID)
}

func TestDivideIntoGroupsRejectedOnceFixturesExist(t *testing.T) {
	f := newFixture()
	id := newActiveTournament(t, f)

	_, err := f.tournaments.DivideIntoGroups(context.Background(), id, false)
	assert.ErrorIs(t, err, ErrStageAlreadyGenerated)
}

func TestGenerateGroupFixturesProducesFullRoundRobin(t *testing.T) {
	f := newFixture()
	id := newActiveTournament(t, f)
	ctx := context.Background()

	stage := models.StageGroup
	matches, err := f.tournaments.ListMatches(ctx, id, repositories.MatchFilter{Stage: &stage})
	require.NoError(t, err)
	// Two groups of four: C(4,2) pairings each.
	assert.Len(t, matches, 12)

	for _, m := range matches {
		require.NotNil(t, m.Group)
		assert.Equal(t, models.MatchStatusScheduled, m.Status)
	}

	tournament, err := f.tournaments.GetTournament(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, tournament.Status)
}

func TestGenerateGroupFixturesUndersizedGroup(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament, err := f.tournaments.CreateTournament(ctx, "Cup", time.Now())
	require.NoError(t, err)

	// Three teams dealt into two groups leave group B with a single team,
	// which cannot form a round-robin.
	_, err = f.tournaments.RegisterTeams(ctx, tournament.ID, []TeamInput{
		{Name: "Alpha"}, {Name: "Beta"}, {Name: "Gamma"},
	})
	require.NoError(t, err)
	_, err = f.tournaments.DivideIntoGroups(ctx, tournament.ID, false)
	require.NoError(t, err)

	_, err = f.tournaments.GenerateGroupFixtures(ctx, tournament.ID)
	assert.ErrorIs(t, err, brackets.ErrInvalidGroupSize)

	// Nothing half-written: no fixtures, tournament still in setup.
	matches, err := f.tournaments.ListMatches(ctx, tournament.ID, repositories.MatchFilter{})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestGenerateGroupFixturesTwiceFails(t *testing.T) {
	f := newFixture()
	id := newActiveTournament(t, f)

	_, err := f.tournaments.GenerateGroupFixtures(context.Background(), id)
	assert.ErrorIs(t, err, ErrStageAlreadyGenerated)
}

func TestGenerateGroupFixturesRequiresGroups(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament, err := f.tournaments.CreateTournament(ctx, "Cup", time.Now())
	require.NoError(t, err)
	_, err = f.tournaments.RegisterTeams(ctx, tournament.ID, []TeamInput{{Name: "Alpha"}, {Name: "Beta"}})
	require.NoError(t, err)

	_, err = f.tournaments.GenerateGroupFixtures(ctx, tournament.ID)
	assert.ErrorIs(t, err, ErrGroupsNotAssigned)
}

func TestScheduleMatchesAssignsSequentialSlots(t *testing.T) {
	f := newFixture()
	id := newActiveTournament(t, f)
	ctx := context.Background()

	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	matches, err := f.tournaments.ScheduleMatches(ctx, id, start, ScheduleOptions{})
	require.NoError(t, err)
	require.Len(t, matches, 12)

	duration := DefaultSettings().MatchDuration
	for i, m := range matches {
		require.NotNil(t, m.ScheduledStart)
		require.NotNil(t, m.ScheduledEnd)
		assert.Equal(t, start.Add(time.Duration(i)*duration), *m.ScheduledStart)
		assert.Equal(t, start.Add(time.Duration(i+1)*duration), *m.ScheduledEnd)
	}
}

func TestScheduleMatchesSkipsCompleted(t *testing.T) {
	f := newFixture()
	id := newActiveTournament(t, f)
	ctx := context.Background()

	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	_, err := f.tournaments.ScheduleMatches(ctx, id, start, ScheduleOptions{})
	require.NoError(t, err)

	all, err := f.tournaments.ListMatches(ctx, id, repositories.MatchFilter{})
	require.NoError(t, err)
	first := all[0]
	winner := first.Team1ID
	_, err = f.matches.SubmitResult(ctx, first.ID, SubmitResultInput{Score1: 7, Score2: 0, WinnerID: &winner})
	require.NoError(t, err)

	// Rescheduling to a later start moves only the remaining matches.
	later := start.Add(2 * time.Hour)
	rescheduled, err := f.tournaments.ScheduleMatches(ctx, id, later, ScheduleOptions{})
	require.NoError(t, err)
	assert.Len(t, rescheduled, 11)

	kept, err := f.matches.GetMatch(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, start, *kept.ScheduledStart)
}

func TestScheduleMatchesNothingPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament, err := f.tournaments.CreateTournament(ctx, "Cup", time.Now())
	require.NoError(t, err)

	_, err = f.tournaments.ScheduleMatches(ctx, tournament.ID, time.Now(), ScheduleOptions{})
	assert.ErrorIs(t, err, ErrNothingToSchedule)
}

func TestChampionBeforeFinalFails(t *testing.T) {
	f := newFixture()
	id := newActiveTournament(t, f)

	_, err := f.tournaments.Champion(context.Background(), id)
	assert.ErrorIs(t, err, ErrIncompleteStage)
}
