package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carromhq/tournament-engine/models"
	"github.com/carromhq/tournament-engine/repositories"
)

func firstGroupMatch(t *testing.T, f *fixture, tournamentID int) *models.Match {
	t.Helper()
	stage := models.StageGroup
	matches, err := f.tournaments.ListMatches(context.Background(), tournamentID, repositories.MatchFilter{Stage: &stage})
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	return matches[0]
}

func TestSubmitResultCompletesMatch(t *testing.T) {
	f := newFixture()
	id := newActiveTournament(t, f)
	ctx := context.Background()

	match := firstGroupMatch(t, f, id)
	winner := match.Team2ID

	updated, err := f.matches.SubmitResult(ctx, match.ID, SubmitResultInput{Score1: 2, Score2: 6, WinnerID: &winner})
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusCompleted, updated.Status)
	assert.Equal(t, 2, updated.Score1)
	assert.Equal(t, 6, updated.Score2)
	require.NotNil(t, updated.WinnerID)
	assert.Equal(t, winner, *updated.WinnerID)
}

func TestSubmitResultDraw(t *testing.T) {
	f := newFixture()
	id := newActiveTournament(t, f)

	match := firstGroupMatch(t, f, id)

	updated, err := f.matches.SubmitResult(context.Background(), match.ID, SubmitResultInput{Score1: 4, Score2: 4})
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusCompleted, updated.Status)
	assert.Nil(t, updated.WinnerID)
	assert.True(t, updated.IsDraw())
}

func TestSubmitResultRejectsNegativeScore(t *testing.T) {
	f := newFixture()
	id := newActiveTournament(t, f)

	match := firstGroupMatch(t, f, id)

	_, err := f.matches.SubmitResult(context.Background(), match.ID, SubmitResultInput{Score1: -1, Score2: 3})
	assert.ErrorIs(t, err, ErrNegativeScore)

	// A rejected submission leaves the match untouched.
	kept, err := f.matches.GetMatch(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusScheduled, kept.Status)
}

func TestSubmitResultRejectsForeignWinner(t *testing.T) {
	f := newFixture()
	id := newActiveTournament(t, f)

	match := firstGroupMatch(t, f, id)
	outsider := match.Team1ID + match.Team2ID + 100

	_, err := f.matches.SubmitResult(context.Background(), match.ID, SubmitResultInput{Score1: 5, Score2: 3, WinnerID: &outsider})
	assert.ErrorIs(t, err, ErrInvalidTeamReference)
}

func TestSubmitResultUnknownMatch(t *testing.T) {
	f := newFixture()

	_, err := f.matches.SubmitResult(context.Background(), 999, SubmitResultInput{Score1: 1, Score2: 0})
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestResubmitResultReplacesPrevious(t *testing.T) {
	f := newFixture()
	id := newActiveTournament(t, f)
	ctx := context.Background()

	match := firstGroupMatch(t, f, id)
	winner1 := match.Team1ID
	winner2 := match.Team2ID

	_, err := f.matches.SubmitResult(ctx, match.ID, SubmitResultInput{Score1: 5, Score2: 3, WinnerID: &winner1})
	require.NoError(t, err)

	// Correcting the result swaps the winner entirely.
	updated, err := f.matches.SubmitResult(ctx, match.ID, SubmitResultInput{Score1: 3, Score2: 5, WinnerID: &winner2})
	require.NoError(t, err)

	assert.Equal(t, 3, updated.Score1)
	assert.Equal(t, 5, updated.Score2)
	assert.Equal(t, winner2, *updated.WinnerID)

	require.NotNil(t, match.Group)
	standings, err := f.standings.GroupStandings(ctx, id, *match.Group)
	require.NoError(t, err)

	points := make(map[int]int, len(standings))
	for _, s := range standings {
		points[s.TeamID] = s.Points
	}
	assert.Equal(t, 0, points[winner1])
	assert.Equal(t, 2, points[winner2])
}

func TestStandingsRecomputedFromResults(t *testing.T) {
	f := newFixture()
	id := newActiveTournament(t, f)
	ctx := context.Background()

	playStage(t, f, id, models.StageGroup)

	all, err := f.standings.AllGroupStandings(ctx, id)
	require.NoError(t, err)
	require.Len(t, all, 2)

	for _, rows := range all {
		require.Len(t, rows, 4)
		total := 0
		for _, row := range rows {
			assert.Equal(t, 3, row.Played)
			total += row.Points
		}
		// Six decisive matches award two points each.
		assert.Equal(t, 12, total)
		// Ranked by points descending.
		for i := 1; i < len(rows); i++ {
			assert.GreaterOrEqual(t, rows[i-1].Points, rows[i].Points)
		}
	}
}

func TestGroupStandingsUnknownGroup(t *testing.T) {
	f := newFixture()
	id := newActiveTournament(t, f)

	_, err := f.standings.GroupStandings(context.Background(), id, "Z")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestScheduledMatchesDoNotScoreStandings(t *testing.T) {
	f := newFixture()
	id := newActiveTournament(t, f)
	ctx := context.Background()

	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	_, err := f.tournaments.ScheduleMatches(ctx, id, start, ScheduleOptions{})
	require.NoError(t, err)

	all, err := f.standings.AllGroupStandings(ctx, id)
	require.NoError(t, err)
	for _, rows := range all {
		for _, row := range rows {
			assert.Zero(t, row.Played)
			assert.Zero(t, row.Points)
		}
	}
}
