package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/carromhq/tournament-engine/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTeamInvalid       = errors.New("match team conflict or invalid")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
)

// MatchFilter narrows ListByTournament. Nil fields mean "no filter".
type MatchFilter struct {
	Stage  *models.Stage
	Group  *string
	Status *models.MatchStatus
}

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, filter MatchFilter) ([]*models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, score1, score2 int, winnerID *int, status models.MatchStatus) error
	UpdateSchedule(ctx context.Context, exec SQLExecutor, id int, start, end time.Time) error
	DeleteFromStage(ctx context.Context, exec SQLExecutor, tournamentID int, stages []models.Stage) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	executor := r.executor(exec)
	query := `
		INSERT INTO matches
			(tournament_id, team1_id, team2_id, stage, group_name,
			 scheduled_start, scheduled_end, score1, score2, winner_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	for _, match := range matches {
		err := executor.QueryRowContext(ctx, query,
			match.TournamentID, match.Team1ID, match.Team2ID, match.Stage, match.Group,
			match.ScheduledStart, match.ScheduledEnd,
			match.Score1, match.Score2, match.WinnerID, match.Status,
		).Scan(&match.ID, &match.CreatedAt)
		if err != nil {
			return r.handleMatchError(err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, tournament_id, team1_id, team2_id, stage, group_name,
		       scheduled_start, scheduled_end, score1, score2, winner_id, status, created_at
		FROM matches
		WHERE id = $1`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID, &match.TournamentID, &match.Team1ID, &match.Team2ID,
		&match.Stage, &match.Group, &match.ScheduledStart, &match.ScheduledEnd,
		&match.Score1, &match.Score2, &match.WinnerID, &match.Status, &match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, filter MatchFilter) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, tournament_id, team1_id, team2_id, stage, group_name,
		       scheduled_start, scheduled_end, score1, score2, winner_id, status, created_at
		FROM matches
		WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholderIndex := 2

	if filter.Stage != nil {
		queryBuilder.WriteString(" AND stage = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Stage)
		placeholderIndex++
	}
	if filter.Group != nil {
		queryBuilder.WriteString(" AND group_name = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Group)
		placeholderIndex++
	}
	if filter.Status != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Status)
	}

	queryBuilder.WriteString(" ORDER BY id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := rows.Scan(
			&match.ID, &match.TournamentID, &match.Team1ID, &match.Team2ID,
			&match.Stage, &match.Group, &match.ScheduledStart, &match.ScheduledEnd,
			&match.Score1, &match.Score2, &match.WinnerID, &match.Status, &match.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, score1, score2 int, winnerID *int, status models.MatchStatus) error {
	query := `
		UPDATE matches
		SET score1 = $1, score2 = $2, winner_id = $3, status = $4
		WHERE id = $5`

	result, err := r.executor(exec).ExecContext(ctx, query, score1, score2, winnerID, status, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSchedule(ctx context.Context, exec SQLExecutor, id int, start, end time.Time) error {
	query := `UPDATE matches SET scheduled_start = $1, scheduled_end = $2 WHERE id = $3`
	result, err := r.executor(exec).ExecContext(ctx, query, start, end, id)
	if err != nil {
		return fmt.Errorf("failed to update schedule for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteFromStage(ctx context.Context, exec SQLExecutor, tournamentID int, stages []models.Stage) error {
	if len(stages) == 0 {
		return nil
	}
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = string(s)
	}
	query := `DELETE FROM matches WHERE tournament_id = $1 AND stage = ANY($2)`
	_, err := r.executor(exec).ExecContext(ctx, query, tournamentID, pq.Array(names))
	if err != nil {
		return fmt.Errorf("failed to delete matches from stage %s: %w", names[0], err)
	}
	return nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_team1_id_fkey", "matches_team2_id_fkey", "matches_winner_id_fkey":
			return ErrMatchTeamInvalid
		}
	}
	return err
}
