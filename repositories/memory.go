package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/carromhq/tournament-engine/models"
)

// In-memory implementations of the repository interfaces. They back the
// service tests and are a complete storage medium in their own right for
// single-process deployments: matches are the only mutable record, guarded
// by one mutex per store to match the single-writer model.

type MemoryTournamentRepository struct {
	mu     sync.RWMutex
	nextID int
	items  map[int]models.Tournament
}

func NewMemoryTournamentRepository() *MemoryTournamentRepository {
	return &MemoryTournamentRepository{nextID: 1, items: make(map[int]models.Tournament)}
}

func (r *MemoryTournamentRepository) Create(_ context.Context, _ SQLExecutor, tournament *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tournament.ID = r.nextID
	r.nextID++
	tournament.CreatedAt = time.Now()
	r.items[tournament.ID] = *tournament
	return nil
}

func (r *MemoryTournamentRepository) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return &t, nil
}

func (r *MemoryTournamentRepository) UpdateStatus(_ context.Context, _ SQLExecutor, id int, status models.TournamentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return ErrTournamentNotFound
	}
	t.Status = status
	r.items[id] = t
	return nil
}

type MemoryTeamRepository struct {
	mu     sync.RWMutex
	nextID int
	items  map[int]models.Team
}

func NewMemoryTeamRepository() *MemoryTeamRepository {
	return &MemoryTeamRepository{nextID: 1, items: make(map[int]models.Team)}
}

func (r *MemoryTeamRepository) Create(_ context.Context, _ SQLExecutor, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.TournamentID == team.TournamentID && existing.Name == team.Name {
			return ErrTeamNameConflict
		}
	}
	team.ID = r.nextID
	r.nextID++
	team.CreatedAt = time.Now()
	r.items[team.ID] = *team
	return nil
}

func (r *MemoryTeamRepository) GetByID(_ context.Context, id int) (*models.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[id]
	if !ok {
		return nil, ErrTeamNotFound
	}
	return &t, nil
}

func (r *MemoryTeamRepository) ListByTournament(_ context.Context, tournamentID int) ([]*models.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	teams := make([]*models.Team, 0)
	for _, t := range r.items {
		if t.TournamentID == tournamentID {
			team := t
			teams = append(teams, &team)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (r *MemoryTeamRepository) UpdateGroup(_ context.Context, _ SQLExecutor, teamID int, group *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[teamID]
	if !ok {
		return ErrTeamNotFound
	}
	t.Group = group
	r.items[teamID] = t
	return nil
}

type MemoryMatchRepository struct {
	mu     sync.RWMutex
	nextID int
	items  map[int]models.Match
}

func NewMemoryMatchRepository() *MemoryMatchRepository {
	return &MemoryMatchRepository{nextID: 1, items: make(map[int]models.Match)}
}

func (r *MemoryMatchRepository) CreateBatch(_ context.Context, _ SQLExecutor, matches []*models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, match := range matches {
		match.ID = r.nextID
		r.nextID++
		match.CreatedAt = time.Now()
		r.items[match.ID] = *match
	}
	return nil
}

func (r *MemoryMatchRepository) GetByID(_ context.Context, id int) (*models.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.items[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return &m, nil
}

func (r *MemoryMatchRepository) ListByTournament(_ context.Context, tournamentID int, filter MatchFilter) ([]*models.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*models.Match, 0)
	for _, m := range r.items {
		if m.TournamentID != tournamentID {
			continue
		}
		if filter.Stage != nil && m.Stage != *filter.Stage {
			continue
		}
		if filter.Group != nil && (m.Group == nil || *m.Group != *filter.Group) {
			continue
		}
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		match := m
		matches = append(matches, &match)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}

func (r *MemoryMatchRepository) UpdateResult(_ context.Context, _ SQLExecutor, id int, score1, score2 int, winnerID *int, status models.MatchStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return ErrMatchNotFound
	}
	m.Score1 = score1
	m.Score2 = score2
	m.WinnerID = winnerID
	m.Status = status
	r.items[id] = m
	return nil
}

func (r *MemoryMatchRepository) UpdateSchedule(_ context.Context, _ SQLExecutor, id int, start, end time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return ErrMatchNotFound
	}
	m.ScheduledStart = &start
	m.ScheduledEnd = &end
	r.items[id] = m
	return nil
}

func (r *MemoryMatchRepository) DeleteFromStage(_ context.Context, _ SQLExecutor, tournamentID int, stages []models.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	drop := make(map[models.Stage]bool, len(stages))
	for _, s := range stages {
		drop[s] = true
	}
	for id, m := range r.items {
		if m.TournamentID == tournamentID && drop[m.Stage] {
			delete(r.items, id)
		}
	}
	return nil
}
