package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/carromhq/tournament-engine/models"
	"github.com/carromhq/tournament-engine/storage"
)

// SnapshotPublisher uploads a JSON snapshot of the current fixtures and
// standings to object storage. Snapshots are an audit artifact, not state:
// the match records stay the only source of truth and losing an upload
// loses nothing that cannot be regenerated.
type SnapshotPublisher struct {
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewSnapshotPublisher(uploader storage.FileUploader, logger *slog.Logger) *SnapshotPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotPublisher{uploader: uploader, logger: logger}
}

type snapshot struct {
	TournamentID int                               `json:"tournament_id"`
	Label        string                            `json:"label"`
	TakenAt      time.Time                         `json:"taken_at"`
	Matches      []*models.Match                   `json:"matches"`
	Standings    map[string][]models.GroupStanding `json:"standings"`
}

// Publish is best effort: failures are logged, never surfaced, so an object
// store outage cannot block a stage advance.
func (p *SnapshotPublisher) Publish(ctx context.Context, tournamentID int, label string, matches []*models.Match, standings map[string][]models.GroupStanding) {
	snap := snapshot{
		TournamentID: tournamentID,
		Label:        label,
		TakenAt:      time.Now().UTC(),
		Matches:      matches,
		Standings:    standings,
	}

	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		p.logger.Warn("failed to marshal snapshot", slog.Any("error", err))
		return
	}

	key := fmt.Sprintf("tournaments/%d/snapshots/%s-%s.json",
		tournamentID, label, snap.TakenAt.Format("20060102T150405Z"))
	result, err := p.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		p.logger.Warn("failed to upload snapshot",
			slog.String("key", key), slog.Any("error", err))
		return
	}
	p.logger.Info("snapshot published",
		slog.Int("tournament_id", tournamentID),
		slog.String("key", result.Key),
		slog.String("location", result.Location))
}
