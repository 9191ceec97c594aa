package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/tournaments?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("ADMIN_KEY_HASH", "$2a$10$abcdefghijklmnopqrstuv")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 20*time.Minute, cfg.MatchDuration)
	assert.Equal(t, 2, cfg.PointsPerWin)
	assert.Equal(t, 1, cfg.PointsPerDraw)
	assert.Equal(t, 0, cfg.PointsPerLoss)
	assert.Equal(t, 2, cfg.NumberOfGroups)
	assert.Equal(t, 8, cfg.KnockoutQualifiers)
	assert.Equal(t, 1, cfg.ParallelMatches)
	assert.False(t, cfg.SnapshotsEnabled())
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("MATCH_DURATION_MINUTES", "45")
	t.Setenv("NUMBER_OF_GROUPS", "4")
	t.Setenv("KNOCKOUT_QUALIFIERS", "8")
	t.Setenv("PARALLEL_MATCHES", "3")
	t.Setenv("R2_ACCOUNT_ID", "acct")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, 45*time.Minute, cfg.MatchDuration)
	assert.Equal(t, 4, cfg.NumberOfGroups)
	assert.Equal(t, 3, cfg.ParallelMatches)
	assert.True(t, cfg.SnapshotsEnabled())
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("ADMIN_KEY_HASH", "hash")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsOddGroupCount(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("NUMBER_OF_GROUPS", "3")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsIndivisibleQualifiers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("NUMBER_OF_GROUPS", "4")
	t.Setenv("KNOCKOUT_QUALIFIERS", "6")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}
