package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"skillkart_backend/internal/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfig(t *testing.T) {
	uploads := filepath.Join(t.TempDir(), "uploads")
	dir := writeConfig(t, `
server:
  port: "9090"
  mode: test
database:
  driver: sqlite
  dsn: "file::memory:"
jwt:
  secret: unit-test-secret
  expire_hours: 2
storage:
  type: local
  local_path: `+uploads+`
gamification:
  timezone: Asia/Kolkata
  levels:
    - required_xp: 100
      title: Rookie
    - required_xp: 400
      title: Veteran
  rewards:
    resource_completed: 10
    roadmap_created: 20
    week_base: 5
    week_step: 5
recommendation:
  limit: 6
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 6, cfg.Recommendation.Limit)
	assert.True(t, cfg.Recommendation.BootstrapEnrollment)
	assert.Equal(t, 15, cfg.Gamification.Rewards.WeekReward(2))
	assert.Equal(t, progression.DefaultDailyGoalMinutes, cfg.Gamification.DailyGoalMinutes)

	tiers := cfg.Gamification.Tiers()
	require.Len(t, tiers, 2)
	assert.Equal(t, "Veteran", tiers[1].Title)

	loc, err := cfg.Gamification.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())

	_, err = os.Stat(uploads)
	assert.NoError(t, err)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("STORAGE_TYPE", "minio")
	t.Setenv("STREAK_TIMEZONE", "Europe/Berlin")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "Europe/Berlin", cfg.Gamification.Timezone)
	assert.Equal(t, 25, cfg.Gamification.Rewards.ResourceCompleted)
	assert.Equal(t, 50, cfg.Gamification.Rewards.RoadmapCreated)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing secret", "storage:\n  type: minio\n"},
		{"unknown timezone", "jwt:\n  secret: s\nstorage:\n  type: minio\ngamification:\n  timezone: Nowhere/Land\n"},
		{"zero threshold", "jwt:\n  secret: s\nstorage:\n  type: minio\ngamification:\n  levels:\n    - required_xp: 0\n"},
		{"descending thresholds", "jwt:\n  secret: s\nstorage:\n  type: minio\ngamification:\n  levels:\n    - required_xp: 500\n    - required_xp: 100\n"},
		{"non-positive reward", "jwt:\n  secret: s\nstorage:\n  type: minio\ngamification:\n  rewards:\n    resource_completed: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, progression.ErrConfiguration)
		})
	}
}

func TestValidateReleaseSecret(t *testing.T) {
	cfg := &Config{
		Server:       ServerConfig{Mode: "release"},
		JWT:          JWTConfig{Secret: "short"},
		Gamification: DefaultGamification(),
	}
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "a-much-longer-secret-that-is-32-chars!"
	assert.NoError(t, cfg.Validate())
}
