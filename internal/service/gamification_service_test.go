package service

import (
	"testing"

	"skillkart_backend/internal/config"
	"skillkart_backend/internal/model"
	"skillkart_backend/internal/progression"
	"skillkart_backend/internal/util"
	"skillkart_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/datatypes"
)

func TestAwardXP(t *testing.T) {
	env := newTestEnv(t)
	session := env.learner(t, "lee@example.com")

	user, err := env.engine.AwardXP(t.Context(), session.UserID, 120, model.ActivityManualAward)
	require.NoError(t, err)
	assert.Equal(t, 120, user.XP)

	user, err = env.engine.AwardXP(t.Context(), session.UserID, 30, "")
	require.NoError(t, err)
	assert.Equal(t, 150, user.XP)

	logs, err := env.activityRepo.Recent(t.Context(), session.UserID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, model.ActivityManualAward, l.Kind)
		assert.Equal(t, "2024-03-10", l.OccurredOn)
	}
}

func TestAwardXPRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	session := env.learner(t, "max@example.com")

	for _, amount := range []int{0, -10} {
		_, err := env.engine.AwardXP(t.Context(), session.UserID, amount, model.ActivityManualAward)
		assert.ErrorIs(t, err, util.ErrInvalidXPAmount)
		assert.ErrorIs(t, err, progression.ErrValidation)
	}
	assert.Zero(t, env.reloadUser(t, session.UserID).XP)

	_, err := env.engine.AwardXP(t.Context(), "missing", 10, model.ActivityManualAward)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestEvaluateBadgesAwardsOnce(t *testing.T) {
	env := newTestEnv(t)
	session := env.learner(t, "ned@example.com")

	badge := &model.Badge{
		Code:        "xp-100",
		Name:        "Century",
		Category:    model.BadgeMastery,
		Tier:        model.BadgeBronze,
		Requirement: datatypes.NewJSONType(model.BadgeRequirement{Kind: model.RequirementXPTotal, Threshold: 100}),
	}
	require.NoError(t, env.badgeRepo.Create(t.Context(), badge))

	_, err := env.engine.AwardXP(t.Context(), session.UserID, 60, model.ActivityManualAward)
	require.NoError(t, err)
	owned, err := env.badgeRepo.FindByUser(t.Context(), session.UserID)
	require.NoError(t, err)
	assert.Empty(t, owned)

	_, err = env.engine.AwardXP(t.Context(), session.UserID, 60, model.ActivityManualAward)
	require.NoError(t, err)

	again, err := env.gamification.EvaluateBadges(t.Context(), session.UserID)
	require.NoError(t, err)
	assert.Empty(t, again)

	owned, err = env.badgeRepo.FindByUser(t.Context(), session.UserID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "xp-100", owned[0].Badge.Code)
}

func TestEvaluateBadgesLogsActivityFailure(t *testing.T) {
	env := newTestEnv(t)
	session := env.learner(t, "nora@example.com")

	badge := &model.Badge{
		Code:        "xp-100",
		Name:        "Century",
		Category:    model.BadgeMastery,
		Tier:        model.BadgeBronze,
		Requirement: datatypes.NewJSONType(model.BadgeRequirement{Kind: model.RequirementXPTotal, Threshold: 100}),
	}
	require.NoError(t, env.badgeRepo.Create(t.Context(), badge))
	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", session.UserID).Update("xp", 150).Error)
	require.NoError(t, env.db.Migrator().DropTable(&model.ActivityLog{}))

	core, logs := observer.New(zapcore.WarnLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	awarded, err := env.gamification.EvaluateBadges(t.Context(), session.UserID)
	require.NoError(t, err)
	require.Len(t, awarded, 1)

	entries := logs.FilterMessage("record badge activity failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "xp-100", entries[0].ContextMap()["badge"])
	assert.Contains(t, entries[0].ContextMap(), "error")
}

func TestLevelAndLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	a := env.learner(t, "olga@example.com")
	b := env.learner(t, "pia@example.com")

	_, err := env.engine.AwardXP(t.Context(), a.UserID, 300, model.ActivityManualAward)
	require.NoError(t, err)
	_, err = env.engine.AwardXP(t.Context(), b.UserID, 100, model.ActivityManualAward)
	require.NoError(t, err)

	lvl, err := env.gamification.Level(env.reloadUser(t, a.UserID))
	require.NoError(t, err)
	assert.Equal(t, 2, lvl.Level)
	assert.Equal(t, "Avid Learner", lvl.Title)

	board, err := env.gamification.GetLeaderboard(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, a.UserID, board[0].UserID)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, "olga", board[0].DisplayName)
	assert.Equal(t, b.UserID, board[1].UserID)
}

func TestApplyConfig(t *testing.T) {
	env := newTestEnv(t)

	bad := config.DefaultGamification()
	bad.Timezone = "Mars/Olympus"
	assert.ErrorIs(t, env.gamification.ApplyConfig(bad), progression.ErrConfiguration)
	assert.Equal(t, "UTC", env.gamification.Settings().Location.String())

	good := config.DefaultGamification()
	good.Rewards.ResourceCompleted = 40
	good.Levels = []config.LevelConfig{{RequiredXP: 100, Title: "Novice"}, {RequiredXP: 300, Title: "Pro"}}
	require.NoError(t, env.gamification.ApplyConfig(good))
	assert.Equal(t, 40, env.gamification.Settings().Rewards.ResourceCompleted)

	session := env.learner(t, "quinn@example.com")
	roadmap := env.createRoadmap(t, session, 2)
	weekID, stepID, res := resourceIDs(roadmap)
	result, err := env.roadmaps.MarkResourceComplete(t.Context(), session, roadmap.ID, weekID, stepID, res[0], true)
	require.NoError(t, err)
	assert.Equal(t, 40, result.XPAwarded)
}
