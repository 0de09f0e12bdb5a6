package repository

import (
	"testing"
	"time"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/progression"
	"skillkart_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestFindResourceWalksHierarchy(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRoadmapRepository(db, nil, time.Minute)
	a := testutil.PublicRoadmap(t, db, "A", "a", 1, 1)
	b := testutil.PublicRoadmap(t, db, "B", "b", 1, 1)

	week := a.Weeks[0]
	step := week.Steps[0]
	res := step.Resources[0]

	w, s, r, err := repo.FindResource(t.Context(), a.ID, week.ID, step.ID, res.ID)
	require.NoError(t, err)
	assert.Equal(t, week.ID, w.ID)
	assert.Equal(t, step.ID, s.ID)
	assert.Equal(t, res.ID, r.ID)

	// 周属于另一条路线
	w, _, _, err = repo.FindResource(t.Context(), b.ID, week.ID, step.ID, res.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, w)

	w, s, _, err = repo.FindResource(t.Context(), a.ID, week.ID, b.Weeks[0].Steps[0].ID, res.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NotNil(t, w)
	assert.Nil(t, s)

	_, s, r, err = repo.FindResource(t.Context(), a.ID, week.ID, step.ID, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NotNil(t, s)
	assert.Nil(t, r)
}

func TestMarkResourceCompletedOnlyOnce(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRoadmapRepository(db, nil, time.Minute)
	roadmap := testutil.PublicRoadmap(t, db, "A", "a", 1, 1)
	id := roadmap.Weeks[0].Steps[0].Resources[0].ID

	changed, err := repo.MarkResourceCompleted(t.Context(), id, time.Now())
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkResourceCompleted(t.Context(), id, time.Now())
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestCatalogAndCounts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRoadmapRepository(db, nil, time.Minute)
	user := testutil.CreateUser(t, db, "a@example.com")

	testutil.PublicRoadmap(t, db, "Public", "web-dev", 1, 2)
	own := testutil.BuildRoadmap("Mine", "go", 1, 2)
	own.UserID = user.ID
	require.NoError(t, repo.Create(t.Context(), &own))

	catalog, err := repo.FindPublic(t.Context())
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, "Public", catalog[0].Title)

	for _, r := range own.Weeks[0].Steps[0].Resources {
		_, err := repo.MarkResourceCompleted(t.Context(), r.ID, time.Now())
		require.NoError(t, err)
	}
	require.NoError(t, repo.UpdateProgress(t.Context(), own.ID, model.StatusCompleted, 100, 1))

	n, err := repo.CountCompletedResources(t.Context(), user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.CountCompletedRoadmaps(t.Context(), user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRoadmapCopyIsUniquePerUser(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRoadmapRepository(db, nil, time.Minute)
	user := testutil.CreateUser(t, db, "d@example.com")
	source := testutil.PublicRoadmap(t, db, "Public", "web-dev", 1, 1)

	clone := func() *model.Roadmap {
		r := testutil.BuildRoadmap("Copy", "web-dev", 1, 1)
		r.UserID = user.ID
		r.SourceRoadmapID = &source.ID
		return &r
	}
	require.NoError(t, repo.Create(t.Context(), clone()))
	assert.ErrorIs(t, repo.Create(t.Context(), clone()), gorm.ErrDuplicatedKey)

	// 自建路线没有来源，不受限制
	for i := 0; i < 2; i++ {
		own := testutil.BuildRoadmap("Mine", "go", 1, 1)
		own.UserID = user.ID
		require.NoError(t, repo.Create(t.Context(), &own))
	}
}

func TestBadgeAwardIsUnique(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBadgeRepository(db)
	user := testutil.CreateUser(t, db, "b@example.com")

	badge := &model.Badge{
		Code:        "first-step",
		Name:        "First Step",
		Category:    model.BadgeMastery,
		Requirement: datatypes.NewJSONType(model.BadgeRequirement{Kind: model.RequirementResourcesCompleted, Threshold: 1}),
	}
	require.NoError(t, repo.Create(t.Context(), badge))

	created, err := repo.Award(t.Context(), user.ID, badge.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Award(t.Context(), user.ID, badge.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, created)

	owned, err := repo.OwnedBadgeIDs(t.Context(), user.ID)
	require.NoError(t, err)
	assert.True(t, owned[badge.ID])
	assert.Len(t, progression.EligibleBadges([]model.Badge{*badge}, owned, progression.Stats{ResourcesCompleted: 5}), 0)
}

func TestUserStreakAndXP(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	user := testutil.CreateUser(t, db, "c@example.com")

	require.NoError(t, repo.AddXP(t.Context(), user.ID, 40))
	require.NoError(t, repo.AddXP(t.Context(), user.ID, 2))
	assert.ErrorIs(t, repo.AddXP(t.Context(), "missing", 1), gorm.ErrRecordNotFound)

	require.NoError(t, repo.UpdateStreak(t.Context(), user.ID, progression.StreakState{Count: 3, Longest: 5, LastActiveOn: "2024-03-10"}))

	got, err := repo.FindByID(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, got.XP)
	assert.Equal(t, 3, got.StreakCount)
	assert.Equal(t, 5, got.LongestStreak)
	require.NotNil(t, got.LastActiveOn)
	assert.Equal(t, "2024-03-10", *got.LastActiveOn)
}
