package database_test

import (
	"testing"

	"skillkart_backend/internal/config"
	"skillkart_backend/internal/model"
	"skillkart_backend/internal/testutil"
	"skillkart_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{"", "mysql"},
		{"mysql", "mysql"},
		{"postgres", "postgres"},
		{"sqlite", "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			d, err := database.Dialector(&config.DatabaseConfig{Driver: tt.driver, DBName: "skillkart"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}

	_, err := database.Dialector(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestSeedFromFile(t *testing.T) {
	db := testutil.NewDB(t)

	seed, err := database.LoadSeedFile("../../configs/seed.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, seed.Badges)
	require.NotEmpty(t, seed.Roadmaps)

	require.NoError(t, database.Seed(db, seed))
	// 再次执行不会重复写入
	require.NoError(t, database.Seed(db, seed))

	var badges, roadmaps int64
	require.NoError(t, db.Model(&model.Badge{}).Count(&badges).Error)
	require.NoError(t, db.Model(&model.Roadmap{}).Where("is_public = ?", true).Count(&roadmaps).Error)
	assert.EqualValues(t, len(seed.Badges), badges)
	assert.EqualValues(t, len(seed.Roadmaps), roadmaps)

	var first model.Roadmap
	require.NoError(t, db.Preload("Weeks").Where("skill_tag = ?", seed.Roadmaps[0].SkillTag).First(&first).Error)
	assert.Equal(t, len(seed.Roadmaps[0].Weeks), first.TotalWeeks)
	for _, w := range first.Weeks {
		assert.Positive(t, w.XPReward)
	}
}

func TestSeedRejectsInvalidBadge(t *testing.T) {
	db := testutil.NewDB(t)
	err := database.Seed(db, &database.SeedFile{
		Badges: []database.SeedBadge{{
			Code:        "broken",
			Name:        "Broken",
			Category:    "streak",
			Requirement: model.BadgeRequirement{Kind: "karma", Threshold: 1},
		}},
	})
	assert.Error(t, err)
}

func TestSeedNormalizesSkillTag(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, database.Seed(db, &database.SeedFile{
		Roadmaps: []database.SeedRoadmap{{
			Title:    "Frontend Basics",
			SkillTag: "  Web-Dev ",
			Weeks:    []database.SeedWeek{{Title: "HTML"}},
		}},
	}))

	var roadmap model.Roadmap
	require.NoError(t, db.Where("title = ?", "Frontend Basics").First(&roadmap).Error)
	assert.Equal(t, "web-dev", roadmap.SkillTag)
}
