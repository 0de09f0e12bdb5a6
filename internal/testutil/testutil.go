// Package testutil 提供基于内存 SQLite 的测试数据库与常用夹具。
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"skillkart_backend/internal/config"
	"skillkart_backend/internal/model"
	"skillkart_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "test-secret"

// NewDB 每个测试独立的内存库。只保留一个连接，事务内外不会互相等待。
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Config 测试用配置：UTC、默认等级表、本地存储
func Config(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Mode: "test"},
		JWT: config.JWTConfig{
			Secret:     JWTSecret,
			ExpireTime: time.Hour,
		},
		Storage: config.StorageConfig{
			Type:      "local",
			LocalPath: t.TempDir(),
			LocalURL:  "/uploads",
		},
		CORS:         config.CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit:    config.RateLimitConfig{MaxRequests: 1000, WindowMinutes: 1},
		Gamification: config.DefaultGamification(),
		Recommendation: config.RecommendationConfig{
			Limit:               4,
			BootstrapEnrollment: true,
		},
	}
}

// CreateUser 直接写入一个学习者
func CreateUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:    email,
		Password: "x",
		Role:     model.Learner,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(user).Error)
	return user
}

// PublicRoadmap 写入一条公共路线：每周一个步骤，每个步骤 resourcesPerStep 个资源
func PublicRoadmap(t *testing.T, db *gorm.DB, title, skillTag string, weeks, resourcesPerStep int) *model.Roadmap {
	t.Helper()
	roadmap := BuildRoadmap(title, skillTag, weeks, resourcesPerStep)
	roadmap.IsPublic = true
	require.NoError(t, db.Create(&roadmap).Error)
	return &roadmap
}

// BuildRoadmap 构造未落库的路线树，周奖励为 50 + 50n
func BuildRoadmap(title, skillTag string, weeks, resourcesPerStep int) model.Roadmap {
	roadmap := model.Roadmap{
		Title:       title,
		SkillTag:    skillTag,
		TotalWeeks:  weeks,
		CurrentWeek: 1,
		Status:      model.StatusNotStarted,
	}
	for n := 1; n <= weeks; n++ {
		step := model.RoadmapStep{Position: 1, Title: fmt.Sprintf("Step %d.1", n), Status: model.StatusNotStarted}
		for i := 1; i <= resourcesPerStep; i++ {
			step.Resources = append(step.Resources, model.Resource{
				Position:         i,
				Title:            fmt.Sprintf("Resource %d.%d", n, i),
				Type:             model.ResourceVideo,
				EstimatedMinutes: 10,
			})
		}
		roadmap.Weeks = append(roadmap.Weeks, model.RoadmapWeek{
			WeekNumber: n,
			Title:      fmt.Sprintf("Week %d", n),
			Status:     model.StatusNotStarted,
			XPReward:   50 + 50*n,
			Steps:      []model.RoadmapStep{step},
		})
	}
	return roadmap
}
