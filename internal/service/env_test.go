package service

import (
	"testing"
	"time"

	"skillkart_backend/internal/config"
	"skillkart_backend/internal/model"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/testutil"
	"skillkart_backend/internal/util"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db  *gorm.DB
	cfg *config.Config
	now time.Time

	userRepo     *repository.UserRepository
	profileRepo  *repository.ProfileRepository
	roadmapRepo  *repository.RoadmapRepository
	badgeRepo    *repository.BadgeRepository
	activityRepo *repository.ActivityRepository
	followRepo   *repository.FollowRepository

	gamification *GamificationService
	profiles     *ProfileService
	roadmaps     *RoadmapService
	users        *UserService
	follows      *FollowService
	dashboard    *DashboardService
	auth         *AuthService
	engine       *Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		db:  testutil.NewDB(t),
		cfg: testutil.Config(t),
		now: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	env.userRepo = repository.NewUserRepository(env.db)
	env.profileRepo = repository.NewProfileRepository(env.db)
	env.roadmapRepo = repository.NewRoadmapRepository(env.db, nil, time.Minute)
	env.badgeRepo = repository.NewBadgeRepository(env.db)
	env.activityRepo = repository.NewActivityRepository(env.db)
	env.followRepo = repository.NewFollowRepository(env.db, nil)

	g, err := NewGamificationService(env.db, env.userRepo, env.badgeRepo, env.activityRepo,
		env.roadmapRepo, env.followRepo, env.cfg.Gamification)
	require.NoError(t, err)
	g.Now = func() time.Time { return env.now }
	env.gamification = g

	storage := NewStorageService(env.cfg)
	env.profiles = NewProfileService(env.profileRepo)
	env.roadmaps = NewRoadmapService(env.db, env.roadmapRepo, env.profileRepo, g, env.cfg.Recommendation)
	env.users = NewUserService(env.userRepo, env.badgeRepo, env.followRepo, g, storage)
	env.follows = NewFollowService(env.followRepo, env.users, g)
	env.dashboard = NewDashboardService(env.userRepo, env.profileRepo, env.roadmapRepo, env.activityRepo, g, env.roadmaps)
	env.auth = NewAuthService(env.userRepo, env.cfg)
	env.engine = NewEngine(env.users, env.profiles, env.roadmaps, g)
	return env
}

func (e *testEnv) learner(t *testing.T, email string) util.Session {
	t.Helper()
	u := testutil.CreateUser(t, e.db, email)
	return util.Session{UserID: u.ID, Role: u.Role, Email: u.Email}
}

func (e *testEnv) reloadUser(t *testing.T, id string) *model.User {
	t.Helper()
	u, err := e.userRepo.FindByID(t.Context(), id)
	require.NoError(t, err)
	return u
}

// createRoadmap 一周一个步骤，步骤下 n 个资源
func (e *testEnv) createRoadmap(t *testing.T, session util.Session, resources int) *model.Roadmap {
	t.Helper()
	step := StepInput{Title: "Basics"}
	for i := 0; i < resources; i++ {
		step.Resources = append(step.Resources, ResourceInput{
			Title:            "Resource",
			Type:             model.ResourceVideo,
			EstimatedMinutes: 20,
		})
	}
	roadmap, err := e.roadmaps.CreateRoadmap(t.Context(), session, CreateRoadmapInput{
		Title:      "Go in a week",
		SkillTag:   "golang",
		TotalWeeks: 1,
		Weeks:      []WeekInput{{Title: "Intro", Steps: []StepInput{step}}},
	})
	require.NoError(t, err)
	return roadmap
}
