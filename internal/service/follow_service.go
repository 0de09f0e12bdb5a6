package service

import (
	"context"

	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/util"
)

type FollowService struct {
	FollowRepo   *repository.FollowRepository
	Users        *UserService
	Gamification *GamificationService
}

func NewFollowService(followRepo *repository.FollowRepository, users *UserService, gamification *GamificationService) *FollowService {
	return &FollowService{
		FollowRepo:   followRepo,
		Users:        users,
		Gamification: gamification,
	}
}

type FollowStats struct {
	UserID      string `json:"user_id"`
	Followers   int64  `json:"followers"`
	Following   int64  `json:"following"`
	IsFollowing bool   `json:"is_following"`
}

// Follow 重复关注不报错
func (s *FollowService) Follow(ctx context.Context, session util.Session, targetID string) (*FollowStats, error) {
	if targetID == session.UserID {
		return nil, util.ErrSelfFollow
	}
	if _, err := s.Users.GetUserByID(ctx, targetID); err != nil {
		return nil, err
	}

	created, err := s.FollowRepo.Follow(ctx, session.UserID, targetID)
	if err != nil {
		return nil, err
	}
	if created {
		s.Gamification.evaluateQuietly(ctx, session.UserID)
	}
	return s.Stats(ctx, session, targetID)
}

func (s *FollowService) Unfollow(ctx context.Context, session util.Session, targetID string) (*FollowStats, error) {
	if _, err := s.FollowRepo.Unfollow(ctx, session.UserID, targetID); err != nil {
		return nil, err
	}
	return s.Stats(ctx, session, targetID)
}

func (s *FollowService) Stats(ctx context.Context, session util.Session, userID string) (*FollowStats, error) {
	if _, err := s.Users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	followers, err := s.FollowRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.FollowRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := &FollowStats{UserID: userID, Followers: followers, Following: following}
	if session.UserID != "" && session.UserID != userID {
		stats.IsFollowing, err = s.FollowRepo.IsFollowing(ctx, session.UserID, userID)
		if err != nil {
			return nil, err
		}
	}
	return stats, nil
}
