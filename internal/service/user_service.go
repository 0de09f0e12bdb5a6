package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/progression"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/util"

	"gorm.io/gorm"
)

// UserService 处理用户相关的业务逻辑
type UserService struct {
	UserRepo       *repository.UserRepository
	BadgeRepo      *repository.BadgeRepository
	FollowRepo     *repository.FollowRepository
	Gamification   *GamificationService
	StorageService *StorageService
}

// NewUserService 创建一个新的用户服务实例
func NewUserService(
	userRepo *repository.UserRepository,
	badgeRepo *repository.BadgeRepository,
	followRepo *repository.FollowRepository,
	gamification *GamificationService,
	storageService *StorageService,
) *UserService {
	return &UserService{
		UserRepo:       userRepo,
		BadgeRepo:      badgeRepo,
		FollowRepo:     followRepo,
		Gamification:   gamification,
		StorageService: storageService,
	}
}

// UserProfileView 个人主页展示的用户信息
type UserProfileView struct {
	ID          string                 `json:"id"`
	DisplayName string                 `json:"display_name"`
	Email       string                 `json:"email,omitempty"`
	AvatarURL   string                 `json:"avatar_url"`
	Role        model.UserRole         `json:"role"`
	XP          int                    `json:"xp_points"`
	Level       progression.LevelState `json:"level"`
	Streak      StreakSummary          `json:"streak"`
	Badges      []model.UserBadge      `json:"badges"`
	Followers   int64                  `json:"followers"`
	Following   int64                  `json:"following"`
	JoinedAt    string                 `json:"joined_at"`
}

// GetUserByID 根据ID获取用户信息
func (s *UserService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetProfileView 汇总等级、连续天数、徽章与关注数
func (s *UserService) GetProfileView(ctx context.Context, userID string) (*UserProfileView, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	level, err := s.Gamification.Level(user)
	if err != nil {
		return nil, err
	}
	badges, err := s.BadgeRepo.FindByUser(ctx, userID)
	if err != nil {
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

	return &UserProfileView{
		ID:          user.ID,
		DisplayName: progression.DisplayName(*user),
		Email:       user.Email,
		AvatarURL:   user.AvatarURL,
		Role:        user.Role,
		XP:          user.XP,
		Level:       level,
		Streak:      s.Gamification.Streak(user),
		Badges:      badges,
		Followers:   followers,
		Following:   following,
		JoinedAt:    user.CreatedAt.Format(util.DateFormat),
	}, nil
}

// UpdateDisplayName 空字符串表示清除昵称
func (s *UserService) UpdateDisplayName(ctx context.Context, session util.Session, name string) error {
	name = strings.TrimSpace(name)
	if len(name) > 100 {
		return fmt.Errorf("%w: display name is too long", progression.ErrValidation)
	}
	var value *string
	if name != "" {
		value = &name
	}
	return s.UserRepo.UpdateDisplayName(ctx, session.UserID, value)
}

// UpdateAvatar 上传头像并返回访问地址
func (s *UserService) UpdateAvatar(ctx context.Context, session util.Session, file *multipart.FileHeader) (string, error) {
	url, err := s.StorageService.SaveImage(ctx, "avatars/"+session.UserID, file, util.MaxAvatarSize)
	if err != nil {
		return "", err
	}
	if err := s.UserRepo.UpdateAvatar(ctx, session.UserID, url); err != nil {
		return "", err
	}
	return url, nil
}
