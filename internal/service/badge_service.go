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

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BadgeService struct {
	BadgeRepo      *repository.BadgeRepository
	StorageService *StorageService
}

func NewBadgeService(badgeRepo *repository.BadgeRepository, storageService *StorageService) *BadgeService {
	return &BadgeService{
		BadgeRepo:      badgeRepo,
		StorageService: storageService,
	}
}

type BadgeInput struct {
	Code        string                 `json:"code" binding:"required"`
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description"`
	Category    model.BadgeCategory    `json:"category" binding:"required"`
	Tier        model.BadgeCategory    `json:"tier"`
	Requirement model.BadgeRequirement `json:"requirement"`
}

func (s *BadgeService) List(ctx context.Context) ([]model.Badge, error) {
	return s.BadgeRepo.List(ctx)
}

func (s *BadgeService) ListEarned(ctx context.Context, userID string) ([]model.UserBadge, error) {
	return s.BadgeRepo.FindByUser(ctx, userID)
}

// Create 新增徽章定义，条件必须可判定
func (s *BadgeService) Create(ctx context.Context, in BadgeInput) (*model.Badge, error) {
	in.Code = strings.ToLower(strings.TrimSpace(in.Code))
	if in.Code == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: badge code and name are required", progression.ErrValidation)
	}
	if !in.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown badge category %q", progression.ErrValidation, in.Category)
	}
	if in.Tier == "" {
		in.Tier = model.BadgeBronze
	}
	switch in.Tier {
	case model.BadgeBronze, model.BadgeSilver, model.BadgeGold:
	default:
		return nil, fmt.Errorf("%w: tier must be bronze, silver or gold", progression.ErrValidation)
	}
	if err := progression.ValidateRequirement(in.Requirement); err != nil {
		return nil, err
	}

	badge := &model.Badge{
		Code:        in.Code,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    in.Category,
		Tier:        in.Tier,
		Requirement: datatypes.NewJSONType(in.Requirement),
	}
	if err := s.BadgeRepo.Create(ctx, badge); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrBadgeCodeTaken
		}
		return nil, err
	}
	return badge, nil
}

func (s *BadgeService) UploadImage(ctx context.Context, badgeID string, file *multipart.FileHeader) (*model.Badge, error) {
	badge, err := s.BadgeRepo.FindByID(ctx, badgeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBadgeNotFound
		}
		return nil, err
	}

	url, err := s.StorageService.SaveImage(ctx, "badges", file, util.MaxBadgeImageSize)
	if err != nil {
		return nil, err
	}
	if err := s.BadgeRepo.UpdateImage(ctx, badge.ID, url); err != nil {
		return nil, err
	}
	badge.ImageURL = url
	return badge, nil
}
