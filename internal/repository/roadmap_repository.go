package repository

import (
	"context"
	"encoding/json"
	"time"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/util"
	"skillkart_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RoadmapRepository struct {
	DB         *gorm.DB
	Redis      *redis.Client
	CatalogTTL time.Duration
}

func NewRoadmapRepository(db *gorm.DB, rdb *redis.Client, catalogTTL time.Duration) *RoadmapRepository {
	if catalogTTL <= 0 {
		catalogTTL = 5 * time.Minute
	}
	return &RoadmapRepository{
		DB:         db,
		Redis:      rdb,
		CatalogTTL: catalogTTL,
	}
}

// WithTx 返回绑定到事务的副本，事务内不读写缓存
func (r *RoadmapRepository) WithTx(tx *gorm.DB) *RoadmapRepository {
	return &RoadmapRepository{DB: tx, CatalogTTL: r.CatalogTTL}
}

func preloadTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Weeks", func(db *gorm.DB) *gorm.DB {
			return db.Order("week_number ASC")
		}).
		Preload("Weeks.Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Weeks.Steps.Resources", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

// Create 连同周、步骤、资源一起写入
func (r *RoadmapRepository) Create(ctx context.Context, roadmap *model.Roadmap) error {
	err := r.DB.WithContext(ctx).Create(roadmap).Error
	if err == nil && roadmap.IsPublic {
		r.InvalidateCatalog(ctx)
	}
	return err
}

func (r *RoadmapRepository) FindByID(ctx context.Context, id string) (*model.Roadmap, error) {
	var roadmap model.Roadmap
	err := r.DB.WithContext(ctx).First(&roadmap, "id = ?", id).Error
	return &roadmap, err
}

// FindTree 加载完整的周、步骤、资源
func (r *RoadmapRepository) FindTree(ctx context.Context, id string) (*model.Roadmap, error) {
	var roadmap model.Roadmap
	err := preloadTree(r.DB.WithContext(ctx)).First(&roadmap, "id = ?", id).Error
	return &roadmap, err
}

// FindByUser 用户拥有的路线，最近更新的在前
func (r *RoadmapRepository) FindByUser(ctx context.Context, userID string) ([]model.Roadmap, error) {
	var roadmaps []model.Roadmap
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&roadmaps).Error
	return roadmaps, err
}

func (r *RoadmapRepository) findPublic(ctx context.Context) ([]model.Roadmap, error) {
	roadmaps := []model.Roadmap{}
	err := r.DB.WithContext(ctx).
		Where("is_public = ?", true).
		Order("created_at ASC").
		Order("id ASC").
		Find(&roadmaps).Error
	return roadmaps, err
}

// FindPublic 公共路线目录（带缓存）
func (r *RoadmapRepository) FindPublic(ctx context.Context) ([]model.Roadmap, error) {
	if r.Redis == nil {
		return r.findPublic(ctx)
	}

	cached, err := r.Redis.Get(ctx, util.CacheKeyCatalog).Bytes()
	if err == nil {
		var roadmaps []model.Roadmap
		if jsonErr := json.Unmarshal(cached, &roadmaps); jsonErr == nil {
			return roadmaps, nil
		}
	} else if err != redis.Nil {
		logger.Log.Warn("catalog cache read failed", zap.Error(err))
	}

	// 缓存失效，回源数据库
	roadmaps, err := r.findPublic(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(roadmaps); err == nil {
		r.Redis.Set(ctx, util.CacheKeyCatalog, data, r.CatalogTTL)
	}
	return roadmaps, nil
}

func (r *RoadmapRepository) InvalidateCatalog(ctx context.Context) {
	if r.Redis == nil {
		return
	}
	r.Redis.Del(ctx, util.CacheKeyCatalog)
}

// SourceIDsByUser 用户已报名的公共路线 ID
func (r *RoadmapRepository) SourceIDsByUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&model.Roadmap{}).
		Where("user_id = ? AND source_roadmap_id IS NOT NULL", userID).
		Pluck("source_roadmap_id", &ids).Error
	return ids, err
}

// FindResource 按层级定位资源，任一层不匹配都返回 ErrRecordNotFound
func (r *RoadmapRepository) FindResource(ctx context.Context, roadmapID, weekID, stepID, resourceID string) (*model.RoadmapWeek, *model.RoadmapStep, *model.Resource, error) {
	db := r.DB.WithContext(ctx)

	var week model.RoadmapWeek
	if err := db.Where("id = ? AND roadmap_id = ?", weekID, roadmapID).First(&week).Error; err != nil {
		return nil, nil, nil, err
	}
	var step model.RoadmapStep
	if err := db.Where("id = ? AND week_id = ?", stepID, weekID).First(&step).Error; err != nil {
		return &week, nil, nil, err
	}
	var resource model.Resource
	if err := db.Where("id = ? AND step_id = ?", resourceID, stepID).First(&resource).Error; err != nil {
		return &week, &step, nil, err
	}
	return &week, &step, &resource, nil
}

// MarkResourceCompleted 只在资源尚未完成时更新，返回是否发生变化
func (r *RoadmapRepository) MarkResourceCompleted(ctx context.Context, resourceID string, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.Resource{}).
		Where("id = ? AND completed = ?", resourceID, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *RoadmapRepository) UpdateStepStatus(ctx context.Context, stepID string, status model.ProgressStatus) error {
	return r.DB.WithContext(ctx).Model(&model.RoadmapStep{}).
		Where("id = ?", stepID).
		Update("status", status).Error
}

func (r *RoadmapRepository) UpdateWeekStatus(ctx context.Context, weekID string, status model.ProgressStatus) error {
	return r.DB.WithContext(ctx).Model(&model.RoadmapWeek{}).
		Where("id = ?", weekID).
		Update("status", status).Error
}

func (r *RoadmapRepository) UpdateProgress(ctx context.Context, roadmapID string, status model.ProgressStatus, progress, currentWeek int) error {
	return r.DB.WithContext(ctx).Model(&model.Roadmap{}).
		Where("id = ?", roadmapID).
		Updates(map[string]interface{}{
			"status":       status,
			"progress":     progress,
			"current_week": currentWeek,
		}).Error
}

// CountCompletedResources 用户在自己路线中完成的资源数
func (r *RoadmapRepository) CountCompletedResources(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Resource{}).
		Joins("JOIN roadmap_steps ON roadmap_steps.id = roadmap_resources.step_id").
		Joins("JOIN roadmap_weeks ON roadmap_weeks.id = roadmap_steps.week_id").
		Joins("JOIN roadmaps ON roadmaps.id = roadmap_weeks.roadmap_id").
		Where("roadmaps.user_id = ? AND roadmap_resources.completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *RoadmapRepository) CountCompletedRoadmaps(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Roadmap{}).
		Where("user_id = ? AND status = ?", userID, model.StatusCompleted).
		Count(&count).Error
	return count, err
}
