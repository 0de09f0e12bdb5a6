package repository

import (
	"context"
	"fmt"
	"time"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewFollowRepository(db *gorm.DB, rdb *redis.Client) *FollowRepository {
	return &FollowRepository{
		DB:    db,
		Redis: rdb,
	}
}

// Follow 已关注时返回 false
func (r *FollowRepository) Follow(ctx context.Context, followerID, followingID string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.UserFollow{FollowerID: followerID, FollowingID: followingID})
	if res.Error == nil && res.RowsAffected > 0 {
		r.invalidate(ctx, followerID, followingID)
	}
	return res.RowsAffected > 0, res.Error
}

func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followingID string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.UserFollow{})
	if res.Error == nil && res.RowsAffected > 0 {
		r.invalidate(ctx, followerID, followingID)
	}
	return res.RowsAffected > 0, res.Error
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.UserFollow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.cachedCount(ctx, fmt.Sprintf(util.CacheKeyFollowerCount, userID), "following_id = ?", userID)
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return r.cachedCount(ctx, fmt.Sprintf(util.CacheKeyFollowingCount, userID), "follower_id = ?", userID)
}

func (r *FollowRepository) cachedCount(ctx context.Context, key, cond string, userID string) (int64, error) {
	if r.Redis != nil {
		if n, err := r.Redis.Get(ctx, key).Int64(); err == nil {
			return n, nil
		}
	}

	// 缓存失效，回源数据库
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.UserFollow{}).Where(cond, userID).Count(&count).Error
	if err == nil && r.Redis != nil {
		r.Redis.Set(ctx, key, count, time.Hour)
	}
	return count, err
}

func (r *FollowRepository) invalidate(ctx context.Context, followerID, followingID string) {
	if r.Redis == nil {
		return
	}
	// 清除计数缓存
	r.Redis.Del(ctx,
		fmt.Sprintf(util.CacheKeyFollowingCount, followerID),
		fmt.Sprintf(util.CacheKeyFollowerCount, followingID),
	)
}
