package repository

import (
	"context"

	"skillkart_backend/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) WithTx(tx *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: tx}
}

func (r *ActivityRepository) Create(ctx context.Context, log *model.ActivityLog) error {
	return r.DB.WithContext(ctx).Create(log).Error
}

// DayTotal 某一天的学习汇总
type DayTotal struct {
	Day     string `json:"day"`
	Minutes int    `json:"minutes"`
	XP      int    `json:"xp"`
	Events  int    `json:"events"`
}

// DailyTotals 按日期汇总 [from, to] 区间内的学习记录，日期格式 2006-01-02
func (r *ActivityRepository) DailyTotals(ctx context.Context, userID, from, to string) ([]DayTotal, error) {
	var totals []DayTotal
	err := r.DB.WithContext(ctx).Model(&model.ActivityLog{}).
		Select("occurred_on AS day, COALESCE(SUM(minutes), 0) AS minutes, COALESCE(SUM(xp), 0) AS xp, COUNT(*) AS events").
		Where("user_id = ? AND occurred_on BETWEEN ? AND ?", userID, from, to).
		Group("occurred_on").
		Order("occurred_on ASC").
		Scan(&totals).Error
	return totals, err
}

func (r *ActivityRepository) MinutesOn(ctx context.Context, userID, day string) (int, error) {
	var minutes int
	err := r.DB.WithContext(ctx).Model(&model.ActivityLog{}).
		Select("COALESCE(SUM(minutes), 0)").
		Where("user_id = ? AND occurred_on = ?", userID, day).
		Scan(&minutes).Error
	return minutes, err
}

func (r *ActivityRepository) Recent(ctx context.Context, userID string, limit int) ([]model.ActivityLog, error) {
	logs := []model.ActivityLog{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
