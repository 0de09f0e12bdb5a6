package controller

import (
	"strconv"

	"skillkart_backend/internal/service"
	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BadgeController struct {
	BadgeService *service.BadgeService
	Gamification *service.GamificationService
}

func NewBadgeController(badgeService *service.BadgeService, gamification *service.GamificationService) *BadgeController {
	return &BadgeController{
		BadgeService: badgeService,
		Gamification: gamification,
	}
}

// ListBadges godoc
// @Summary 徽章目录
// @Tags 徽章
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Badge}
// @Router /api/badges [get]
func (c *BadgeController) ListBadges(ctx *gin.Context) {
	badges, err := c.BadgeService.List(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}

// MyBadges godoc
// @Summary 我获得的徽章
// @Tags 徽章
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.UserBadge}
// @Router /api/badges/me [get]
func (c *BadgeController) MyBadges(ctx *gin.Context) {
	session, ok := util.SessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	earned, err := c.BadgeService.ListEarned(ctx.Request.Context(), session.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, earned)
}

// Leaderboard godoc
// @Summary 经验值排行榜
// @Tags 徽章
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "数量，默认 10"
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /api/leaderboard [get]
func (c *BadgeController) Leaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	entries, err := c.Gamification.GetLeaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// CreateBadge godoc
// @Summary 新增徽章
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.BadgeInput true "徽章定义"
// @Success 201 {object} util.Response{data=model.Badge}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/admin/badges [post]
func (c *BadgeController) CreateBadge(ctx *gin.Context) {
	var req service.BadgeInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	badge, err := c.BadgeService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, badge)
}

// UploadBadgeImage godoc
// @Summary 上传徽章图片
// @Tags 管理
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "徽章ID"
// @Param image formData file true "图片"
// @Success 200 {object} util.Response{data=model.Badge}
// @Router /api/admin/badges/{id}/image [post]
func (c *BadgeController) UploadBadgeImage(ctx *gin.Context) {
	file, err := ctx.FormFile("image")
	if err != nil {
		util.BadRequest(ctx, "请选择要上传的图片")
		return
	}

	badge, err := c.BadgeService.UploadImage(ctx.Request.Context(), ctx.Param("id"), file)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, badge)
}
