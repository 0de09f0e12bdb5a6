package controller

import (
	"skillkart_backend/internal/model"
	"skillkart_backend/internal/service"
	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	Store service.ProgressionStore
}

func NewProfileController(store service.ProgressionStore) *ProfileController {
	return &ProfileController{Store: store}
}

// GetProfile godoc
// @Summary 获取学习档案
// @Description 未设置时返回 404，前端应引导用户完成设置
// @Tags 学习档案
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.UserProfile}
// @Failure 404 {object} util.Response
// @Router /api/user/profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	session, ok := util.SessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.Store.FetchProfile(ctx.Request.Context(), session.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// SaveProfile godoc
// @Summary 设置或更新学习档案
// @Tags 学习档案
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ProfileInput true "档案"
// @Success 200 {object} util.Response{data=model.UserProfile}
// @Failure 400 {object} util.Response
// @Router /api/user/profile [put]
func (c *ProfileController) SaveProfile(ctx *gin.Context) {
	session, ok := util.SessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProfileInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.Store.UpsertProfile(ctx.Request.Context(), &model.UserProfile{
		UserID:          session.UserID,
		Interests:       req.Interests,
		PrimaryGoal:     req.PrimaryGoal,
		WeeklyHours:     req.WeeklyHours,
		AdditionalGoals: req.AdditionalGoals,
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}
