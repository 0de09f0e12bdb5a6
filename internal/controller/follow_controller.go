package controller

import (
	"skillkart_backend/internal/service"
	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FollowController struct {
	FollowService *service.FollowService
}

func NewFollowController(followService *service.FollowService) *FollowController {
	return &FollowController{FollowService: followService}
}

// Follow godoc
// @Summary 关注用户
// @Tags 社交
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "用户ID"
// @Success 200 {object} util.Response{data=service.FollowStats}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/users/{id}/follow [post]
func (c *FollowController) Follow(ctx *gin.Context) {
	session, ok := util.SessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.FollowService.Follow(ctx.Request.Context(), session, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// Unfollow godoc
// @Summary 取消关注
// @Tags 社交
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "用户ID"
// @Success 200 {object} util.Response{data=service.FollowStats}
// @Router /api/users/{id}/follow [delete]
func (c *FollowController) Unfollow(ctx *gin.Context) {
	session, ok := util.SessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.FollowService.Unfollow(ctx.Request.Context(), session, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// Stats godoc
// @Summary 关注统计
// @Tags 社交
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "用户ID"
// @Success 200 {object} util.Response{data=service.FollowStats}
// @Router /api/users/{id}/follow-stats [get]
func (c *FollowController) Stats(ctx *gin.Context) {
	session, _ := util.SessionFromContext(ctx)

	stats, err := c.FollowService.Stats(ctx.Request.Context(), session, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
