package controller

import (
	"skillkart_backend/internal/service"
	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetDashboard godoc
// @Summary 获取仪表盘
// @Description 等级进度、连续学习、每日目标、近七天活动、当前路线与推荐
// @Tags 仪表盘
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Failure 401 {object} util.Response
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	session, ok := util.SessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.DashboardService.GetDashboard(ctx.Request.Context(), session)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, dashboard)
}
