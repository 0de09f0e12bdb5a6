package controller

import (
	"net/http"

	"skillkart_backend/internal/service"
	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RoadmapController struct {
	Store          service.ProgressionStore
	RoadmapService *service.RoadmapService
}

func NewRoadmapController(store service.ProgressionStore, roadmapService *service.RoadmapService) *RoadmapController {
	return &RoadmapController{
		Store:          store,
		RoadmapService: roadmapService,
	}
}

// CompleteResourceRequest 标记资源完成
// swagger:model CompleteResourceRequest
type CompleteResourceRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// ListRoadmaps godoc
// @Summary 我的学习路线
// @Tags 学习路线
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Roadmap}
// @Router /api/roadmaps [get]
func (c *RoadmapController) ListRoadmaps(ctx *gin.Context) {
	session, ok := util.SessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	roadmaps, err := c.RoadmapService.ListUserRoadmaps(ctx.Request.Context(), session)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, roadmaps)
}

// CreateRoadmap godoc
// @Summary 创建学习路线
// @Description 默认 8 周，创建成功奖励经验值
// @Tags 学习路线
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateRoadmapInput true "路线信息"
// @Success 201 {object} util.Response{data=model.Roadmap}
// @Failure 400 {object} util.Response
// @Router /api/roadmaps [post]
func (c *RoadmapController) CreateRoadmap(ctx *gin.Context) {
	session, ok := util.SessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateRoadmapInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	roadmap, err := c.Store.CreateRoadmap(ctx.Request.Context(), session, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, roadmap)
}

// GetRoadmap godoc
// @Summary 路线详情
// @Tags 学习路线
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "路线ID"
// @Success 200 {object} util.Response{data=model.Roadmap}
// @Failure 404 {object} util.Response
// @Router /api/roadmaps/{id} [get]
func (c *RoadmapController) GetRoadmap(ctx *gin.Context) {
	session, ok := util.SessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	roadmap, err := c.RoadmapService.GetRoadmap(ctx.Request.Context(), session, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, roadmap)
}

// Catalog godoc
// @Summary 公共路线目录
// @Tags 学习路线
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Roadmap}
// @Router /api/roadmaps/catalog [get]
func (c *RoadmapController) Catalog(ctx *gin.Context) {
	catalog, err := c.Store.FetchRoadmapCatalog(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, catalog)
}

// Recommended godoc
// @Summary 推荐路线
// @Description 按兴趣匹配排序，已报名的路线不会出现
// @Tags 学习路线
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]progression.Recommendation}
// @Router /api/roadmaps/recommended [get]
func (c *RoadmapController) Recommended(ctx *gin.Context) {
	session, ok := util.SessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	recs, err := c.RoadmapService.Recommend(ctx.Request.Context(), session)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, recs)
}

// Enroll godoc
// @Summary 报名公共路线
// @Tags 学习路线
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "公共路线ID"
// @Success 201 {object} util.Response{data=model.Roadmap}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/roadmaps/{id}/enroll [post]
func (c *RoadmapController) Enroll(ctx *gin.Context) {
	session, ok := util.SessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	roadmap, err := c.RoadmapService.Enroll(ctx.Request.Context(), session, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, roadmap)
}

// CompleteResource godoc
// @Summary 标记资源完成
// @Description 完成后不可撤销；汇总步骤、周与路线进度并发放经验值
// @Tags 学习路线
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "路线ID"
// @Param weekId path string true "周ID"
// @Param stepId path string true "步骤ID"
// @Param resourceId path string true "资源ID"
// @Param body body CompleteResourceRequest true "完成状态"
// @Success 200 {object} util.Response{data=service.CompletionResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/roadmaps/{id}/weeks/{weekId}/steps/{stepId}/resources/{resourceId} [patch]
func (c *RoadmapController) CompleteResource(ctx *gin.Context) {
	session, ok := util.SessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req CompleteResourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Store.MarkResourceComplete(ctx.Request.Context(), session,
		ctx.Param("id"), ctx.Param("weekId"), ctx.Param("stepId"), ctx.Param("resourceId"), *req.Completed)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, util.Response{Code: http.StatusOK, Message: "success", Data: result})
}
