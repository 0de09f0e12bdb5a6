package controller

import (
	"skillkart_backend/internal/service"
	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// UpdateDisplayNameRequest 修改昵称
// swagger:model UpdateDisplayNameRequest
type UpdateDisplayNameRequest struct {
	DisplayName string `json:"display_name"`
}

// GetProfile godoc
// @Summary 获取当前用户信息
// @Description 返回昵称、等级、连续学习天数、徽章与关注数
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.UserProfileView}
// @Failure 401 {object} util.Response
// @Router /api/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	session, ok := util.SessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.UserService.GetProfileView(ctx.Request.Context(), session.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetUser godoc
// @Summary 查看其他用户
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "用户ID"
// @Success 200 {object} util.Response{data=service.UserProfileView}
// @Failure 404 {object} util.Response
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	view, err := c.UserService.GetProfileView(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	view.Email = ""
	util.Success(ctx, view)
}

// UpdateDisplayName godoc
// @Summary 修改昵称
// @Tags 用户
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body UpdateDisplayNameRequest true "昵称"
// @Success 200 {object} util.Response
// @Router /api/user/display-name [put]
func (c *UserController) UpdateDisplayName(ctx *gin.Context) {
	session, ok := util.SessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateDisplayNameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.UpdateDisplayName(ctx.Request.Context(), session, req.DisplayName); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UpdateAvatar godoc
// @Summary 上传头像
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param avatar formData file true "头像图片"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/user/avatar [put]
func (c *UserController) UpdateAvatar(ctx *gin.Context) {
	session, ok := util.SessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "请选择要上传的头像")
		return
	}

	url, err := c.UserService.UpdateAvatar(ctx.Request.Context(), session, file)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"avatar_url": url})
}
