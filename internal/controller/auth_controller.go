package controller

import (
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/service"
	"sahayak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// swagger:model LoginRequest
type LoginRequest struct {
	Role     model.UserRole `json:"role" binding:"required,oneof=student teacher admin"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required"`
}

// swagger:model LoginResponse
type LoginResponse struct {
	Token string         `json:"token"`
	Role  model.UserRole `json:"role"`
	User  interface{}    `json:"user"`
}

// sessionUser is the record behind a session, as shown to its owner.
func sessionUser(session model.Session) interface{} {
	switch s := session.(type) {
	case *model.StudentSession:
		return s.Student
	case *model.TeacherSession:
		return s.Teacher
	}
	return nil
}

// Login godoc
// @Summary Sign in
// @Description Checks the credentials for the requested role and returns a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "credentials"
// @Success 200 {object} util.Response{data=LoginResponse}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, session, err := c.AuthService.Login(req.Role, req.Email, req.Password)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, LoginResponse{
		Token: token,
		Role:  session.Role(),
		User:  sessionUser(session),
	})
}

// Profile godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/profile [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	session := util.GetSessionFromContext(ctx)
	if session == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, gin.H{
		"role": session.Role(),
		"user": sessionUser(session),
	})
}

// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
}

// ChangePassword godoc
// @Summary Change own password
// @Description updated is false, and nothing changes, when the current password does not match
// @Tags auth
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ChangePasswordRequest true "passwords"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/profile/password [put]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.AuthService.ChangePassword(ctx.Request.Context(), util.GetSessionFromContext(ctx), req.CurrentPassword, req.NewPassword)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"updated": updated})
}
