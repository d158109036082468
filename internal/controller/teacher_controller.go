package controller

import (
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/service"
	"sahayak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TeacherController is the admin's view of teacher accounts.
type TeacherController struct {
	Directory *service.DirectoryService
}

func NewTeacherController(directory *service.DirectoryService) *TeacherController {
	return &TeacherController{Directory: directory}
}

// swagger:model CreateTeacherRequest
type CreateTeacherRequest struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=8,max=72"`
	Role     model.UserRole `json:"role" binding:"omitempty,oneof=teacher admin"`
}

// @Summary List teachers
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Teacher}
// @Router /api/admin/teachers [get]
func (c *TeacherController) List(ctx *gin.Context) {
	util.Success(ctx, c.Directory.GetTeachers())
}

// @Summary Create a teacher
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateTeacherRequest true "teacher"
// @Success 201 {object} util.Response{data=model.Teacher}
// @Failure 409 {object} util.Response
// @Router /api/admin/teachers [post]
func (c *TeacherController) Create(ctx *gin.Context) {
	var req CreateTeacherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	teacher, err := c.Directory.AddTeacher(ctx.Request.Context(), service.TeacherInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, teacher)
}

// @Summary Get a teacher
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "teacher id"
// @Success 200 {object} util.Response{data=model.Teacher}
// @Failure 404 {object} util.Response
// @Router /api/admin/teachers/{id} [get]
func (c *TeacherController) Get(ctx *gin.Context) {
	teacher, ok := c.Directory.GetTeacherByID(ctx.Param("id"))
	if !ok {
		util.HandleError(ctx, util.ErrTeacherNotFound)
		return
	}
	util.Success(ctx, teacher)
}

// @Summary Find a teacher by name or email
// @Description name is matched exactly, email ignoring case
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param name query string false "exact name"
// @Param email query string false "email"
// @Success 200 {object} util.Response{data=model.Teacher}
// @Failure 404 {object} util.Response
// @Router /api/admin/teachers/lookup [get]
func (c *TeacherController) Lookup(ctx *gin.Context) {
	var (
		teacher model.Teacher
		ok      bool
	)
	switch {
	case ctx.Query("email") != "":
		teacher, ok = c.Directory.GetTeacherByEmail(ctx.Query("email"))
	case ctx.Query("name") != "":
		teacher, ok = c.Directory.GetTeacherByName(ctx.Query("name"))
	default:
		util.BadRequest(ctx, "name or email is required")
		return
	}
	if !ok {
		util.HandleError(ctx, util.ErrTeacherNotFound)
		return
	}
	util.Success(ctx, teacher)
}

// @Summary Update a teacher
// @Description Omitted fields, the password included, are kept
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "teacher id"
// @Param body body model.TeacherPatch true "fields to change"
// @Success 200 {object} util.Response{data=model.Teacher}
// @Router /api/admin/teachers/{id} [put]
func (c *TeacherController) Update(ctx *gin.Context) {
	var patch model.TeacherPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	teacher, err := c.Directory.UpdateTeacher(ctx.Request.Context(), ctx.Param("id"), patch)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, teacher)
}

// @Summary Delete a teacher
// @Description Students and courses of the teacher become unassigned
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "teacher id"
// @Success 200 {object} util.Response
// @Router /api/admin/teachers/{id} [delete]
func (c *TeacherController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if session := util.GetSessionFromContext(ctx); session != nil && session.UserID() == id {
		util.BadRequest(ctx, "cannot delete your own account")
		return
	}
	if err := c.Directory.DeleteTeacher(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}
