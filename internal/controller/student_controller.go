package controller

import (
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/service"
	"sahayak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// StudentController manages student accounts. Teachers see and edit only
// their own students; admins see all of them.
type StudentController struct {
	Directory *service.DirectoryService
}

func NewStudentController(directory *service.DirectoryService) *StudentController {
	return &StudentController{Directory: directory}
}

// staff returns the caller's staff session or writes a 403.
func staff(ctx *gin.Context) (*model.TeacherSession, bool) {
	ts, err := service.StaffSession(util.GetSessionFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return nil, false
	}
	return ts, true
}

// swagger:model CreateStudentRequest
type CreateStudentRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	Grade     string `json:"grade"`
	TeacherID string `json:"teacherId"` // admins only; teachers always create their own students
}

// @Summary List students
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Student}
// @Router /api/teacher/students [get]
func (c *StudentController) List(ctx *gin.Context) {
	ts, ok := staff(ctx)
	if !ok {
		return
	}
	if ts.Teacher.IsAdmin() {
		util.Success(ctx, c.Directory.GetStudents())
		return
	}
	util.Success(ctx, c.Directory.GetStudentsByTeacher(ts.Teacher.ID))
}

// @Summary Create a student
// @Tags students
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateStudentRequest true "student"
// @Success 201 {object} util.Response{data=model.Student}
// @Failure 409 {object} util.Response
// @Router /api/teacher/students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	ts, ok := staff(ctx)
	if !ok {
		return
	}
	var req CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !ts.Teacher.IsAdmin() {
		req.TeacherID = ts.Teacher.ID
	}

	student, err := c.Directory.AddStudent(ctx.Request.Context(), service.StudentInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Grade:     req.Grade,
		TeacherID: req.TeacherID,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, student)
}

// managed loads a student the caller may manage. Students outside the
// caller's scope are reported as missing.
func (c *StudentController) managed(ctx *gin.Context, ts *model.TeacherSession, student model.Student, found bool) bool {
	if !found || !service.CanManageStudent(ts, student) {
		util.HandleError(ctx, util.ErrStudentNotFound)
		return false
	}
	return true
}

// @Summary Get a student
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "student id"
// @Success 200 {object} util.Response{data=model.Student}
// @Failure 404 {object} util.Response
// @Router /api/teacher/students/{id} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	ts, ok := staff(ctx)
	if !ok {
		return
	}
	student, found := c.Directory.GetStudentByID(ctx.Param("id"))
	if !c.managed(ctx, ts, student, found) {
		return
	}
	util.Success(ctx, student)
}

// @Summary Find a student by name or email
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param name query string false "exact name"
// @Param email query string false "email"
// @Success 200 {object} util.Response{data=model.Student}
// @Failure 404 {object} util.Response
// @Router /api/teacher/students/lookup [get]
func (c *StudentController) Lookup(ctx *gin.Context) {
	ts, ok := staff(ctx)
	if !ok {
		return
	}
	var (
		student model.Student
		found   bool
	)
	switch {
	case ctx.Query("email") != "":
		student, found = c.Directory.GetStudentByEmail(ctx.Query("email"))
	case ctx.Query("name") != "":
		student, found = c.Directory.GetStudentByName(ctx.Query("name"))
	default:
		util.BadRequest(ctx, "name or email is required")
		return
	}
	if !c.managed(ctx, ts, student, found) {
		return
	}
	util.Success(ctx, student)
}

// @Summary Update a student
// @Description Omitted fields, the password included, are kept
// @Tags students
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "student id"
// @Param body body model.StudentPatch true "fields to change"
// @Success 200 {object} util.Response{data=model.Student}
// @Router /api/teacher/students/{id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	ts, ok := staff(ctx)
	if !ok {
		return
	}
	var patch model.StudentPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	student, found := c.Directory.GetStudentByID(ctx.Param("id"))
	if !c.managed(ctx, ts, student, found) {
		return
	}
	if patch.TeacherID != nil && !ts.Teacher.IsAdmin() && *patch.TeacherID != ts.Teacher.ID {
		util.Forbidden(ctx)
		return
	}

	updated, err := c.Directory.UpdateStudent(ctx.Request.Context(), student.ID, patch)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// @Summary Delete a student
// @Description The student's quiz results are kept
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "student id"
// @Success 200 {object} util.Response
// @Router /api/teacher/students/{id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	ts, ok := staff(ctx)
	if !ok {
		return
	}
	student, found := c.Directory.GetStudentByID(ctx.Param("id"))
	if !c.managed(ctx, ts, student, found) {
		return
	}
	if err := c.Directory.DeleteStudent(ctx.Request.Context(), student.ID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": student.ID})
}
