package controller

import (
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/service"
	"sahayak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	Directory *service.DirectoryService
}

func NewCourseController(directory *service.DirectoryService) *CourseController {
	return &CourseController{Directory: directory}
}

// swagger:model CreateCourseRequest
type CreateCourseRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Modules     []string `json:"modules"`
	TeacherID   string   `json:"teacherId"` // admins only
}

// @Summary List courses
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/teacher/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	ts, ok := staff(ctx)
	if !ok {
		return
	}
	if ts.Teacher.IsAdmin() {
		util.Success(ctx, c.Directory.GetCourses())
		return
	}
	util.Success(ctx, c.Directory.GetCoursesByTeacher(ts.Teacher.ID))
}

// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateCourseRequest true "course"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/teacher/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	ts, ok := staff(ctx)
	if !ok {
		return
	}
	var req CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !ts.Teacher.IsAdmin() {
		req.TeacherID = ts.Teacher.ID
	}

	course, err := c.Directory.AddCourse(ctx.Request.Context(), service.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Modules:     req.Modules,
		TeacherID:   req.TeacherID,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

func (c *CourseController) managed(ctx *gin.Context, ts *model.TeacherSession, course model.Course, found bool) bool {
	if !found || !service.CanManageCourse(ts, course) {
		util.HandleError(ctx, util.ErrCourseNotFound)
		return false
	}
	return true
}

// @Summary Get a course
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "course id"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	ts, ok := staff(ctx)
	if !ok {
		return
	}
	course, found := c.Directory.GetCourseByID(ctx.Param("id"))
	if !c.managed(ctx, ts, course, found) {
		return
	}
	util.Success(ctx, course)
}

// @Summary Find a course by title
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param title query string true "exact title"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/lookup [get]
func (c *CourseController) Lookup(ctx *gin.Context) {
	ts, ok := staff(ctx)
	if !ok {
		return
	}
	title := ctx.Query("title")
	if title == "" {
		util.BadRequest(ctx, "title is required")
		return
	}
	course, found := c.Directory.GetCourseByTitle(title)
	if !c.managed(ctx, ts, course, found) {
		return
	}
	util.Success(ctx, course)
}

// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "course id"
// @Param body body model.CoursePatch true "fields to change"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/teacher/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	ts, ok := staff(ctx)
	if !ok {
		return
	}
	var patch model.CoursePatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	course, found := c.Directory.GetCourseByID(ctx.Param("id"))
	if !c.managed(ctx, ts, course, found) {
		return
	}
	if patch.TeacherID != nil && !ts.Teacher.IsAdmin() && *patch.TeacherID != ts.Teacher.ID {
		util.Forbidden(ctx)
		return
	}

	updated, err := c.Directory.UpdateCourse(ctx.Request.Context(), course.ID, patch)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// @Summary Delete a course
// @Description Removes the course and its quiz; results are kept
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "course id"
// @Success 200 {object} util.Response
// @Router /api/teacher/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	ts, ok := staff(ctx)
	if !ok {
		return
	}
	course, found := c.Directory.GetCourseByID(ctx.Param("id"))
	if !c.managed(ctx, ts, course, found) {
		return
	}
	if err := c.Directory.DeleteCourse(ctx.Request.Context(), course.ID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": course.ID})
}

// @Summary My courses
// @Description Every course taught by the student's teacher
// @Tags student
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/student/courses [get]
func (c *CourseController) StudentCourses(ctx *gin.Context) {
	ss, err := service.StudentOf(util.GetSessionFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	courses, err := c.Directory.CoursesForStudent(ss.Student.ID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}
