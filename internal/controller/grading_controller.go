package controller

import (
	"sahayak_backend/internal/service"
	"sahayak_backend/internal/util"
	"sahayak_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type GradingController struct {
	GradingService *service.GradingService
}

func NewGradingController(gradingService *service.GradingService) *GradingController {
	return &GradingController{GradingService: gradingService}
}

// @Summary Course results
// @Description Latest result of every student, in submission order
// @Tags grading
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "course id"
// @Success 200 {object} util.Response{data=[]model.QuizResult}
// @Router /api/teacher/courses/{id}/results [get]
func (c *GradingController) CourseResults(ctx *gin.Context) {
	results, err := c.GradingService.CourseResults(util.GetSessionFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// @Summary Review a student's result
// @Description Per-question correctness of the student's latest result
// @Tags grading
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "course id"
// @Param studentId path string true "student id"
// @Success 200 {object} util.Response{data=service.ResultReview}
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{id}/results/students/{studentId} [get]
func (c *GradingController) Review(ctx *gin.Context) {
	review, err := c.GradingService.Review(util.GetSessionFromContext(ctx), ctx.Param("id"), ctx.Param("studentId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, review)
}

// @Summary Mark a result graded
// @Description Grading an already graded result succeeds
// @Tags grading
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "result id"
// @Success 200 {object} util.Response{data=model.QuizResult}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/results/{id}/grade [post]
func (c *GradingController) Grade(ctx *gin.Context) {
	result, err := c.GradingService.GradeQuiz(ctx.Request.Context(), util.GetSessionFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	monitoring.ResultsGraded.Inc()
	util.Success(ctx, result)
}

// @Summary Course averages
// @Description average is null for courses without results
// @Tags grading
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.CourseAverage}
// @Router /api/teacher/analytics/courses [get]
func (c *GradingController) CourseAverages(ctx *gin.Context) {
	rows, err := c.GradingService.CourseAverages(util.GetSessionFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// @Summary Student performance
// @Description Classifies every student of the course by their latest score
// @Tags grading
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "course id"
// @Success 200 {object} util.Response{data=[]service.StudentStatus}
// @Router /api/teacher/courses/{id}/statuses [get]
func (c *GradingController) StudentStatuses(ctx *gin.Context) {
	rows, err := c.GradingService.StudentStatuses(util.GetSessionFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
