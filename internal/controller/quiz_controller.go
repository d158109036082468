package controller

import (
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/service"
	"sahayak_backend/internal/util"
	"sahayak_backend/pkg/monitoring"
	"time"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// swagger:model GenerateQuizRequest
type GenerateQuizRequest struct {
	Topic        string `json:"topic" binding:"required"`
	NumQuestions int    `json:"numQuestions" binding:"omitempty,min=1,max=20"`
}

// swagger:model SaveQuizRequest
type SaveQuizRequest struct {
	Topic     string               `json:"topic"`
	Questions []model.QuizQuestion `json:"questions" binding:"required"`
}

// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	StudentID string         `json:"studentId"`
	Answers   map[int]string `json:"answers" binding:"required"`
}

// GenerateQuiz godoc
// @Summary Generate the course quiz
// @Description Asks the AI for a quiz and stores it, replacing any previous quiz of the course
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "course id"
// @Param body body GenerateQuizRequest true "topic and size"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /api/teacher/courses/{id}/quiz/generate [post]
func (c *QuizController) GenerateQuiz(ctx *gin.Context) {
	var req GenerateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	start := time.Now()
	quiz, err := c.QuizService.GenerateQuiz(ctx.Request.Context(), util.GetSessionFromContext(ctx), ctx.Param("id"), req.Topic, req.NumQuestions)
	monitoring.ObserveAI("quiz", start, err)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// SaveQuiz godoc
// @Summary Save the course quiz
// @Description Overwrites the course quiz with the given questions
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "course id"
// @Param body body SaveQuizRequest true "quiz"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/teacher/courses/{id}/quiz [put]
func (c *QuizController) SaveQuiz(ctx *gin.Context) {
	var req SaveQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.SaveQuiz(ctx.Request.Context(), util.GetSessionFromContext(ctx), ctx.Param("id"), model.Quiz{
		Topic:     req.Topic,
		Questions: req.Questions,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// GetQuiz godoc
// @Summary Get the course quiz with answers
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "course id"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{id}/quiz [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quiz, err := c.QuizService.GetQuiz(util.GetSessionFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// StudentQuiz godoc
// @Summary Take the course quiz
// @Description The quiz without correct answers
// @Tags student
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "course id"
// @Success 200 {object} util.Response{data=model.StudentQuiz}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/student/courses/{id}/quiz [get]
func (c *QuizController) StudentQuiz(ctx *gin.Context) {
	quiz, err := c.QuizService.GetQuizForStudent(util.GetSessionFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Submit godoc
// @Summary Submit quiz answers
// @Description Scores the answers and replaces any earlier result for this course
// @Tags student
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "course id"
// @Param body body SubmitQuizRequest true "answers keyed by question index"
// @Success 201 {object} util.Response{data=model.QuizResult}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/student/courses/{id}/quiz/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitAnswers(ctx.Request.Context(), util.GetSessionFromContext(ctx), ctx.Param("id"), req.StudentID, req.Answers)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	monitoring.QuizSubmissions.WithLabelValues(string(service.Classify(result.Score))).Inc()
	util.Created(ctx, result)
}

// LatestResult godoc
// @Summary My latest result
// @Tags student
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "course id"
// @Success 200 {object} util.Response{data=model.QuizResult}
// @Failure 404 {object} util.Response
// @Router /api/student/courses/{id}/result [get]
func (c *QuizController) LatestResult(ctx *gin.Context) {
	result, err := c.QuizService.LatestResult(util.GetSessionFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
