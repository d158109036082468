package controller

import (
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/service"
	"sahayak_backend/internal/util"
	"sahayak_backend/pkg/monitoring"
	"time"

	"github.com/gin-gonic/gin"
)

// AIController exposes the teaching-assistant and tutor flows.
type AIController struct {
	AIService *service.AIService
}

func NewAIController(aiService *service.AIService) *AIController {
	return &AIController{AIService: aiService}
}

// swagger:model LessonPlanRequest
type LessonPlanRequest struct {
	Topic    string `json:"topic" binding:"required"`
	Grade    string `json:"grade" binding:"required"`
	Duration string `json:"duration" binding:"required"`
}

// swagger:model FlashcardsRequest
type FlashcardsRequest struct {
	Topic string `json:"topic" binding:"required"`
	Count int    `json:"count" binding:"omitempty,min=1,max=30"`
}

// swagger:model AssignmentRequest
type AssignmentRequest struct {
	Topic string `json:"topic" binding:"required"`
	Grade string `json:"grade" binding:"required"`
}

// swagger:model TutorRequest
type TutorRequest struct {
	Question string              `json:"question" binding:"required"`
	History  []model.ChatMessage `json:"history" binding:"omitempty,max=40,dive"`
}

// @Summary Generate a lesson plan
// @Tags ai
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body LessonPlanRequest true "lesson"
// @Success 200 {object} util.Response{data=model.LessonPlan}
// @Failure 502 {object} util.Response
// @Router /api/teacher/ai/lesson-plan [post]
func (c *AIController) LessonPlan(ctx *gin.Context) {
	var req LessonPlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	start := time.Now()
	plan, err := c.AIService.GenerateLessonPlan(ctx.Request.Context(), req.Topic, req.Grade, req.Duration)
	monitoring.ObserveAI("lesson_plan", start, err)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, plan)
}

// @Summary Generate flashcards
// @Tags ai
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body FlashcardsRequest true "topic"
// @Success 200 {object} util.Response{data=[]model.Flashcard}
// @Failure 502 {object} util.Response
// @Router /api/teacher/ai/flashcards [post]
// @Router /api/student/ai/flashcards [post]
func (c *AIController) Flashcards(ctx *gin.Context) {
	var req FlashcardsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	start := time.Now()
	cards, err := c.AIService.GenerateFlashcards(ctx.Request.Context(), req.Topic, req.Count)
	monitoring.ObserveAI("flashcards", start, err)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, cards)
}

// @Summary Generate an assignment
// @Tags ai
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body AssignmentRequest true "assignment"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Failure 502 {object} util.Response
// @Router /api/teacher/ai/assignment [post]
func (c *AIController) Assignment(ctx *gin.Context) {
	var req AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	start := time.Now()
	assignment, err := c.AIService.GenerateAssignment(ctx.Request.Context(), req.Topic, req.Grade)
	monitoring.ObserveAI("assignment", start, err)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// Tutor godoc
// @Summary Tutoring chat
// @Description Streams the answer as server-sent events: message chunks, then end (or error)
// @Tags ai
// @Accept json
// @Produce text/event-stream
// @Security ApiKeyAuth
// @Param body body TutorRequest true "question and prior turns"
// @Success 200 {string} string "event stream"
// @Router /api/student/ai/tutor [post]
func (c *AIController) Tutor(ctx *gin.Context) {
	var req TutorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	start := time.Now()
	stream, errChan := c.AIService.TutorChat(ctx.Request.Context(), req.Question, req.History)

	ctx.Header("Content-Type", util.MimeEventStream)
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	for content := range stream {
		ctx.SSEvent("message", content)
		ctx.Writer.Flush()
	}

	err := <-errChan
	monitoring.ObserveAI("tutor", start, err)
	if err != nil {
		ctx.SSEvent("error", "AI generation failed, please try again")
		ctx.Writer.Flush()
		return
	}

	ctx.SSEvent("end", "done")
	ctx.Writer.Flush()
}
