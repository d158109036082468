package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sahayak_backend/internal/model"
	"sahayak_backend/pkg/logger"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	DefaultQuizQuestions = 5
	MaxQuizQuestions     = 20
	DefaultFlashcards    = 8
	MaxFlashcards        = 30
)

var outputValidate = validator.New()

const teachingAssistantPrompt = "You are Sahayak, a teaching assistant for school teachers. " +
	"Answer with content suitable for the given grade. When asked for JSON, reply with JSON only."

const tutorPrompt = "You are Sahayak, a patient tutor for school students. Explain step by step, " +
	"ask a guiding question when the student is stuck and never just hand over homework answers."

// extractJSON strips markdown fences and any chatter around the JSON payload.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "```"); i >= 0 {
		rest := text[i+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		text = strings.TrimSpace(rest)
	}
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	closing := byte('}')
	if text[start] == '[' {
		closing = ']'
	}
	end := strings.LastIndexByte(text, closing)
	if end < start {
		return text[start:]
	}
	return text[start : end+1]
}

func (s *AIService) completeJSON(ctx context.Context, prompt string, v any) error {
	reply, err := s.Complete(ctx, teachingAssistantPrompt, prompt)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(extractJSON(reply)), v); err != nil {
		return generationError(fmt.Errorf("model returned malformed JSON: %w", err))
	}
	return nil
}

func clamp(n, def, max int) int {
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// GenerateQuiz asks the model for a multiple-choice quiz. A reply that parses
// but breaks the quiz shape fails with ErrInvalidQuiz.
func (s *AIService) GenerateQuiz(ctx context.Context, topic string, numQuestions int) (model.Quiz, error) {
	numQuestions = clamp(numQuestions, DefaultQuizQuestions, MaxQuizQuestions)
	prompt := fmt.Sprintf(`Write a multiple-choice quiz about "%s" with %d questions.
Each question has exactly 4 options and correctAnswer must be copied verbatim from the options.
Reply with JSON only:
{"questions":[{"question":"...","options":["...","...","...","..."],"correctAnswer":"..."}]}`, topic, numQuestions)

	var payload struct {
		Questions []model.QuizQuestion `json:"questions"`
	}
	if err := s.completeJSON(ctx, prompt, &payload); err != nil {
		return model.Quiz{}, err
	}

	for i := range payload.Questions {
		q := &payload.Questions[i]
		q.Question = strings.TrimSpace(q.Question)
		q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
		for j := range q.Options {
			q.Options[j] = strings.TrimSpace(q.Options[j])
		}
	}
	quiz := model.Quiz{Topic: topic, Questions: payload.Questions}
	if err := quiz.Validate(); err != nil {
		return model.Quiz{}, err
	}
	if len(quiz.Questions) != numQuestions {
		logger.Log.Debug("model returned a different question count",
			zap.Int("requested", numQuestions),
			zap.Int("returned", len(quiz.Questions)))
	}
	return quiz, nil
}

func (s *AIService) GenerateLessonPlan(ctx context.Context, topic, grade, duration string) (model.LessonPlan, error) {
	prompt := fmt.Sprintf(`Create a lesson plan on "%s" for grade %s lasting %s.
Reply with JSON only:
{"objectives":["..."],"activities":["..."],"assessment":"..."}`, topic, grade, duration)

	var plan model.LessonPlan
	if err := s.completeJSON(ctx, prompt, &plan); err != nil {
		return model.LessonPlan{}, err
	}
	plan.Topic, plan.Grade, plan.Duration = topic, grade, duration
	if err := outputValidate.Struct(plan); err != nil {
		return model.LessonPlan{}, generationError(fmt.Errorf("incomplete lesson plan: %w", err))
	}
	return plan, nil
}

func (s *AIService) GenerateFlashcards(ctx context.Context, topic string, count int) ([]model.Flashcard, error) {
	count = clamp(count, DefaultFlashcards, MaxFlashcards)
	prompt := fmt.Sprintf(`Write %d study flashcards about "%s".
Reply with JSON only: [{"front":"...","back":"..."}]`, count, topic)

	var cards []model.Flashcard
	if err := s.completeJSON(ctx, prompt, &cards); err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, generationError(fmt.Errorf("model returned no flashcards"))
	}
	for i := range cards {
		if err := outputValidate.Struct(cards[i]); err != nil {
			return nil, generationError(fmt.Errorf("incomplete flashcard %d: %w", i+1, err))
		}
	}
	return cards, nil
}

func (s *AIService) GenerateAssignment(ctx context.Context, topic, grade string) (model.Assignment, error) {
	prompt := fmt.Sprintf(`Design a homework assignment on "%s" for grade %s.
Reply with JSON only:
{"title":"...","instructions":"...","tasks":["..."],"rubric":["..."]}`, topic, grade)

	var assignment model.Assignment
	if err := s.completeJSON(ctx, prompt, &assignment); err != nil {
		return model.Assignment{}, err
	}
	if err := outputValidate.Struct(assignment); err != nil {
		return model.Assignment{}, generationError(fmt.Errorf("incomplete assignment: %w", err))
	}
	return assignment, nil
}

// GenerateCertificateText writes a short commendation for a certificate.
func (s *AIService) GenerateCertificateText(ctx context.Context, studentName, courseTitle string, score float64) (string, error) {
	prompt := fmt.Sprintf(`Write two warm sentences commending %s for completing the course "%s" with a quiz score of %.0f%%.
Plain text only, no greeting or signature.`, studentName, courseTitle, score)

	text, err := s.Complete(ctx, teachingAssistantPrompt, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// TutorChat streams a tutoring answer that takes the prior conversation into account.
func (s *AIService) TutorChat(ctx context.Context, question string, history []model.ChatMessage) (<-chan string, <-chan error) {
	return s.ChatStream(ctx, tutorPrompt, history, question)
}
