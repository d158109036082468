package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sahayak_backend/internal/config"
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/util"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLM answers every chat-completion request with reply. The returned
// func lists the requests seen so far.
func fakeLLM(t *testing.T, reply string) (*AIService, func() []ChatCompletionRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []ChatCompletionRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		seen = append(seen, req)
		mu.Unlock()
		writeCompletion(w, reply)
	}))
	t.Cleanup(srv.Close)

	ai := NewAIService(config.AIConfig{BaseURL: srv.URL + "/", APIKey: "test-key", Model: "test-model"})
	return ai, func() []ChatCompletionRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]ChatCompletionRequest(nil), seen...)
	}
}

func writeCompletion(w http.ResponseWriter, reply string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": reply}}},
	})
}

const quizReply = "Here is your quiz:\n```json\n" +
	`{"questions":[
	{"question":" What do plants need? ","options":["Light","Salt","Iron","Sand"],"correctAnswer":"Light "},
	{"question":"Where does photosynthesis happen?","options":["Root","Leaf","Stem","Seed"],"correctAnswer":"Leaf"}
]}` + "\n```\nGood luck!"

func TestGenerateQuizParsesFencedJSON(t *testing.T) {
	ai, seen := fakeLLM(t, quizReply)

	quiz, err := ai.GenerateQuiz(context.Background(), "plants", 2)
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, "plants", quiz.Topic)
	assert.Equal(t, "What do plants need?", quiz.Questions[0].Question)
	assert.Equal(t, "Light", quiz.Questions[0].CorrectAnswer)

	reqs := seen()
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.Equal(t, "test-model", req.Model)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Contains(t, req.Messages[1].Content, "2 questions")
}

func TestGenerateQuizRejectsBadShape(t *testing.T) {
	ai, _ := fakeLLM(t, `{"questions":[{"question":"Q","options":["A","B","C"],"correctAnswer":"A"}]}`)
	_, err := ai.GenerateQuiz(context.Background(), "plants", 1)
	assert.ErrorIs(t, err, util.ErrInvalidQuiz)
	assert.NotErrorIs(t, err, util.ErrGenerationFailed)

	ai, _ = fakeLLM(t, `{"questions":[{"question":"Q","options":["A","B","C","D"],"correctAnswer":"E"}]}`)
	_, err = ai.GenerateQuiz(context.Background(), "plants", 1)
	assert.ErrorIs(t, err, util.ErrInvalidQuiz)

	ai, _ = fakeLLM(t, `{"questions":[]}`)
	_, err = ai.GenerateQuiz(context.Background(), "plants", 1)
	assert.ErrorIs(t, err, util.ErrInvalidQuiz)
}

func TestGenerateQuizMalformedJSON(t *testing.T) {
	ai, _ := fakeLLM(t, "Sorry, I cannot help with that.")
	_, err := ai.GenerateQuiz(context.Background(), "plants", 3)
	assert.ErrorIs(t, err, util.ErrGenerationFailed)
}

func TestGenerateQuizClampsQuestionCount(t *testing.T) {
	ai, seen := fakeLLM(t, quizReply)
	_, err := ai.GenerateQuiz(context.Background(), "plants", 0)
	require.NoError(t, err)
	_, err = ai.GenerateQuiz(context.Background(), "plants", 500)
	require.NoError(t, err)

	reqs := seen()
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[0].Messages[1].Content, fmt.Sprintf("%d questions", DefaultQuizQuestions))
	assert.Contains(t, reqs[1].Messages[1].Content, fmt.Sprintf("%d questions", MaxQuizQuestions))
}

func TestCompleteTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()
	ai := NewAIService(config.AIConfig{BaseURL: srv.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := ai.GenerateQuiz(ctx, "plants", 3)
	assert.ErrorIs(t, err, util.ErrGenerationFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCompleteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()
	ai := NewAIService(config.AIConfig{BaseURL: srv.URL})

	_, err := ai.Complete(context.Background(), "", "hello")
	assert.ErrorIs(t, err, util.ErrGenerationFailed)
	assert.Contains(t, err.Error(), "status 500")
}

func TestUpdateConfigSwitchesModel(t *testing.T) {
	ai, seen := fakeLLM(t, "ok")
	_, err := ai.Complete(context.Background(), "", "hi")
	require.NoError(t, err)

	cfg := ai.currentConfig()
	cfg.Model = "bigger-model"
	ai.UpdateConfig(cfg)
	_, err = ai.Complete(context.Background(), "", "hi")
	require.NoError(t, err)

	reqs := seen()
	require.Len(t, reqs, 2)
	assert.Equal(t, "test-model", reqs[0].Model)
	assert.Equal(t, "bigger-model", reqs[1].Model)
}

func TestGenerateFlashcardsValidatesCards(t *testing.T) {
	ai, _ := fakeLLM(t, `[{"front":"H2O","back":"Water"},{"front":"NaCl","back":"Salt"}]`)
	cards, err := ai.GenerateFlashcards(context.Background(), "chemistry", 2)
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	ai, _ = fakeLLM(t, `[{"front":"H2O","back":""}]`)
	_, err = ai.GenerateFlashcards(context.Background(), "chemistry", 1)
	assert.ErrorIs(t, err, util.ErrGenerationFailed)
}

func TestGenerateLessonPlan(t *testing.T) {
	ai, _ := fakeLLM(t, `{"objectives":["Name the parts of a plant"],"activities":["Leaf walk"],"assessment":"Label a diagram"}`)
	plan, err := ai.GenerateLessonPlan(context.Background(), "plants", "5", "45 minutes")
	require.NoError(t, err)
	assert.Equal(t, "plants", plan.Topic)
	assert.Equal(t, "45 minutes", plan.Duration)
	assert.Equal(t, []string{"Leaf walk"}, plan.Activities)

	ai, _ = fakeLLM(t, `{"objectives":[],"activities":["Leaf walk"],"assessment":"x"}`)
	_, err = ai.GenerateLessonPlan(context.Background(), "plants", "5", "45 minutes")
	assert.ErrorIs(t, err, util.ErrGenerationFailed)
}

func TestGenerateAssignment(t *testing.T) {
	ai, _ := fakeLLM(t, `{"title":"Fractions","instructions":"Solve all","tasks":["1/2 + 1/4"],"rubric":["accuracy"]}`)
	a, err := ai.GenerateAssignment(context.Background(), "fractions", "6")
	require.NoError(t, err)
	assert.Equal(t, "Fractions", a.Title)
}

func TestTutorChatStreams(t *testing.T) {
	received := make(chan ChatCompletionRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		received <- req
		w.Header().Set("Content-Type", util.MimeEventStream)
		for _, part := range []string{"Think ", "about ", "light."} {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", part)
		}
		fmt.Fprint(w, ": keep-alive\n\ndata: [DONE]\n\n")
	}))
	defer srv.Close()
	ai := NewAIService(config.AIConfig{BaseURL: srv.URL})

	history := []model.ChatMessage{
		{Role: "user", Content: "Why are leaves green?"},
		{Role: "assistant", Content: "What colour of light do they reflect?"},
	}
	out, errs := ai.TutorChat(context.Background(), "Green?", history)

	var text string
	for chunk := range out {
		text += chunk
	}
	assert.NoError(t, <-errs)
	assert.Equal(t, "Think about light.", text)

	got := <-received
	assert.True(t, got.Stream)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
	assert.Equal(t, "Green?", got.Messages[3].Content)
}

func TestChatStreamUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	ai := NewAIService(config.AIConfig{BaseURL: srv.URL})

	out, errs := ai.ChatStream(context.Background(), "", nil, "hi")
	for range out {
	}
	assert.ErrorIs(t, <-errs, util.ErrGenerationFailed)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fence without language", "```\n[1,2]\n```", `[1,2]`},
		{"chatter around", "Sure! {\"a\":{\"b\":2}} Enjoy.", `{"a":{"b":2}}`},
		{"array", "cards: [{\"front\":\"x\"}]", `[{"front":"x"}]`},
		{"no json", "nothing here", "nothing here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}
