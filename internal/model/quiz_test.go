package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuiz() Quiz {
	return Quiz{
		CourseID: "c1",
		Questions: []QuizQuestion{
			{Question: "2+2?", Options: []string{"3", "4", "5", "6"}, CorrectAnswer: "4"},
			{Question: "Capital of India?", Options: []string{"Delhi", "Mumbai", "Pune", "Goa"}, CorrectAnswer: "Delhi"},
		},
	}
}

func TestQuizValidate(t *testing.T) {
	q := validQuiz()
	require.NoError(t, q.Validate())

	tests := []struct {
		name   string
		mutate func(q *Quiz)
		reason string
	}{
		{"no questions", func(q *Quiz) { q.Questions = nil }, "Questions"},
		{"three options", func(q *Quiz) { q.Questions[0].Options = []string{"3", "4", "5"} }, "exactly 4 options"},
		{"five options", func(q *Quiz) { q.Questions[1].Options = append(q.Questions[1].Options, "Agra") }, "exactly 4 options"},
		{"dangling answer", func(q *Quiz) { q.Questions[1].CorrectAnswer = "Chennai" }, "is not one of the options"},
		{"blank option", func(q *Quiz) { q.Questions[0].Options[3] = "" }, "Options[3]"},
		{"blank question", func(q *Quiz) { q.Questions[0].Question = "" }, "Question"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuiz()
			tt.mutate(&q)
			err := q.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidQuiz)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestQuizCountCorrect(t *testing.T) {
	q := validQuiz()
	assert.Equal(t, 2, q.CountCorrect(map[int]string{0: "4", 1: "Delhi"}))
	assert.Equal(t, 1, q.CountCorrect(map[int]string{0: "4", 1: "Goa"}))
	assert.Equal(t, 0, q.CountCorrect(nil))
	// answers for questions the quiz does not have are ignored
	assert.Equal(t, 1, q.CountCorrect(map[int]string{1: "Delhi", 7: "4"}))
}

func TestQuizForStudentStripsAnswers(t *testing.T) {
	q := validQuiz()
	sq := q.ForStudent()
	require.Len(t, sq.Questions, 2)
	assert.Equal(t, "2+2?", sq.Questions[0].Question)
	assert.Equal(t, []string{"3", "4", "5", "6"}, sq.Questions[0].Options)

	sq.Questions[0].Options[0] = "x"
	assert.Equal(t, "3", q.Questions[0].Options[0])
}

func TestScorePercent(t *testing.T) {
	assert.Equal(t, 60.0, ScorePercent(3, 5))
	assert.Equal(t, 100.0, ScorePercent(4, 4))
	assert.Equal(t, 0.0, ScorePercent(0, 0))

	r := QuizResult{CorrectAnswers: 4, TotalQuestions: 5}
	assert.Equal(t, 80.0, r.Percentage())
}

func TestSessionVariants(t *testing.T) {
	var s Session = &StudentSession{Student: Student{ID: "s1"}}
	assert.Equal(t, RoleStudent, s.Role())
	assert.Equal(t, "s1", s.UserID())

	s = &TeacherSession{Teacher: Teacher{ID: "t1", Role: RoleAdmin}}
	assert.Equal(t, RoleAdmin, s.Role())
	assert.True(t, s.Role().IsStaff())
	assert.False(t, RoleStudent.IsStaff())
}
