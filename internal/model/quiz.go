package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidQuiz = errors.New("invalid quiz")

const OptionsPerQuestion = 4

var quizValidate = newQuizValidator()

func newQuizValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		q := sl.Current().Interface().(QuizQuestion)
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				return
			}
		}
		sl.ReportError(q.CorrectAnswer, "correctAnswer", "CorrectAnswer", "in_options", "")
	}, QuizQuestion{})
	return v
}

// swagger:model QuizQuestion
type QuizQuestion struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"len=4,dive,required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
}

// swagger:model Quiz
type Quiz struct {
	CourseID  string         `json:"courseId"`
	Topic     string         `json:"topic,omitempty"`
	Questions []QuizQuestion `json:"questions" validate:"required,min=1,dive"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Validate rejects quizzes that could not be graded: every question needs
// exactly four options and a correct answer that is one of them.
func (q *Quiz) Validate() error {
	err := quizValidate.Struct(q)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidQuiz, err)
	}
	reasons := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		reasons = append(reasons, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidQuiz, strings.Join(reasons, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	ns := fe.Namespace()
	switch fe.Tag() {
	case "len":
		return fmt.Sprintf("%s must have exactly %s options", ns, fe.Param())
	case "in_options":
		return fmt.Sprintf("%s %q is not one of the options", ns, fe.Value())
	case "min":
		return fmt.Sprintf("%s must not be empty", ns)
	default:
		return fmt.Sprintf("%s failed %s", ns, fe.Tag())
	}
}

// IsCorrect reports whether answer matches question i. Out of range indexes are never correct.
func (q *Quiz) IsCorrect(i int, answer string) bool {
	if i < 0 || i >= len(q.Questions) {
		return false
	}
	return q.Questions[i].CorrectAnswer == answer
}

// CountCorrect scores a set of answers keyed by question index.
func (q *Quiz) CountCorrect(answers map[int]string) int {
	correct := 0
	for i := range q.Questions {
		if a, ok := answers[i]; ok && q.IsCorrect(i, a) {
			correct++
		}
	}
	return correct
}

func (q Quiz) Clone() Quiz {
	qs := make([]QuizQuestion, len(q.Questions))
	for i, qq := range q.Questions {
		qq.Options = append([]string(nil), qq.Options...)
		qs[i] = qq
	}
	q.Questions = qs
	return q
}

// StudentQuestion is a question as shown to a student taking the quiz.
type StudentQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// swagger:model StudentQuiz
type StudentQuiz struct {
	CourseID  string            `json:"courseId"`
	Topic     string            `json:"topic,omitempty"`
	Questions []StudentQuestion `json:"questions"`
}

// ForStudent strips the correct answers.
func (q *Quiz) ForStudent() StudentQuiz {
	out := StudentQuiz{CourseID: q.CourseID, Topic: q.Topic, Questions: make([]StudentQuestion, len(q.Questions))}
	for i, qq := range q.Questions {
		out.Questions[i] = StudentQuestion{
			Question: qq.Question,
			Options:  append([]string(nil), qq.Options...),
		}
	}
	return out
}
