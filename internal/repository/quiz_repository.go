package repository

import (
	"context"
	"sahayak_backend/internal/model"
)

// QuizRepository keeps at most one quiz per course, keyed by course id.
type QuizRepository struct {
	Store *Store
}

func NewQuizRepository(store *Store) *QuizRepository {
	return &QuizRepository{Store: store}
}

// Save replaces whatever quiz the course had. Malformed quizzes are rejected
// before anything is written.
func (r *QuizRepository) Save(ctx context.Context, quiz model.Quiz) (replaced bool, err error) {
	if err := quiz.Validate(); err != nil {
		return false, err
	}
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = model.NowFunc()
	}
	err = r.Store.update(ctx, func(t *tx) error {
		_, replaced = r.Store.quizzes.get(quiz.CourseID)
		return r.Store.quizzes.stagePut(t, quiz.CourseID, quiz)
	})
	if err != nil {
		return false, err
	}
	return replaced, nil
}

func (r *QuizRepository) FindByCourse(courseID string) (model.Quiz, bool) {
	var (
		quiz model.Quiz
		ok   bool
	)
	r.Store.view(func() {
		quiz, ok = r.Store.quizzes.get(courseID)
	})
	return quiz, ok
}
