package repository

import (
	"context"
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/util"
	"sort"
)

type QuizResultRepository struct {
	Store *Store
}

func NewQuizResultRepository(store *Store) *QuizResultRepository {
	return &QuizResultRepository{Store: store}
}

// Submit stores a new result for the (student, course) pair, replacing any
// earlier one in the same critical section. The replacement gets a fresh id.
func (r *QuizResultRepository) Submit(ctx context.Context, sub model.QuizSubmission) (result model.QuizResult, replacedID string, err error) {
	return r.submit(ctx, sub.StudentID, sub.CourseID, func() (model.QuizSubmission, error) {
		return sub, nil
	})
}

// SubmitAgainstQuiz scores with the course's current quiz while holding the
// write lock, so a quiz saved at the same time never mixes with the answers.
func (r *QuizResultRepository) SubmitAgainstQuiz(ctx context.Context, studentID, courseID string, score func(model.Quiz) model.QuizSubmission) (result model.QuizResult, replacedID string, err error) {
	return r.submit(ctx, studentID, courseID, func() (model.QuizSubmission, error) {
		quiz, ok := r.Store.quizzes.get(courseID)
		if !ok {
			return model.QuizSubmission{}, util.ErrQuizNotFound
		}
		sub := score(quiz)
		sub.StudentID, sub.CourseID = studentID, courseID
		return sub, nil
	})
}

func (r *QuizResultRepository) submit(ctx context.Context, studentID, courseID string, build func() (model.QuizSubmission, error)) (result model.QuizResult, replacedID string, err error) {
	key := pairKey{studentID, courseID}
	err = r.Store.update(ctx, func(t *tx) error {
		sub, err := build()
		if err != nil {
			return err
		}
		result = model.QuizResult{
			ID:             model.GenerateUUID(),
			StudentID:      studentID,
			CourseID:       courseID,
			Score:          sub.Score,
			CorrectAnswers: sub.CorrectAnswers,
			TotalQuestions: sub.TotalQuestions,
			Answers:        sub.Answers,
			Graded:         false,
			SubmittedAt:    model.NowFunc(),
		}
		if result.Answers == nil {
			result.Answers = map[int]string{}
		}
		result = result.Clone()

		if oldID, ok := r.Store.resultByPair[key]; ok {
			replacedID = oldID
			r.Store.results.stageDelete(t, oldID)
		}
		if err := r.Store.results.stagePut(t, result.ID, result); err != nil {
			return err
		}
		t.effects = append(t.effects, func() {
			r.Store.resultByPair[key] = result.ID
		})
		return nil
	})
	if err != nil {
		return model.QuizResult{}, "", err
	}
	return result, replacedID, nil
}

// FindByCourse returns the course's results in insertion order.
func (r *QuizResultRepository) FindByCourse(courseID string) []model.QuizResult {
	var results []model.QuizResult
	r.Store.view(func() {
		results = r.Store.results.find(func(q model.QuizResult) bool { return q.CourseID == courseID })
	})
	return results
}

func (r *QuizResultRepository) FindByStudent(studentID string) []model.QuizResult {
	var results []model.QuizResult
	r.Store.view(func() {
		results = r.Store.results.find(func(q model.QuizResult) bool { return q.StudentID == studentID })
	})
	return results
}

// FindLatest returns the newest result by submission time for the pair.
func (r *QuizResultRepository) FindLatest(studentID, courseID string) (model.QuizResult, bool) {
	var matches []model.QuizResult
	r.Store.view(func() {
		matches = r.Store.results.find(func(q model.QuizResult) bool {
			return q.StudentID == studentID && q.CourseID == courseID
		})
	})
	if len(matches) == 0 {
		return model.QuizResult{}, false
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SubmittedAt.After(matches[j].SubmittedAt)
	})
	return matches[0], true
}

func (r *QuizResultRepository) FindByID(id string) (model.QuizResult, bool) {
	var (
		result model.QuizResult
		ok     bool
	)
	r.Store.view(func() {
		result, ok = r.Store.results.get(id)
	})
	return result, ok
}

// MarkGraded flips graded to true. Grading an already graded result writes nothing.
func (r *QuizResultRepository) MarkGraded(ctx context.Context, id string) (result model.QuizResult, changed bool, err error) {
	err = r.Store.update(ctx, func(t *tx) error {
		current, ok := r.Store.results.get(id)
		if !ok {
			return util.ErrResultNotFound
		}
		result = current
		if current.Graded {
			return nil
		}
		current.Graded = true
		result = current
		changed = true
		return r.Store.results.stagePut(t, id, current)
	})
	if err != nil {
		return model.QuizResult{}, false, err
	}
	return result, changed, nil
}
