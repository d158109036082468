package service

import (
	"context"
	"fmt"
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quizWorld struct {
	*fixture
	asha    model.Teacher
	ravi    model.Teacher
	admin   model.Teacher
	meera   model.Student
	kabir   model.Student
	science model.Course
}

func newQuizWorld(t *testing.T) *quizWorld {
	f := newFixture(t)
	w := &quizWorld{fixture: f}
	w.asha = f.teacher(t, "Asha", "asha@school.in", model.RoleTeacher)
	w.ravi = f.teacher(t, "Ravi", "ravi@school.in", model.RoleTeacher)
	w.admin = f.teacher(t, "Admin", "admin@school.in", model.RoleAdmin)
	w.meera = f.student(t, "Meera", "meera@school.in", w.asha.ID)
	w.kabir = f.student(t, "Kabir", "kabir@school.in", w.ravi.ID)
	w.science = f.course(t, "Science", w.asha.ID)
	return w
}

func TestGenerateQuizRequiresOwnership(t *testing.T) {
	w := newQuizWorld(t)

	for name, session := range map[string]model.Session{
		"other teacher": staff(w.ravi),
		"admin":         staff(w.admin),
		"student":       pupil(w.meera),
	} {
		_, err := w.quiz.GenerateQuiz(w.ctx, session, w.science.ID, "plants", 5)
		assert.ErrorIs(t, err, util.ErrPermissionDenied, name)
	}
	assert.Zero(t, w.gen.calls)

	_, err := w.quiz.GenerateQuiz(w.ctx, staff(w.asha), "missing", "plants", 5)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestGenerateQuizStoresAndReplaces(t *testing.T) {
	w := newQuizWorld(t)

	q1, err := w.quiz.GenerateQuiz(w.ctx, staff(w.asha), w.science.ID, "plants", 5)
	require.NoError(t, err)
	assert.Equal(t, w.science.ID, q1.CourseID)
	assert.Equal(t, "plants", q1.Topic)

	w.gen.quiz = quizOf(3)
	_, err = w.quiz.GenerateQuiz(w.ctx, staff(w.asha), w.science.ID, "animals", 3)
	require.NoError(t, err)

	got, err := w.quiz.GetQuiz(staff(w.asha), w.science.ID)
	require.NoError(t, err)
	assert.Equal(t, "animals", got.Topic)
	assert.Len(t, got.Questions, 3)

	// admins may read any quiz
	_, err = w.quiz.GetQuiz(staff(w.admin), w.science.ID)
	assert.NoError(t, err)
	_, err = w.quiz.GetQuiz(staff(w.ravi), w.science.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestGenerationFailureStoresNothing(t *testing.T) {
	w := newQuizWorld(t)

	w.gen.err = fmt.Errorf("%w: %w", util.ErrGenerationFailed, context.DeadlineExceeded)
	_, err := w.quiz.GenerateQuiz(w.ctx, staff(w.asha), w.science.ID, "plants", 5)
	assert.ErrorIs(t, err, util.ErrGenerationFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = w.quiz.GetQuiz(staff(w.asha), w.science.ID)
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestMalformedQuizIsRejected(t *testing.T) {
	w := newQuizWorld(t)

	bad := quizOf(2)
	bad.Questions[1].Options = []string{"A", "B"}
	w.gen.quiz = bad
	_, err := w.quiz.GenerateQuiz(w.ctx, staff(w.asha), w.science.ID, "plants", 2)
	assert.ErrorIs(t, err, util.ErrInvalidQuiz)

	dangling := quizOf(1)
	dangling.Questions[0].CorrectAnswer = "E"
	_, err = w.quiz.SaveQuiz(w.ctx, staff(w.asha), w.science.ID, dangling)
	assert.ErrorIs(t, err, util.ErrInvalidQuiz)

	_, ok := w.quizzes.FindByCourse(w.science.ID)
	assert.False(t, ok)
}

func TestStudentSeesQuizWithoutAnswers(t *testing.T) {
	w := newQuizWorld(t)
	_, err := w.quiz.SaveQuiz(w.ctx, staff(w.asha), w.science.ID, quizOf(2))
	require.NoError(t, err)

	sq, err := w.quiz.GetQuizForStudent(pupil(w.meera), w.science.ID)
	require.NoError(t, err)
	assert.Len(t, sq.Questions, 2)
	assert.Equal(t, []string{"A", "B", "C", "D"}, sq.Questions[0].Options)

	_, err = w.quiz.GetQuizForStudent(pupil(w.kabir), w.science.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	_, err = w.quiz.GetQuizForStudent(staff(w.asha), w.science.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestSubmitScoresThreeOfFive(t *testing.T) {
	w := newQuizWorld(t)
	_, err := w.quiz.SaveQuiz(w.ctx, staff(w.asha), w.science.ID, quizOf(5))
	require.NoError(t, err)

	answers := map[int]string{0: "A", 1: "A", 2: "A", 3: "B"} // question 4 unanswered
	result, err := w.quiz.SubmitAnswers(w.ctx, pupil(w.meera), w.science.ID, w.meera.ID, answers)
	require.NoError(t, err)
	assert.Equal(t, 60.0, result.Score)
	assert.Equal(t, 3, result.CorrectAnswers)
	assert.Equal(t, 5, result.TotalQuestions)
	assert.False(t, result.Graded)

	latest, err := w.quiz.LatestResult(pupil(w.meera), w.science.ID)
	require.NoError(t, err)
	assert.Equal(t, result.ID, latest.ID)
	assert.Equal(t, model.StatusNeedsHelp, Classify(latest.Score))
}

func TestResubmissionReplacesResult(t *testing.T) {
	w := newQuizWorld(t)
	_, err := w.quiz.SaveQuiz(w.ctx, staff(w.asha), w.science.ID, quizOf(2))
	require.NoError(t, err)

	first, err := w.quiz.SubmitAnswers(w.ctx, pupil(w.meera), w.science.ID, "", map[int]string{0: "B"})
	require.NoError(t, err)
	second, err := w.quiz.SubmitAnswers(w.ctx, pupil(w.meera), w.science.ID, "", map[int]string{0: "A", 1: "A"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	results := w.results.FindByCourse(w.science.ID)
	require.Len(t, results, 1)
	assert.Equal(t, 100.0, results[0].Score)
}

func TestSubmitOnlyForSelf(t *testing.T) {
	w := newQuizWorld(t)
	other := w.student(t, "Isha", "isha@school.in", w.asha.ID)
	_, err := w.quiz.SaveQuiz(w.ctx, staff(w.asha), w.science.ID, quizOf(2))
	require.NoError(t, err)

	_, err = w.quiz.SubmitAnswers(w.ctx, pupil(w.meera), w.science.ID, other.ID, map[int]string{0: "A"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = w.quiz.SubmitAnswers(w.ctx, staff(w.asha), w.science.ID, w.meera.ID, map[int]string{0: "A"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = w.quiz.SubmitAnswers(w.ctx, pupil(w.kabir), w.science.ID, "", map[int]string{0: "A"})
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	assert.Empty(t, w.results.FindByCourse(w.science.ID))
}

func TestSubmitWithoutQuiz(t *testing.T) {
	w := newQuizWorld(t)
	_, err := w.quiz.SubmitAnswers(w.ctx, pupil(w.meera), w.science.ID, "", map[int]string{0: "A"})
	assert.ErrorIs(t, err, util.ErrQuizNotFound)

	_, err = w.quiz.LatestResult(pupil(w.meera), w.science.ID)
	assert.ErrorIs(t, err, util.ErrResultNotFound)
}

func TestSubmitIgnoresOutOfRangeAnswers(t *testing.T) {
	w := newQuizWorld(t)
	_, err := w.quiz.SaveQuiz(w.ctx, staff(w.asha), w.science.ID, quizOf(2))
	require.NoError(t, err)

	result, err := w.quiz.SubmitAnswers(w.ctx, pupil(w.meera), w.science.ID, "", map[int]string{0: "A", 5: "A", -1: "A"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Len(t, result.Answers, 1)
}
