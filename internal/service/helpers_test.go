package service

import (
	"context"
	"sahayak_backend/internal/config"
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/repository"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "secret123"

type fakeGenerator struct {
	quiz  model.Quiz
	err   error
	calls int
}

func (g *fakeGenerator) GenerateQuiz(_ context.Context, topic string, n int) (model.Quiz, error) {
	g.calls++
	if g.err != nil {
		return model.Quiz{}, g.err
	}
	q := g.quiz.Clone()
	q.Topic = topic
	return q, nil
}

type fixture struct {
	ctx     context.Context
	cfg     *config.Config
	store   *repository.Store
	quizzes *repository.QuizRepository
	results *repository.QuizResultRepository
	dir     *DirectoryService
	auth    *AuthService
	quiz    *QuizService
	grading *GradingService
	gen     *fakeGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewStore(nil)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret-test-secret-test-secret", ExpireTime: time.Hour}}
	quizzes := repository.NewQuizRepository(store)
	results := repository.NewQuizResultRepository(store)
	dir := NewDirectoryService(
		repository.NewTeacherRepository(store),
		repository.NewStudentRepository(store),
		repository.NewCourseRepository(store),
		bcrypt.MinCost,
	)
	gen := &fakeGenerator{quiz: quizOf(5)}
	return &fixture{
		ctx:     context.Background(),
		cfg:     cfg,
		store:   store,
		quizzes: quizzes,
		results: results,
		dir:     dir,
		auth:    NewAuthService(dir, cfg),
		quiz:    NewQuizService(quizzes, results, dir, gen),
		grading: NewGradingService(quizzes, results, dir),
		gen:     gen,
	}
}

// quizOf builds n questions whose correct answer is always "A".
func quizOf(n int) model.Quiz {
	q := model.Quiz{}
	for i := 0; i < n; i++ {
		q.Questions = append(q.Questions, model.QuizQuestion{
			Question:      "question",
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "A",
		})
	}
	return q
}

func (f *fixture) teacher(t *testing.T, name, email string, role model.UserRole) model.Teacher {
	t.Helper()
	teacher, err := f.dir.AddTeacher(f.ctx, TeacherInput{Name: name, Email: email, Password: testPassword, Role: role})
	require.NoError(t, err)
	return teacher
}

func (f *fixture) student(t *testing.T, name, email, teacherID string) model.Student {
	t.Helper()
	student, err := f.dir.AddStudent(f.ctx, StudentInput{Name: name, Email: email, Password: testPassword, Grade: "7", TeacherID: teacherID})
	require.NoError(t, err)
	return student
}

func (f *fixture) course(t *testing.T, title, teacherID string) model.Course {
	t.Helper()
	course, err := f.dir.AddCourse(f.ctx, CourseInput{Title: title, Modules: []string{"intro"}, TeacherID: teacherID})
	require.NoError(t, err)
	return course
}

func staff(t model.Teacher) model.Session {
	return &model.TeacherSession{Teacher: t}
}

func pupil(s model.Student) model.Session {
	return &model.StudentSession{Student: s}
}

func strPtr(s string) *string { return &s }
