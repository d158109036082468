package service

import (
	"context"
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/repository"
	"sahayak_backend/internal/util"
	"sahayak_backend/pkg/logger"

	"go.uber.org/zap"
)

// QuizGenerator produces a quiz for a topic. Implemented by AIService.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, topic string, numQuestions int) (model.Quiz, error)
}

type QuizService struct {
	QuizRepo   *repository.QuizRepository
	ResultRepo *repository.QuizResultRepository
	Directory  *DirectoryService
	Generator  QuizGenerator
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	resultRepo *repository.QuizResultRepository,
	directory *DirectoryService,
	generator QuizGenerator,
) *QuizService {
	return &QuizService{
		QuizRepo:   quizRepo,
		ResultRepo: resultRepo,
		Directory:  directory,
		Generator:  generator,
	}
}

// ownedCourse loads the course and checks the caller owns it.
func (s *QuizService) ownedCourse(session model.Session, courseID string) (*model.TeacherSession, model.Course, error) {
	ts, err := StaffSession(session)
	if err != nil {
		return nil, model.Course{}, err
	}
	course, ok := s.Directory.GetCourseByID(courseID)
	if !ok {
		return nil, model.Course{}, util.ErrCourseNotFound
	}
	if !OwnsCourse(ts, course) {
		return nil, model.Course{}, util.ErrPermissionDenied
	}
	return ts, course, nil
}

// GenerateQuiz asks the generator for a quiz and stores it as the course's
// quiz, replacing any previous one. Nothing is stored when generation or
// validation fails.
func (s *QuizService) GenerateQuiz(ctx context.Context, session model.Session, courseID, topic string, numQuestions int) (model.Quiz, error) {
	ts, course, err := s.ownedCourse(session, courseID)
	if err != nil {
		return model.Quiz{}, err
	}

	quiz, err := s.Generator.GenerateQuiz(ctx, topic, numQuestions)
	if err != nil {
		logger.Log.Warn("quiz generation failed",
			zap.String("courseId", course.ID),
			zap.String("teacherId", ts.Teacher.ID),
			zap.Error(err))
		return model.Quiz{}, err
	}
	quiz.CourseID = course.ID
	quiz.Topic = topic
	quiz.CreatedAt = model.NowFunc()

	return s.save(ctx, ts, quiz)
}

// SaveQuiz stores a quiz written by the teacher.
func (s *QuizService) SaveQuiz(ctx context.Context, session model.Session, courseID string, quiz model.Quiz) (model.Quiz, error) {
	ts, course, err := s.ownedCourse(session, courseID)
	if err != nil {
		return model.Quiz{}, err
	}
	quiz.CourseID = course.ID
	quiz.CreatedAt = model.NowFunc()
	return s.save(ctx, ts, quiz)
}

func (s *QuizService) save(ctx context.Context, ts *model.TeacherSession, quiz model.Quiz) (model.Quiz, error) {
	replaced, err := s.QuizRepo.Save(ctx, quiz)
	if err != nil {
		return model.Quiz{}, err
	}
	if replaced {
		logger.Log.Info("quiz replaced",
			zap.String("courseId", quiz.CourseID),
			zap.String("teacherId", ts.Teacher.ID),
			zap.Int("questions", len(quiz.Questions)))
	}
	return quiz, nil
}

// GetQuiz returns the full quiz, answers included, to staff who may manage the course.
func (s *QuizService) GetQuiz(session model.Session, courseID string) (model.Quiz, error) {
	ts, err := StaffSession(session)
	if err != nil {
		return model.Quiz{}, err
	}
	course, ok := s.Directory.GetCourseByID(courseID)
	if !ok {
		return model.Quiz{}, util.ErrCourseNotFound
	}
	if !CanManageCourse(ts, course) {
		return model.Quiz{}, util.ErrPermissionDenied
	}
	quiz, ok := s.QuizRepo.FindByCourse(courseID)
	if !ok {
		return model.Quiz{}, util.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *QuizService) enrolledCourse(ss *model.StudentSession, courseID string) (model.Student, model.Course, error) {
	student, ok := s.Directory.GetStudentByID(ss.Student.ID)
	if !ok {
		return model.Student{}, model.Course{}, util.ErrStudentNotFound
	}
	course, ok := s.Directory.GetCourseByID(courseID)
	if !ok {
		return model.Student{}, model.Course{}, util.ErrCourseNotFound
	}
	if !IsEnrolled(student, course) {
		return model.Student{}, model.Course{}, util.ErrNotEnrolled
	}
	return student, course, nil
}

// GetQuizForStudent returns the quiz without correct answers.
func (s *QuizService) GetQuizForStudent(session model.Session, courseID string) (model.StudentQuiz, error) {
	ss, err := StudentOf(session)
	if err != nil {
		return model.StudentQuiz{}, err
	}
	if _, _, err := s.enrolledCourse(ss, courseID); err != nil {
		return model.StudentQuiz{}, err
	}
	quiz, ok := s.QuizRepo.FindByCourse(courseID)
	if !ok {
		return model.StudentQuiz{}, util.ErrQuizNotFound
	}
	return quiz.ForStudent(), nil
}

// SubmitAnswers scores the answers against the stored quiz and upserts the
// caller's result. A studentID other than the caller's own is rejected.
func (s *QuizService) SubmitAnswers(ctx context.Context, session model.Session, courseID, studentID string, answers map[int]string) (model.QuizResult, error) {
	ss, err := StudentOf(session)
	if err != nil {
		return model.QuizResult{}, err
	}
	if studentID != "" && studentID != ss.Student.ID {
		logger.Log.Warn("rejected submission on behalf of another student",
			zap.String("sessionStudentId", ss.Student.ID),
			zap.String("requestedStudentId", studentID))
		return model.QuizResult{}, util.ErrPermissionDenied
	}
	student, course, err := s.enrolledCourse(ss, courseID)
	if err != nil {
		return model.QuizResult{}, err
	}
	result, replacedID, err := s.ResultRepo.SubmitAgainstQuiz(ctx, student.ID, course.ID, func(quiz model.Quiz) model.QuizSubmission {
		// only keep answers for questions that exist
		kept := make(map[int]string, len(answers))
		for i, a := range answers {
			if i >= 0 && i < len(quiz.Questions) {
				kept[i] = a
			}
		}
		correct := quiz.CountCorrect(kept)
		total := len(quiz.Questions)
		return model.QuizSubmission{
			Score:          model.ScorePercent(correct, total),
			CorrectAnswers: correct,
			TotalQuestions: total,
			Answers:        kept,
		}
	})
	if err != nil {
		return model.QuizResult{}, err
	}
	if replacedID != "" {
		logger.Log.Info("quiz result replaced",
			zap.String("studentId", student.ID),
			zap.String("courseId", course.ID),
			zap.String("previousResultId", replacedID),
			zap.String("resultId", result.ID))
	}
	return result, nil
}

// LatestResult returns the caller's own latest result for the course.
func (s *QuizService) LatestResult(session model.Session, courseID string) (model.QuizResult, error) {
	ss, err := StudentOf(session)
	if err != nil {
		return model.QuizResult{}, err
	}
	result, ok := s.ResultRepo.FindLatest(ss.Student.ID, courseID)
	if !ok {
		return model.QuizResult{}, util.ErrResultNotFound
	}
	return result, nil
}
