package service

import (
	"context"
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/repository"
	"sahayak_backend/internal/util"
	"sahayak_backend/pkg/logger"

	"go.uber.org/zap"
)

type GradingService struct {
	QuizRepo   *repository.QuizRepository
	ResultRepo *repository.QuizResultRepository
	Directory  *DirectoryService
}

func NewGradingService(
	quizRepo *repository.QuizRepository,
	resultRepo *repository.QuizResultRepository,
	directory *DirectoryService,
) *GradingService {
	return &GradingService{
		QuizRepo:   quizRepo,
		ResultRepo: resultRepo,
		Directory:  directory,
	}
}

// QuestionReview is one question of a submission, checked against the stored quiz.
type QuestionReview struct {
	Index         int      `json:"index"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Answer        string   `json:"answer"`
	Answered      bool     `json:"answered"`
	Correct       bool     `json:"correct"`
}

// swagger:model ResultReview
type ResultReview struct {
	Student   model.Student           `json:"student"`
	Course    model.Course            `json:"course"`
	Result    model.QuizResult        `json:"result"`
	Status    model.PerformanceStatus `json:"status"`
	Questions []QuestionReview        `json:"questions"`
}

// swagger:model CourseAverage
type CourseAverage struct {
	CourseID string   `json:"courseId"`
	Title    string   `json:"title"`
	Results  int      `json:"results"`
	Average  *float64 `json:"average"` // null means no data
}

// swagger:model StudentStatus
type StudentStatus struct {
	StudentID   string                  `json:"studentId"`
	StudentName string                  `json:"studentName"`
	Status      model.PerformanceStatus `json:"status"`
	Score       *float64                `json:"score"`
	Graded      bool                    `json:"graded"`
	ResultID    string                  `json:"resultId,omitempty"`
}

// Classify maps a 0-100 score to a dashboard status.
func Classify(score float64) model.PerformanceStatus {
	switch {
	case score >= 90:
		return model.StatusExcelling
	case score >= 70:
		return model.StatusOnTrack
	default:
		return model.StatusNeedsHelp
	}
}

// ReviewQuestions rebuilds per-question correctness. A missing answer counts as incorrect.
func ReviewQuestions(quiz model.Quiz, answers map[int]string) []QuestionReview {
	out := make([]QuestionReview, len(quiz.Questions))
	for i, q := range quiz.Questions {
		answer, answered := answers[i]
		out[i] = QuestionReview{
			Index:         i,
			Question:      q.Question,
			Options:       append([]string(nil), q.Options...),
			CorrectAnswer: q.CorrectAnswer,
			Answer:        answer,
			Answered:      answered,
			Correct:       answered && answer == q.CorrectAnswer,
		}
	}
	return out
}

// AverageScore is the mean of correct/total*100. ok is false when there is no data.
func AverageScore(results []model.QuizResult) (avg float64, ok bool) {
	var (
		sum float64
		n   int
	)
	for i := range results {
		if results[i].TotalQuestions <= 0 {
			continue
		}
		sum += results[i].Percentage()
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func (s *GradingService) managedCourse(session model.Session, courseID string) (*model.TeacherSession, model.Course, error) {
	ts, err := StaffSession(session)
	if err != nil {
		return nil, model.Course{}, err
	}
	course, ok := s.Directory.GetCourseByID(courseID)
	if !ok {
		return nil, model.Course{}, util.ErrCourseNotFound
	}
	if !CanManageCourse(ts, course) {
		return nil, model.Course{}, util.ErrPermissionDenied
	}
	return ts, course, nil
}

// Review combines the student's latest result with the course quiz.
func (s *GradingService) Review(session model.Session, courseID, studentID string) (ResultReview, error) {
	ts, course, err := s.managedCourse(session, courseID)
	if err != nil {
		return ResultReview{}, err
	}
	student, ok := s.Directory.GetStudentByID(studentID)
	if !ok {
		return ResultReview{}, util.ErrStudentNotFound
	}
	if !CanManageStudent(ts, student) {
		return ResultReview{}, util.ErrPermissionDenied
	}
	result, ok := s.ResultRepo.FindLatest(studentID, courseID)
	if !ok {
		return ResultReview{}, util.ErrResultNotFound
	}
	quiz, ok := s.QuizRepo.FindByCourse(courseID)
	if !ok {
		return ResultReview{}, util.ErrQuizNotFound
	}

	return ResultReview{
		Student:   student,
		Course:    course,
		Result:    result,
		Status:    Classify(result.Score),
		Questions: ReviewQuestions(quiz, result.Answers),
	}, nil
}

// GradeQuiz marks a result graded. The caller must own the student.
// Grading twice succeeds.
func (s *GradingService) GradeQuiz(ctx context.Context, session model.Session, resultID string) (model.QuizResult, error) {
	ts, err := StaffSession(session)
	if err != nil {
		return model.QuizResult{}, err
	}
	result, ok := s.ResultRepo.FindByID(resultID)
	if !ok {
		return model.QuizResult{}, util.ErrResultNotFound
	}
	student, ok := s.Directory.GetStudentByID(result.StudentID)
	if !ok {
		return model.QuizResult{}, util.ErrStudentNotFound
	}
	if !OwnsStudent(ts, student) {
		return model.QuizResult{}, util.ErrPermissionDenied
	}

	graded, changed, err := s.ResultRepo.MarkGraded(ctx, resultID)
	if err != nil {
		return model.QuizResult{}, err
	}
	if changed {
		logger.Log.Info("quiz result graded",
			zap.String("resultId", resultID),
			zap.String("studentId", result.StudentID),
			zap.String("courseId", result.CourseID),
			zap.String("teacherId", ts.Teacher.ID))
	}
	return graded, nil
}

// CourseResults lists a course's results in submission order.
func (s *GradingService) CourseResults(session model.Session, courseID string) ([]model.QuizResult, error) {
	if _, _, err := s.managedCourse(session, courseID); err != nil {
		return nil, err
	}
	return s.ResultRepo.FindByCourse(courseID), nil
}

// CourseAverages covers the caller's courses, or every course for an admin.
func (s *GradingService) CourseAverages(session model.Session) ([]CourseAverage, error) {
	ts, err := StaffSession(session)
	if err != nil {
		return nil, err
	}
	var courses []model.Course
	if ts.Teacher.IsAdmin() {
		courses = s.Directory.GetCourses()
	} else {
		courses = s.Directory.GetCoursesByTeacher(ts.Teacher.ID)
	}

	out := make([]CourseAverage, 0, len(courses))
	for _, c := range courses {
		results := s.ResultRepo.FindByCourse(c.ID)
		row := CourseAverage{CourseID: c.ID, Title: c.Title, Results: len(results)}
		if avg, ok := AverageScore(results); ok {
			row.Average = &avg
		}
		out = append(out, row)
	}
	return out, nil
}

// StudentStatuses classifies every student enrolled in the course.
func (s *GradingService) StudentStatuses(session model.Session, courseID string) ([]StudentStatus, error) {
	_, course, err := s.managedCourse(session, courseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID == model.Unassigned {
		return []StudentStatus{}, nil
	}

	students := s.Directory.GetStudentsByTeacher(course.TeacherID)
	out := make([]StudentStatus, 0, len(students))
	for _, st := range students {
		row := StudentStatus{StudentID: st.ID, StudentName: st.Name, Status: model.StatusNoQuizTaken}
		if result, ok := s.ResultRepo.FindLatest(st.ID, course.ID); ok {
			score := result.Score
			row.Score = &score
			row.Status = Classify(score)
			row.Graded = result.Graded
			row.ResultID = result.ID
		}
		out = append(out, row)
	}
	return out, nil
}
