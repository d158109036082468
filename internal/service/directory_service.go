package service

import (
	"context"
	"errors"
	"fmt"
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/repository"
	"sahayak_backend/internal/util"
	"sahayak_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DirectoryService manages teachers, students and courses.
type DirectoryService struct {
	TeacherRepo *repository.TeacherRepository
	StudentRepo *repository.StudentRepository
	CourseRepo  *repository.CourseRepository
	BcryptCost  int
}

func NewDirectoryService(
	teacherRepo *repository.TeacherRepository,
	studentRepo *repository.StudentRepository,
	courseRepo *repository.CourseRepository,
	bcryptCost int,
) *DirectoryService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &DirectoryService{
		TeacherRepo: teacherRepo,
		StudentRepo: studentRepo,
		CourseRepo:  courseRepo,
		BcryptCost:  bcryptCost,
	}
}

type TeacherInput struct {
	Name     string
	Email    string
	Password string
	Role     model.UserRole
}

type StudentInput struct {
	Name      string
	Email     string
	Password  string
	Grade     string
	TeacherID string
}

type CourseInput struct {
	Title       string
	Description string
	Modules     []string
	TeacherID   string
}

// MaxPasswordBytes is the most bcrypt will hash.
const MaxPasswordBytes = 72

func (s *DirectoryService) hashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password must not be empty", util.ErrInvalidPassword)
	}
	if len(password) > MaxPasswordBytes {
		return "", fmt.Errorf("%w: password is longer than %d bytes", util.ErrInvalidPassword, MaxPasswordBytes)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %v", util.ErrInvalidPassword, err)
	}
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func passwordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// requireText rejects a patch field that is present but blank.
func requireText(field string, v *string) error {
	if v != nil && strings.TrimSpace(*v) == "" {
		return fmt.Errorf("%w: %s must not be empty", util.ErrInvalidInput, field)
	}
	return nil
}

func (s *DirectoryService) teacherExists(id string) bool {
	if id == model.Unassigned {
		return true
	}
	_, ok := s.TeacherRepo.FindByID(id)
	return ok
}

// ---- teachers ----

func (s *DirectoryService) AddTeacher(ctx context.Context, in TeacherInput) (model.Teacher, error) {
	if in.Role == "" {
		in.Role = model.RoleTeacher
	}
	if !in.Role.IsStaff() {
		return model.Teacher{}, fmt.Errorf("%w: %q is not a staff role", util.ErrInvalidRole, in.Role)
	}
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return model.Teacher{}, err
	}

	teacher := model.Teacher{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.TeacherRepo.Create(ctx, &teacher); err != nil {
		return model.Teacher{}, err
	}
	return teacher, nil
}

func (s *DirectoryService) GetTeachers() []model.Teacher {
	return s.TeacherRepo.FindAll()
}

func (s *DirectoryService) GetTeacherByID(id string) (model.Teacher, bool) {
	return s.TeacherRepo.FindByID(id)
}

func (s *DirectoryService) GetTeacherByName(name string) (model.Teacher, bool) {
	return s.TeacherRepo.FindByName(name)
}

func (s *DirectoryService) GetTeacherByEmail(email string) (model.Teacher, bool) {
	return s.TeacherRepo.FindByEmail(email)
}

// UpdateTeacher merges the patch. An omitted password keeps the stored one.
func (s *DirectoryService) UpdateTeacher(ctx context.Context, id string, patch model.TeacherPatch) (model.Teacher, error) {
	if err := requireText("name", patch.Name); err != nil {
		return model.Teacher{}, err
	}
	if err := requireText("email", patch.Email); err != nil {
		return model.Teacher{}, err
	}
	var newHash string
	if patch.Password != nil {
		hash, err := s.hashPassword(*patch.Password)
		if err != nil {
			return model.Teacher{}, err
		}
		newHash = hash
	}
	if patch.Role != nil && !patch.Role.IsStaff() {
		return model.Teacher{}, fmt.Errorf("%w: %q is not a staff role", util.ErrInvalidRole, *patch.Role)
	}

	return s.TeacherRepo.Update(ctx, id, func(t *model.Teacher) error {
		if patch.Name != nil {
			t.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Email != nil {
			t.Email = strings.TrimSpace(*patch.Email)
		}
		if patch.Role != nil {
			t.Role = *patch.Role
		}
		if newHash != "" {
			t.PasswordHash = newHash
		}
		return nil
	})
}

// UpdateTeacherPassword returns false, and changes nothing, when current does not match.
func (s *DirectoryService) UpdateTeacherPassword(ctx context.Context, id, current, newPassword string) (bool, error) {
	teacher, ok := s.TeacherRepo.FindByID(id)
	if !ok {
		return false, util.ErrTeacherNotFound
	}
	if !passwordMatches(teacher.PasswordHash, current) {
		return false, nil
	}
	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return false, err
	}
	return s.TeacherRepo.SwapPassword(ctx, id, teacher.PasswordHash, hash)
}

func (s *DirectoryService) DeleteTeacher(ctx context.Context, id string) error {
	students, courses, err := s.TeacherRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	logger.Log.Info("teacher deleted",
		zap.String("teacherId", id),
		zap.Int("orphanedStudents", students),
		zap.Int("orphanedCourses", courses))
	return nil
}

// ---- students ----

func (s *DirectoryService) AddStudent(ctx context.Context, in StudentInput) (model.Student, error) {
	if !s.teacherExists(in.TeacherID) {
		return model.Student{}, util.ErrTeacherNotFound
	}
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return model.Student{}, err
	}

	student := model.Student{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		Grade:        in.Grade,
		TeacherID:    in.TeacherID,
	}
	if err := s.StudentRepo.Create(ctx, &student); err != nil {
		return model.Student{}, err
	}
	return student, nil
}

func (s *DirectoryService) GetStudents() []model.Student {
	return s.StudentRepo.FindAll()
}

func (s *DirectoryService) GetStudentsByTeacher(teacherID string) []model.Student {
	return s.StudentRepo.FindByTeacher(teacherID)
}

func (s *DirectoryService) GetStudentByID(id string) (model.Student, bool) {
	return s.StudentRepo.FindByID(id)
}

func (s *DirectoryService) GetStudentByName(name string) (model.Student, bool) {
	return s.StudentRepo.FindByName(name)
}

func (s *DirectoryService) GetStudentByEmail(email string) (model.Student, bool) {
	return s.StudentRepo.FindByEmail(email)
}

func (s *DirectoryService) UpdateStudent(ctx context.Context, id string, patch model.StudentPatch) (model.Student, error) {
	if err := requireText("name", patch.Name); err != nil {
		return model.Student{}, err
	}
	if err := requireText("email", patch.Email); err != nil {
		return model.Student{}, err
	}
	if patch.TeacherID != nil && !s.teacherExists(*patch.TeacherID) {
		return model.Student{}, util.ErrTeacherNotFound
	}
	var newHash string
	if patch.Password != nil {
		hash, err := s.hashPassword(*patch.Password)
		if err != nil {
			return model.Student{}, err
		}
		newHash = hash
	}

	return s.StudentRepo.Update(ctx, id, func(st *model.Student) error {
		if patch.Name != nil {
			st.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Email != nil {
			st.Email = strings.TrimSpace(*patch.Email)
		}
		if patch.Grade != nil {
			st.Grade = *patch.Grade
		}
		if patch.TeacherID != nil {
			st.TeacherID = *patch.TeacherID
		}
		if newHash != "" {
			st.PasswordHash = newHash
		}
		return nil
	})
}

func (s *DirectoryService) UpdateStudentPassword(ctx context.Context, id, current, newPassword string) (bool, error) {
	student, ok := s.StudentRepo.FindByID(id)
	if !ok {
		return false, util.ErrStudentNotFound
	}
	if !passwordMatches(student.PasswordHash, current) {
		return false, nil
	}
	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return false, err
	}
	return s.StudentRepo.SwapPassword(ctx, id, student.PasswordHash, hash)
}

func (s *DirectoryService) DeleteStudent(ctx context.Context, id string) error {
	return s.StudentRepo.Delete(ctx, id)
}

// ---- courses ----

func (s *DirectoryService) AddCourse(ctx context.Context, in CourseInput) (model.Course, error) {
	if !s.teacherExists(in.TeacherID) {
		return model.Course{}, util.ErrTeacherNotFound
	}
	course := model.Course{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Modules:     append([]string{}, in.Modules...),
		TeacherID:   in.TeacherID,
	}
	if err := s.CourseRepo.Create(ctx, &course); err != nil {
		return model.Course{}, err
	}
	return course, nil
}

func (s *DirectoryService) GetCourses() []model.Course {
	return s.CourseRepo.FindAll()
}

func (s *DirectoryService) GetCoursesByTeacher(teacherID string) []model.Course {
	return s.CourseRepo.FindByTeacher(teacherID)
}

func (s *DirectoryService) GetCourseByID(id string) (model.Course, bool) {
	return s.CourseRepo.FindByID(id)
}

func (s *DirectoryService) GetCourseByTitle(title string) (model.Course, bool) {
	return s.CourseRepo.FindByTitle(title)
}

func (s *DirectoryService) UpdateCourse(ctx context.Context, id string, patch model.CoursePatch) (model.Course, error) {
	if err := requireText("title", patch.Title); err != nil {
		return model.Course{}, err
	}
	if patch.TeacherID != nil && !s.teacherExists(*patch.TeacherID) {
		return model.Course{}, util.ErrTeacherNotFound
	}
	return s.CourseRepo.Update(ctx, id, func(c *model.Course) error {
		if patch.Title != nil {
			c.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			c.Description = *patch.Description
		}
		if patch.Modules != nil {
			c.Modules = append([]string{}, (*patch.Modules)...)
		}
		if patch.TeacherID != nil {
			c.TeacherID = *patch.TeacherID
		}
		return nil
	})
}

func (s *DirectoryService) DeleteCourse(ctx context.Context, id string) error {
	quizRemoved, err := s.CourseRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if quizRemoved {
		logger.Log.Info("course deleted with its quiz", zap.String("courseId", id))
	}
	return nil
}

// ---- enrollment ----

// CoursesForStudent lists the courses of the student's teacher. A student
// without a teacher has no courses.
func (s *DirectoryService) CoursesForStudent(studentID string) ([]model.Course, error) {
	student, ok := s.StudentRepo.FindByID(studentID)
	if !ok {
		return nil, util.ErrStudentNotFound
	}
	if !student.HasTeacher() {
		return []model.Course{}, nil
	}
	return s.CourseRepo.FindByTeacher(student.TeacherID), nil
}

// IsEnrolled reports whether the course belongs to the student's teacher.
func IsEnrolled(student model.Student, course model.Course) bool {
	return student.HasTeacher() && course.TeacherID == student.TeacherID
}
