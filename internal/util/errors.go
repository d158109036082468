package util

import (
	"errors"
	"sahayak_backend/internal/model"
)

var (
	ErrTeacherNotFound    = errors.New("teacher not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrResultNotFound     = errors.New("quiz result not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotEnrolled        = errors.New("student is not enrolled in this course")
	ErrInvalidQuiz        = model.ErrInvalidQuiz
	ErrGenerationFailed   = errors.New("generation failed")
	ErrResultNotGraded    = errors.New("quiz result has not been graded")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidInput       = errors.New("invalid input")
)
