package service

import (
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/util"
)

// StaffSession unwraps a teacher or admin session.
func StaffSession(session model.Session) (*model.TeacherSession, error) {
	ts, ok := session.(*model.TeacherSession)
	if !ok || !ts.Teacher.Role.IsStaff() {
		return nil, util.ErrPermissionDenied
	}
	return ts, nil
}

func StudentOf(session model.Session) (*model.StudentSession, error) {
	ss, ok := session.(*model.StudentSession)
	if !ok {
		return nil, util.ErrPermissionDenied
	}
	return ss, nil
}

// OwnsCourse is the check for quiz writes and grading: admins are not exempt.
func OwnsCourse(ts *model.TeacherSession, course model.Course) bool {
	return course.TeacherID != model.Unassigned && course.TeacherID == ts.Teacher.ID
}

func OwnsStudent(ts *model.TeacherSession, student model.Student) bool {
	return student.HasTeacher() && student.TeacherID == ts.Teacher.ID
}

// CanManageCourse covers directory edits and read-only views, where admins may act on any record.
func CanManageCourse(ts *model.TeacherSession, course model.Course) bool {
	return ts.Teacher.IsAdmin() || OwnsCourse(ts, course)
}

func CanManageStudent(ts *model.TeacherSession, student model.Student) bool {
	return ts.Teacher.IsAdmin() || OwnsStudent(ts, student)
}
