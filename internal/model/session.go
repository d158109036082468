package model

// Session is the authenticated caller. It is either a *StudentSession or a
// *TeacherSession; admins are teachers with the admin role.
type Session interface {
	Role() UserRole
	UserID() string
	session()
}

type StudentSession struct {
	Student Student
}

func (s *StudentSession) Role() UserRole { return RoleStudent }
func (s *StudentSession) UserID() string { return s.Student.ID }
func (*StudentSession) session()         {}

type TeacherSession struct {
	Teacher Teacher
}

func (s *TeacherSession) Role() UserRole { return s.Teacher.Role }
func (s *TeacherSession) UserID() string { return s.Teacher.ID }
func (*TeacherSession) session()         {}
