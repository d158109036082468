package model

// swagger:model Student
type Student struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Grade        string `json:"grade"`
	TeacherID    string `json:"teacherId"`
}

// HasTeacher is false once the owning teacher has been deleted.
func (s *Student) HasTeacher() bool {
	return s.TeacherID != Unassigned
}

type StudentPatch struct {
	Name      *string `json:"name,omitempty" binding:"omitnil,min=1"`
	Email     *string `json:"email,omitempty" binding:"omitnil,email"`
	Password  *string `json:"password,omitempty" binding:"omitnil,min=8,max=72"`
	Grade     *string `json:"grade,omitempty"`
	TeacherID *string `json:"teacherId,omitempty"`
}
