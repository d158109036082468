package model

// swagger:model Teacher
type Teacher struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
}

func (t *Teacher) IsAdmin() bool {
	return t.Role == RoleAdmin
}

// TeacherPatch carries the fields of a partial update. Nil fields are left untouched.
type TeacherPatch struct {
	Name     *string   `json:"name,omitempty" binding:"omitnil,min=1"`
	Email    *string   `json:"email,omitempty" binding:"omitnil,email"`
	Password *string   `json:"password,omitempty" binding:"omitnil,min=8,max=72"`
	Role     *UserRole `json:"role,omitempty"`
}
