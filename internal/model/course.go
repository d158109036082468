package model

// swagger:model Course
type Course struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Modules     []string `json:"modules"`
	TeacherID   string   `json:"teacherId"`
}

type CoursePatch struct {
	Title       *string   `json:"title,omitempty" binding:"omitnil,min=1"`
	Description *string   `json:"description,omitempty"`
	Modules     *[]string `json:"modules,omitempty"`
	TeacherID   *string   `json:"teacherId,omitempty"`
}

// Clone copies the module slice so callers cannot mutate stored state.
func (c Course) Clone() Course {
	if c.Modules != nil {
		c.Modules = append([]string(nil), c.Modules...)
	}
	return c
}
