package repository

import (
	"context"
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/util"
)

type TeacherRepository struct {
	Store *Store
}

func NewTeacherRepository(store *Store) *TeacherRepository {
	return &TeacherRepository{Store: store}
}

func (r *TeacherRepository) Create(ctx context.Context, teacher *model.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = model.GenerateUUID()
	}
	if teacher.Role == "" {
		teacher.Role = model.RoleTeacher
	}
	return r.Store.update(ctx, func(t *tx) error {
		if r.emailTaken(teacher.Email, "") {
			return util.ErrEmailRegistered
		}
		return r.Store.teachers.stagePut(t, teacher.ID, *teacher)
	})
}

func (r *TeacherRepository) emailTaken(email, exceptID string) bool {
	email = util.NormalizeEmail(email)
	_, taken := r.Store.teachers.first(func(t model.Teacher) bool {
		return t.ID != exceptID && util.NormalizeEmail(t.Email) == email
	})
	return taken
}

func (r *TeacherRepository) FindAll() []model.Teacher {
	var teachers []model.Teacher
	r.Store.view(func() {
		teachers = r.Store.teachers.find(nil)
	})
	return teachers
}

func (r *TeacherRepository) Count() int {
	var n int
	r.Store.view(func() {
		n = len(r.Store.teachers.items)
	})
	return n
}

func (r *TeacherRepository) FindByID(id string) (model.Teacher, bool) {
	var (
		teacher model.Teacher
		ok      bool
	)
	r.Store.view(func() {
		teacher, ok = r.Store.teachers.get(id)
	})
	return teacher, ok
}

// FindByName is case-sensitive.
func (r *TeacherRepository) FindByName(name string) (model.Teacher, bool) {
	var (
		teacher model.Teacher
		ok      bool
	)
	r.Store.view(func() {
		teacher, ok = r.Store.teachers.first(func(t model.Teacher) bool { return t.Name == name })
	})
	return teacher, ok
}

// FindByEmail ignores case.
func (r *TeacherRepository) FindByEmail(email string) (model.Teacher, bool) {
	email = util.NormalizeEmail(email)
	var (
		teacher model.Teacher
		ok      bool
	)
	r.Store.view(func() {
		teacher, ok = r.Store.teachers.first(func(t model.Teacher) bool {
			return util.NormalizeEmail(t.Email) == email
		})
	})
	return teacher, ok
}

// Update applies mutate to a copy of the record and stores it only if mutate
// succeeds. The id cannot change.
func (r *TeacherRepository) Update(ctx context.Context, id string, mutate func(*model.Teacher) error) (model.Teacher, error) {
	var updated model.Teacher
	err := r.Store.update(ctx, func(t *tx) error {
		current, ok := r.Store.teachers.get(id)
		if !ok {
			return util.ErrTeacherNotFound
		}
		if err := mutate(&current); err != nil {
			return err
		}
		current.ID = id
		if r.emailTaken(current.Email, id) {
			return util.ErrEmailRegistered
		}
		updated = current
		return r.Store.teachers.stagePut(t, id, current)
	})
	return updated, err
}

// SwapPassword replaces the password hash only while it still equals oldHash.
func (r *TeacherRepository) SwapPassword(ctx context.Context, id, oldHash, newHash string) (bool, error) {
	swapped := false
	err := r.Store.update(ctx, func(t *tx) error {
		current, ok := r.Store.teachers.get(id)
		if !ok {
			return util.ErrTeacherNotFound
		}
		if current.PasswordHash != oldHash {
			return nil
		}
		current.PasswordHash = newHash
		swapped = true
		return r.Store.teachers.stagePut(t, id, current)
	})
	if err != nil {
		return false, err
	}
	return swapped, nil
}

// Delete removes the teacher and unassigns its students and courses.
func (r *TeacherRepository) Delete(ctx context.Context, id string) (orphanedStudents, orphanedCourses int, err error) {
	err = r.Store.update(ctx, func(t *tx) error {
		if _, ok := r.Store.teachers.get(id); !ok {
			return util.ErrTeacherNotFound
		}
		for _, st := range r.Store.students.find(func(s model.Student) bool { return s.TeacherID == id }) {
			st.TeacherID = model.Unassigned
			if err := r.Store.students.stagePut(t, st.ID, st); err != nil {
				return err
			}
			orphanedStudents++
		}
		for _, c := range r.Store.courses.find(func(c model.Course) bool { return c.TeacherID == id }) {
			c.TeacherID = model.Unassigned
			if err := r.Store.courses.stagePut(t, c.ID, c); err != nil {
				return err
			}
			orphanedCourses++
		}
		r.Store.teachers.stageDelete(t, id)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return orphanedStudents, orphanedCourses, nil
}
