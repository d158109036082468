package repository

import (
	"context"
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/util"
)

type StudentRepository struct {
	Store *Store
}

func NewStudentRepository(store *Store) *StudentRepository {
	return &StudentRepository{Store: store}
}

func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	if student.ID == "" {
		student.ID = model.GenerateUUID()
	}
	return r.Store.update(ctx, func(t *tx) error {
		if r.emailTaken(student.Email, "") {
			return util.ErrEmailRegistered
		}
		return r.Store.students.stagePut(t, student.ID, *student)
	})
}

func (r *StudentRepository) emailTaken(email, exceptID string) bool {
	email = util.NormalizeEmail(email)
	_, taken := r.Store.students.first(func(s model.Student) bool {
		return s.ID != exceptID && util.NormalizeEmail(s.Email) == email
	})
	return taken
}

func (r *StudentRepository) FindAll() []model.Student {
	var students []model.Student
	r.Store.view(func() {
		students = r.Store.students.find(nil)
	})
	return students
}

func (r *StudentRepository) FindByTeacher(teacherID string) []model.Student {
	var students []model.Student
	r.Store.view(func() {
		students = r.Store.students.find(func(s model.Student) bool { return s.TeacherID == teacherID })
	})
	return students
}

func (r *StudentRepository) FindByID(id string) (model.Student, bool) {
	var (
		student model.Student
		ok      bool
	)
	r.Store.view(func() {
		student, ok = r.Store.students.get(id)
	})
	return student, ok
}

func (r *StudentRepository) FindByName(name string) (model.Student, bool) {
	var (
		student model.Student
		ok      bool
	)
	r.Store.view(func() {
		student, ok = r.Store.students.first(func(s model.Student) bool { return s.Name == name })
	})
	return student, ok
}

func (r *StudentRepository) FindByEmail(email string) (model.Student, bool) {
	email = util.NormalizeEmail(email)
	var (
		student model.Student
		ok      bool
	)
	r.Store.view(func() {
		student, ok = r.Store.students.first(func(s model.Student) bool {
			return util.NormalizeEmail(s.Email) == email
		})
	})
	return student, ok
}

func (r *StudentRepository) Update(ctx context.Context, id string, mutate func(*model.Student) error) (model.Student, error) {
	var updated model.Student
	err := r.Store.update(ctx, func(t *tx) error {
		current, ok := r.Store.students.get(id)
		if !ok {
			return util.ErrStudentNotFound
		}
		if err := mutate(&current); err != nil {
			return err
		}
		current.ID = id
		if r.emailTaken(current.Email, id) {
			return util.ErrEmailRegistered
		}
		updated = current
		return r.Store.students.stagePut(t, id, current)
	})
	return updated, err
}

func (r *StudentRepository) SwapPassword(ctx context.Context, id, oldHash, newHash string) (bool, error) {
	swapped := false
	err := r.Store.update(ctx, func(t *tx) error {
		current, ok := r.Store.students.get(id)
		if !ok {
			return util.ErrStudentNotFound
		}
		if current.PasswordHash != oldHash {
			return nil
		}
		current.PasswordHash = newHash
		swapped = true
		return r.Store.students.stagePut(t, id, current)
	})
	if err != nil {
		return false, err
	}
	return swapped, nil
}

// Delete removes the student. Submitted results are kept.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	return r.Store.update(ctx, func(t *tx) error {
		if _, ok := r.Store.students.get(id); !ok {
			return util.ErrStudentNotFound
		}
		r.Store.students.stageDelete(t, id)
		return nil
	})
}
