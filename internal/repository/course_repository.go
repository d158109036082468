package repository

import (
	"context"
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/util"
)

type CourseRepository struct {
	Store *Store
}

func NewCourseRepository(store *Store) *CourseRepository {
	return &CourseRepository{Store: store}
}

func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	if course.ID == "" {
		course.ID = model.GenerateUUID()
	}
	if course.Modules == nil {
		course.Modules = []string{}
	}
	return r.Store.update(ctx, func(t *tx) error {
		return r.Store.courses.stagePut(t, course.ID, *course)
	})
}

func (r *CourseRepository) FindAll() []model.Course {
	var courses []model.Course
	r.Store.view(func() {
		courses = r.Store.courses.find(nil)
	})
	return courses
}

// FindByTeacher also serves as the course list of every student of that teacher.
func (r *CourseRepository) FindByTeacher(teacherID string) []model.Course {
	var courses []model.Course
	r.Store.view(func() {
		courses = r.Store.courses.find(func(c model.Course) bool { return c.TeacherID == teacherID })
	})
	return courses
}

func (r *CourseRepository) FindByID(id string) (model.Course, bool) {
	var (
		course model.Course
		ok     bool
	)
	r.Store.view(func() {
		course, ok = r.Store.courses.get(id)
	})
	return course, ok
}

// FindByTitle is case-sensitive.
func (r *CourseRepository) FindByTitle(title string) (model.Course, bool) {
	var (
		course model.Course
		ok     bool
	)
	r.Store.view(func() {
		course, ok = r.Store.courses.first(func(c model.Course) bool { return c.Title == title })
	})
	return course, ok
}

func (r *CourseRepository) Update(ctx context.Context, id string, mutate func(*model.Course) error) (model.Course, error) {
	var updated model.Course
	err := r.Store.update(ctx, func(t *tx) error {
		current, ok := r.Store.courses.get(id)
		if !ok {
			return util.ErrCourseNotFound
		}
		if err := mutate(&current); err != nil {
			return err
		}
		current.ID = id
		updated = current.Clone()
		return r.Store.courses.stagePut(t, id, current)
	})
	return updated, err
}

// Delete removes the course together with its quiz. Results are kept.
func (r *CourseRepository) Delete(ctx context.Context, id string) (quizRemoved bool, err error) {
	err = r.Store.update(ctx, func(t *tx) error {
		if _, ok := r.Store.courses.get(id); !ok {
			return util.ErrCourseNotFound
		}
		r.Store.courses.stageDelete(t, id)
		if _, ok := r.Store.quizzes.get(id); ok {
			r.Store.quizzes.stageDelete(t, id)
			quizRemoved = true
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return quizRemoved, nil
}
