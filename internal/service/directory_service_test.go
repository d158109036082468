package service

import (
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/util"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrongCurrentPasswordChangesNothing(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "Asha", "asha@school.in", model.RoleTeacher)
	s1 := f.student(t, "Meera", "meera@school.in", teacher.ID)

	ok, err := f.dir.UpdateStudentPassword(f.ctx, s1.ID, "wrong", "new-password")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = f.auth.Login(model.RoleStudent, "meera@school.in", "new-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, _, err = f.auth.Login(model.RoleStudent, "meera@school.in", testPassword)
	assert.NoError(t, err)

	ok, err = f.dir.UpdateStudentPassword(f.ctx, s1.ID, testPassword, "new-password")
	require.NoError(t, err)
	assert.True(t, ok)
	_, _, err = f.auth.Login(model.RoleStudent, "meera@school.in", "new-password")
	assert.NoError(t, err)

	_, err = f.dir.UpdateStudentPassword(f.ctx, "missing", "a", "b")
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}

func TestTeacherPasswordChange(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "Asha", "asha@school.in", model.RoleTeacher)

	ok, err := f.dir.UpdateTeacherPassword(f.ctx, teacher.ID, "nope", "another-one")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.dir.UpdateTeacherPassword(f.ctx, teacher.ID, testPassword, "another-one")
	require.NoError(t, err)
	assert.True(t, ok)
	_, _, err = f.auth.Login(model.RoleTeacher, "asha@school.in", "another-one")
	assert.NoError(t, err)
}

func TestUpdateMergesAndKeepsPassword(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "Asha", "asha@school.in", model.RoleTeacher)
	s1 := f.student(t, "Meera", "meera@school.in", teacher.ID)

	updated, err := f.dir.UpdateStudent(f.ctx, s1.ID, model.StudentPatch{Grade: strPtr("8")})
	require.NoError(t, err)
	assert.Equal(t, "8", updated.Grade)
	assert.Equal(t, "Meera", updated.Name)
	assert.Equal(t, teacher.ID, updated.TeacherID)
	assert.Equal(t, s1.PasswordHash, updated.PasswordHash)

	_, _, err = f.auth.Login(model.RoleStudent, "meera@school.in", testPassword)
	assert.NoError(t, err)

	_, err = f.dir.UpdateStudent(f.ctx, s1.ID, model.StudentPatch{TeacherID: strPtr("ghost")})
	assert.ErrorIs(t, err, util.ErrTeacherNotFound)

	_, err = f.dir.UpdateStudent(f.ctx, "missing", model.StudentPatch{Grade: strPtr("9")})
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}

func TestUpdateTeacherRejectsTakenEmail(t *testing.T) {
	f := newFixture(t)
	f.teacher(t, "Asha", "asha@school.in", model.RoleTeacher)
	ravi := f.teacher(t, "Ravi", "ravi@school.in", model.RoleTeacher)

	_, err := f.dir.UpdateTeacher(f.ctx, ravi.ID, model.TeacherPatch{Email: strPtr("ASHA@school.in"), Name: strPtr("Ravi K")})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	got, _ := f.dir.GetTeacherByID(ravi.ID)
	assert.Equal(t, "Ravi", got.Name)
}

func TestDeleteTeacherUnassignsRecords(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "Asha", "asha@school.in", model.RoleTeacher)
	s1 := f.student(t, "Meera", "meera@school.in", teacher.ID)
	c1 := f.course(t, "Science", teacher.ID)

	require.NoError(t, f.dir.DeleteTeacher(f.ctx, teacher.ID))

	_, ok := f.dir.GetTeacherByID(teacher.ID)
	assert.False(t, ok)
	assert.Empty(t, f.dir.GetTeachers())

	st, _ := f.dir.GetStudentByID(s1.ID)
	assert.Equal(t, model.Unassigned, st.TeacherID)
	c, _ := f.dir.GetCourseByID(c1.ID)
	assert.Equal(t, model.Unassigned, c.TeacherID)

	courses, err := f.dir.CoursesForStudent(s1.ID)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestCoursesForStudentFollowsTeacher(t *testing.T) {
	f := newFixture(t)
	asha := f.teacher(t, "Asha", "asha@school.in", model.RoleTeacher)
	ravi := f.teacher(t, "Ravi", "ravi@school.in", model.RoleTeacher)
	s1 := f.student(t, "Meera", "meera@school.in", asha.ID)
	f.course(t, "Science", asha.ID)
	f.course(t, "Maths", asha.ID)
	f.course(t, "History", ravi.ID)

	courses, err := f.dir.CoursesForStudent(s1.ID)
	require.NoError(t, err)
	var titles []string
	for _, c := range courses {
		titles = append(titles, c.Title)
	}
	assert.Equal(t, []string{"Science", "Maths"}, titles)

	_, err = f.dir.CoursesForStudent("missing")
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}

func TestAddRecordsForUnknownTeacher(t *testing.T) {
	f := newFixture(t)
	_, err := f.dir.AddStudent(f.ctx, StudentInput{Name: "Meera", Email: "m@school.in", Password: "x", TeacherID: "ghost"})
	assert.ErrorIs(t, err, util.ErrTeacherNotFound)
	_, err = f.dir.AddCourse(f.ctx, CourseInput{Title: "Science", TeacherID: "ghost"})
	assert.ErrorIs(t, err, util.ErrTeacherNotFound)

	// unassigned is allowed
	_, err = f.dir.AddCourse(f.ctx, CourseInput{Title: "Science"})
	assert.NoError(t, err)
}

func TestAddTeacherRejectsStudentRole(t *testing.T) {
	f := newFixture(t)
	_, err := f.dir.AddTeacher(f.ctx, TeacherInput{Name: "X", Email: "x@school.in", Password: "p", Role: model.RoleStudent})
	assert.ErrorIs(t, err, util.ErrInvalidRole)

	teacher, err := f.dir.AddTeacher(f.ctx, TeacherInput{Name: "Y", Email: "y@school.in", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleTeacher, teacher.Role)
}

func TestSeedAdminOnlyOnce(t *testing.T) {
	f := newFixture(t)
	t.Setenv("SAHAYAK_ADMIN_PASSWORD", "seeded-password")

	created, err := SeedAdmin(f.ctx, f.dir)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = SeedAdmin(f.ctx, f.dir)
	require.NoError(t, err)
	assert.False(t, created)

	_, session, err := f.auth.Login(model.RoleAdmin, DefaultAdminEmail, "seeded-password")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, session.Role())
}

func TestPatchRejectsBlankPasswordAndFields(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "Asha", "asha@school.in", model.RoleTeacher)
	student := f.student(t, "Meera", "meera@school.in", teacher.ID)
	course := f.course(t, "Science", teacher.ID)

	_, err := f.dir.UpdateTeacher(f.ctx, teacher.ID, model.TeacherPatch{Password: strPtr("")})
	assert.ErrorIs(t, err, util.ErrInvalidPassword)
	_, _, err = f.auth.Login(model.RoleTeacher, "asha@school.in", "")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, _, err = f.auth.Login(model.RoleTeacher, "asha@school.in", testPassword)
	assert.NoError(t, err)

	_, err = f.dir.UpdateStudent(f.ctx, student.ID, model.StudentPatch{Password: strPtr("")})
	assert.ErrorIs(t, err, util.ErrInvalidPassword)
	_, _, err = f.auth.Login(model.RoleStudent, "meera@school.in", "")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = f.dir.UpdateTeacher(f.ctx, teacher.ID, model.TeacherPatch{Email: strPtr("  ")})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	_, err = f.dir.UpdateStudent(f.ctx, student.ID, model.StudentPatch{Name: strPtr("")})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	_, err = f.dir.UpdateCourse(f.ctx, course.ID, model.CoursePatch{Title: strPtr("")})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	got, ok := f.dir.GetTeacherByID(teacher.ID)
	require.True(t, ok)
	assert.Equal(t, "asha@school.in", got.Email)
	gotCourse, ok := f.dir.GetCourseByID(course.ID)
	require.True(t, ok)
	assert.Equal(t, "Science", gotCourse.Title)
}

func TestOverlongPasswordIsInvalidInput(t *testing.T) {
	f := newFixture(t)
	long := strings.Repeat("a", MaxPasswordBytes+8)

	_, err := f.dir.AddTeacher(f.ctx, TeacherInput{Name: "Ravi", Email: "ravi@school.in", Password: long})
	assert.ErrorIs(t, err, util.ErrInvalidPassword)
	_, ok := f.dir.GetTeacherByEmail("ravi@school.in")
	assert.False(t, ok)

	teacher := f.teacher(t, "Asha", "asha@school.in", model.RoleTeacher)
	_, err = f.dir.AddStudent(f.ctx, StudentInput{Name: "Kabir", Email: "kabir@school.in", Password: long, TeacherID: teacher.ID})
	assert.ErrorIs(t, err, util.ErrInvalidPassword)

	_, err = f.dir.UpdateTeacherPassword(f.ctx, teacher.ID, testPassword, long)
	assert.ErrorIs(t, err, util.ErrInvalidPassword)

	ok2, err := f.dir.UpdateTeacherPassword(f.ctx, teacher.ID, testPassword, strings.Repeat("b", MaxPasswordBytes))
	require.NoError(t, err)
	assert.True(t, ok2)
}
