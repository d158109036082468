package repository

import "context"

// Persisted collections.
const (
	CollectionTeachers    = "teachers"
	CollectionStudents    = "students"
	CollectionCourses     = "courses"
	CollectionQuizzes     = "quizzes"
	CollectionQuizResults = "quizResults"
)

var Collections = []string{
	CollectionTeachers,
	CollectionStudents,
	CollectionCourses,
	CollectionQuizzes,
	CollectionQuizResults,
}

// Mutation writes or deletes one document. A nil Body deletes.
type Mutation struct {
	Collection string
	ID         string
	Body       []byte
}

func (m Mutation) IsDelete() bool {
	return m.Body == nil
}

// DocumentStore mirrors the store's collections outside the process.
// Apply must be all-or-nothing.
type DocumentStore interface {
	LoadCollection(ctx context.Context, collection string) (map[string][]byte, error)
	Apply(ctx context.Context, mutations []Mutation) error
	Ping(ctx context.Context) error
}
