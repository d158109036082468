package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sahayak_backend/internal/model"
	"sort"
	"strconv"
	"sync"
)

type entry[T any] struct {
	seq uint64
	val T
}

// collection is one in-memory table. Values are copied in and out.
type collection[T any] struct {
	name  string
	items map[string]entry[T]
	clone func(T) T
	doc   func(T) any
}

func newCollection[T any](name string, clone func(T) T, doc func(T) any) *collection[T] {
	return &collection[T]{name: name, items: make(map[string]entry[T]), clone: clone, doc: doc}
}

func (c *collection[T]) copyOf(v T) T {
	if c.clone == nil {
		return v
	}
	return c.clone(v)
}

func (c *collection[T]) get(id string) (T, bool) {
	e, ok := c.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.copyOf(e.val), true
}

// find returns the matches in insertion order.
func (c *collection[T]) find(match func(T) bool) []T {
	entries := make([]entry[T], 0, len(c.items))
	for _, e := range c.items {
		if match == nil || match(e.val) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	out := make([]T, len(entries))
	for i, e := range entries {
		out[i] = c.copyOf(e.val)
	}
	return out
}

func (c *collection[T]) first(match func(T) bool) (T, bool) {
	found := c.find(match)
	if len(found) == 0 {
		var zero T
		return zero, false
	}
	return found[0], true
}

// encode writes v with its position under "seq" so Load can restore the
// insertion order.
func (c *collection[T]) encode(v T, seq uint64) ([]byte, error) {
	var doc any = v
	if c.doc != nil {
		doc = c.doc(v)
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	fields["seq"] = json.RawMessage(strconv.FormatUint(seq, 10))
	return json.Marshal(fields)
}

// stagePut records a write. An existing record keeps its position.
func (c *collection[T]) stagePut(t *tx, id string, v T) error {
	seq, ok := t.seqs[c.name+"/"+id]
	if !ok {
		if old, found := c.items[id]; found {
			seq = old.seq
		} else {
			seq = t.reserveSeq()
		}
		t.seqs[c.name+"/"+id] = seq
	}
	body, err := c.encode(v, seq)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c.name, id, err)
	}
	v = c.copyOf(v)
	t.muts = append(t.muts, Mutation{Collection: c.name, ID: id, Body: body})
	t.effects = append(t.effects, func() {
		c.items[id] = entry[T]{seq: seq, val: v}
		if seq > t.s.seq {
			t.s.seq = seq
		}
	})
	return nil
}

func (c *collection[T]) stageDelete(t *tx, id string) {
	t.muts = append(t.muts, Mutation{Collection: c.name, ID: id})
	t.effects = append(t.effects, func() {
		delete(c.items, id)
	})
}

func (c *collection[T]) reset() {
	c.items = make(map[string]entry[T])
}

// tx stages mutations under the store's write lock. Reads inside a tx see
// the state from before the tx; nothing changes until commit succeeds.
type tx struct {
	s       *Store
	muts    []Mutation
	effects []func()
	// positions handed out by this tx, keyed by collection/id
	seqs    map[string]uint64
	lastSeq uint64
}

func (t *tx) reserveSeq() uint64 {
	if t.lastSeq < t.s.seq {
		t.lastSeq = t.s.seq
	}
	t.lastSeq++
	return t.lastSeq
}

type pairKey struct {
	studentID string
	courseID  string
}

// Store holds every collection of the portal in memory. When a DocumentStore
// is attached, each committed mutation is written through to it first.
type Store struct {
	mu   sync.RWMutex
	docs DocumentStore
	seq  uint64

	teachers *collection[model.Teacher]
	students *collection[model.Student]
	courses  *collection[model.Course]
	quizzes  *collection[model.Quiz]
	results  *collection[model.QuizResult]
	// one result per (student, course)
	resultByPair map[pairKey]string
}

type storedTeacher struct {
	model.Teacher
	PasswordHash string `json:"passwordHash"`
}

type storedStudent struct {
	model.Student
	PasswordHash string `json:"passwordHash"`
}

// NewStore builds an empty store. docs may be nil for a purely in-memory store.
func NewStore(docs DocumentStore) *Store {
	s := &Store{docs: docs}
	s.teachers = newCollection(CollectionTeachers, nil, func(t model.Teacher) any {
		return storedTeacher{Teacher: t, PasswordHash: t.PasswordHash}
	})
	s.students = newCollection(CollectionStudents, nil, func(st model.Student) any {
		return storedStudent{Student: st, PasswordHash: st.PasswordHash}
	})
	s.courses = newCollection(CollectionCourses, model.Course.Clone, nil)
	s.quizzes = newCollection(CollectionQuizzes, model.Quiz.Clone, nil)
	s.results = newCollection(CollectionQuizResults, model.QuizResult.Clone, nil)
	s.resultByPair = make(map[pairKey]string)
	return s
}

func (s *Store) view(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) update(ctx context.Context, fn func(t *tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{s: s, seqs: make(map[string]uint64)}
	if err := fn(t); err != nil {
		return err
	}
	if len(t.muts) == 0 {
		return nil
	}
	if s.docs != nil {
		if err := s.docs.Apply(ctx, t.muts); err != nil {
			return fmt.Errorf("persist %d mutations: %w", len(t.muts), err)
		}
	}
	for _, effect := range t.effects {
		effect()
	}
	return nil
}

// Reset drops every record from memory. The document store is not touched.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq = 0
	s.teachers.reset()
	s.students.reset()
	s.courses.reset()
	s.quizzes.reset()
	s.results.reset()
	s.resultByPair = make(map[pairKey]string)
}

// Ping checks the attached document store.
func (s *Store) Ping(ctx context.Context) error {
	if s.docs == nil {
		return nil
	}
	return s.docs.Ping(ctx)
}

func (s *Store) Persistent() bool {
	return s.docs != nil
}

// Load replaces the in-memory state with the document store's contents.
func (s *Store) Load(ctx context.Context) error {
	if s.docs == nil {
		return nil
	}

	raw := make(map[string]map[string][]byte, len(Collections))
	for _, name := range Collections {
		docs, err := s.docs.LoadCollection(ctx, name)
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		raw[name] = docs
	}

	teachers, err := decodeAll(raw[CollectionTeachers], func(st storedTeacher) model.Teacher {
		st.Teacher.PasswordHash = st.PasswordHash
		return st.Teacher
	})
	if err != nil {
		return fmt.Errorf("decode teachers: %w", err)
	}
	students, err := decodeAll(raw[CollectionStudents], func(st storedStudent) model.Student {
		st.Student.PasswordHash = st.PasswordHash
		return st.Student
	})
	if err != nil {
		return fmt.Errorf("decode students: %w", err)
	}
	courses, err := decodeAll(raw[CollectionCourses], func(c model.Course) model.Course { return c })
	if err != nil {
		return fmt.Errorf("decode courses: %w", err)
	}
	quizzes, err := decodeAll(raw[CollectionQuizzes], func(q model.Quiz) model.Quiz { return q })
	if err != nil {
		return fmt.Errorf("decode quizzes: %w", err)
	}
	results, err := decodeAll(raw[CollectionQuizResults], func(r model.QuizResult) model.QuizResult { return r })
	if err != nil {
		return fmt.Errorf("decode quiz results: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.teachers.reset()
	s.students.reset()
	s.courses.reset()
	s.quizzes.reset()
	s.results.reset()
	s.resultByPair = make(map[pairKey]string)

	// documents written before positions were stored go after the rest
	s.seq = 0
	for _, seq := range []uint64{maxSeq(teachers), maxSeq(students), maxSeq(courses), maxSeq(quizzes), maxSeq(results)} {
		if seq > s.seq {
			s.seq = seq
		}
	}
	for _, d := range teachers {
		s.teachers.items[d.id] = entry[model.Teacher]{seq: s.restoreSeq(d.seq), val: d.val}
	}
	for _, d := range students {
		s.students.items[d.id] = entry[model.Student]{seq: s.restoreSeq(d.seq), val: d.val}
	}
	for _, d := range courses {
		s.courses.items[d.id] = entry[model.Course]{seq: s.restoreSeq(d.seq), val: d.val}
	}
	for _, d := range quizzes {
		s.quizzes.items[d.id] = entry[model.Quiz]{seq: s.restoreSeq(d.seq), val: d.val}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].val.SubmittedAt.Before(results[j].val.SubmittedAt)
	})
	for _, d := range results {
		key := pairKey{d.val.StudentID, d.val.CourseID}
		// a crash between writes could leave two results for a pair; the newest wins
		if oldID, ok := s.resultByPair[key]; ok {
			delete(s.results.items, oldID)
		}
		s.results.items[d.id] = entry[model.QuizResult]{seq: s.restoreSeq(d.seq), val: d.val}
		s.resultByPair[key] = d.id
	}
	return nil
}

func (s *Store) restoreSeq(seq uint64) uint64 {
	if seq > 0 {
		return seq
	}
	s.seq++
	return s.seq
}

type decoded[T any] struct {
	id  string
	seq uint64
	val T
}

func maxSeq[T any](ds []decoded[T]) uint64 {
	var top uint64
	for _, d := range ds {
		if d.seq > top {
			top = d.seq
		}
	}
	return top
}

type position struct {
	Seq uint64 `json:"seq"`
}

// decodeAll returns documents by stored position, then by id.
func decodeAll[D any, T any](docs map[string][]byte, convert func(D) T) ([]decoded[T], error) {
	out := make([]decoded[T], 0, len(docs))
	for id, body := range docs {
		var (
			d   D
			pos position
		)
		if err := json.Unmarshal(body, &d); err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		if err := json.Unmarshal(body, &pos); err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		out = append(out, decoded[T]{id: id, seq: pos.Seq, val: convert(d)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].seq != out[j].seq {
			// unpositioned documents sort last
			if out[i].seq == 0 || out[j].seq == 0 {
				return out[j].seq == 0
			}
			return out[i].seq < out[j].seq
		}
		return out[i].id < out[j].id
	})
	return out, nil
}
