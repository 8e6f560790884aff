package todo

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Filter selects which tasks a listing yields.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// Match reports whether the task passes the filter. An unknown filter
// matches everything.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Stats summarizes the store contents.
type Stats struct {
	Total          int
	Completed      int
	Pending        int
	CompletionRate float64 // percentage, 0 for an empty store
}

// Store owns the in-memory task list and its backing file. It is the
// single writer: every mutation rewrites the file in full.
type Store struct {
	path   string
	schema string
	file   *File
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithSchema sets the JSON Schema path used to validate the file at load.
func WithSchema(path string) Option {
	return func(s *Store) {
		s.schema = path
	}
}

// WithLogger sets the logger used for load degradation and skipped records.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open loads the task file at path into a new store. A missing or
// unparseable file degrades to an empty store with a logged warning;
// individually malformed records are skipped with a logged warning.
// Open never fails.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	f, err := Load(path)
	if err != nil {
		if !isNotExist(err) {
			s.logger.Warn("could not load task file, starting empty", "path", path, "err", err)
		}
		s.file = NewFile()
		return s
	}

	for _, reason := range f.DropMalformed() {
		s.logger.Warn("skipping malformed task record", "path", path, "reason", reason)
	}

	if s.schema != "" {
		result := f.Validate(ValidationOptions{SchemaPath: s.schema})
		for _, w := range result.Warnings {
			s.logger.Debug("task file validation", "warning", w)
		}
		for _, e := range result.Errors {
			s.logger.Warn("task file validation", "err", e)
		}
	}

	if f.Tasks == nil {
		f.Tasks = []Task{}
	}
	s.file = f
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Len returns the total number of tasks.
func (s *Store) Len() int {
	return len(s.file.Tasks)
}

// Add creates a task from the description, appends it, and saves.
// The description is trimmed; an empty result is rejected with
// ErrInvalidInput and the store is left unchanged.
func (s *Store) Add(description string) (Task, error) {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return Task{}, fmt.Errorf("task description is empty: %w", ErrInvalidInput)
	}

	task := Task{
		ID:          s.file.NextID(),
		Description: desc,
		CreatedAt:   time.Now().UTC(),
	}
	s.file.Tasks = append(s.file.Tasks, task)
	return task, s.persist()
}

// Complete marks the task as completed and saves. Completing an
// already-completed task is not an error; the original completion
// timestamp is kept.
func (s *Store) Complete(id int64) (Task, error) {
	task := s.file.GetTask(id)
	if task == nil {
		return Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if !task.Completed {
		task.Completed = true
		now := time.Now().UTC()
		task.CompletedAt = &now
	}
	return *task, s.persist()
}

// Remove deletes the task permanently and saves. The ID is never handed
// out again. Returns the removed task.
func (s *Store) Remove(id int64) (Task, error) {
	for i := range s.file.Tasks {
		if s.file.Tasks[i].ID == id {
			removed := s.file.Tasks[i]
			s.file.Tasks = append(s.file.Tasks[:i], s.file.Tasks[i+1:]...)
			return removed, s.persist()
		}
	}
	return Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
}

// ClearCompleted removes every completed task and saves. Returns the
// number of tasks removed.
func (s *Store) ClearCompleted() (int, error) {
	kept := s.file.Tasks[:0]
	removed := 0
	for _, t := range s.file.Tasks {
		if t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.file.Tasks = kept
	if removed == 0 {
		return 0, nil
	}
	return removed, s.persist()
}

// Tasks returns a restartable sequence over the tasks matching the
// filter, in insertion order. The sequence reads live store state, so it
// should not be held across mutations.
func (s *Store) Tasks(filter Filter) iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, t := range s.file.Tasks {
			if !filter.Match(t) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Stats returns counts and the completion percentage.
func (s *Store) Stats() Stats {
	st := Stats{Total: len(s.file.Tasks)}
	for _, t := range s.file.Tasks {
		if t.Completed {
			st.Completed++
		}
	}
	st.Pending = st.Total - st.Completed
	if st.Total > 0 {
		st.CompletionRate = float64(st.Completed) / float64(st.Total) * 100
	}
	return st
}

// Save rewrites the backing file from the in-memory state.
func (s *Store) Save() error {
	return s.persist()
}

func (s *Store) persist() error {
	if err := s.file.Save(s.path); err != nil {
		return fmt.Errorf("persist store: %w", err)
	}
	return nil
}
