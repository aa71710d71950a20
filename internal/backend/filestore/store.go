// Package filestore implements service.Service as an in-memory task list
// mirrored to a JSON file after every mutation.
package filestore

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"

	"todod/internal/service"
)

// DefaultPath is the persistence file used when none is configured.
const DefaultPath = "tasks.txt"

// Store holds the authoritative task list.
// Mutations hold the write lock from validation until the file is written;
// readers hold the read lock while copying.
type Store struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int
	path   string
	logger *log.Logger
}

// New creates a Store backed by path and loads any tasks already there.
// A missing, empty or corrupted file yields an empty store.
// logger may be nil.
func New(path string, logger *log.Logger) *Store {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Store{path: path, nextID: 1, logger: logger}
	s.load()
	return s
}

// Path returns the persistence file path.
func (s *Store) Path() string {
	return s.path
}

// ListTasks implements service.Service.
func (s *Store) ListTasks(ctx context.Context) ([]service.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

// CreateTask implements service.Service.
func (s *Store) CreateTask(ctx context.Context, title, priority string) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title = strings.TrimSpace(title)
	if title == "" {
		return service.Task{}, &service.ValidationError{Msg: service.MsgTitleRequired}
	}
	p, ok := service.ParsePriority(priority)
	if !ok {
		return service.Task{}, &service.ValidationError{Msg: service.MsgInvalidPriority}
	}

	task := service.Task{ID: s.nextID, Title: title, Priority: p}
	s.tasks = append(s.tasks, task)
	s.nextID++

	if err := s.persist(); err != nil {
		// Undo so memory never runs ahead of the file.
		s.tasks = s.tasks[:len(s.tasks)-1]
		s.nextID--
		return service.Task{}, err
	}
	return task, nil
}

// CompleteTask implements service.Service.
func (s *Store) CompleteTask(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		was := s.tasks[i].IsDone
		s.tasks[i].IsDone = true
		if err := s.persist(); err != nil {
			s.tasks[i].IsDone = was
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// NextID returns the id the next created task will receive.
func (s *Store) NextID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID
}
