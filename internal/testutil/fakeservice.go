// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strings"
	"sync"

	"todod/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// It validates input the same way the file store does but never touches disk.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int

	// Error injection for testing
	ListTasksErr    error
	CreateTaskErr   error
	CompleteTaskErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1}
}

// AddTask seeds a task and returns its id.
func (f *FakeService) AddTask(title string, priority service.Priority, done bool) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.tasks = append(f.tasks, service.Task{ID: id, Title: title, Priority: priority, IsDone: done})
	return id
}

// Task returns the task with id, if any.
func (f *FakeService) Task(id int) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, title, priority string) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return service.Task{}, &service.ValidationError{Msg: service.MsgTitleRequired}
	}
	p, ok := service.ParsePriority(priority)
	if !ok {
		return service.Task{}, &service.ValidationError{Msg: service.MsgInvalidPriority}
	}
	id := f.AddTask(title, p, false)
	return service.Task{ID: id, Title: title, Priority: p}, nil
}

// CompleteTask implements service.Service.
func (f *FakeService) CompleteTask(ctx context.Context, id int) (bool, error) {
	if f.CompleteTaskErr != nil {
		return false, f.CompleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].IsDone = true
			return true, nil
		}
	}
	return false, nil
}
