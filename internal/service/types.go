// Package service defines the backend-agnostic interface for task operations.
package service

import "strings"

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// ParsePriority trims and lowercases raw and reports whether the result is
// one of the allowed priorities.
func ParsePriority(raw string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return p, true
	}
	return p, false
}

// Task represents a single to-do item.
// The JSON field names are the wire and file format.
type Task struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Priority Priority `json:"priority"`
	IsDone   bool     `json:"isDone"`
}
