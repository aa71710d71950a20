package commands

import (
	"fmt"
	"sync"
)

// Registry holds registered commands.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Command // name and aliases map to command
	order  []Command          // registration order, primary names only
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Command),
	}
}

// Register adds a command to the registry.
// Returns an error if the name or any alias is already taken.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{c.Name()}, c.Aliases()...)
	for _, n := range names {
		if _, exists := r.byName[n]; exists {
			return fmt.Errorf("command name already registered: %s", n)
		}
	}
	for _, n := range names {
		r.byName[n] = c
	}
	r.order = append(r.order, c)
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.byName[name]
	return cmd, ok
}

// All returns every command in registration order.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, len(r.order))
	copy(out, r.order)
	return out
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
