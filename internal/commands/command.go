// Package commands defines the backend command surface invoked by the GUI
// shell through the bridge: named commands with named string arguments that
// return a result value or an error.
package commands

import (
	"context"
	"fmt"
	"sync"

	"github.com/starford/dagaz/internal/apperr"
)

// HandlerFunc executes a command with its named arguments.
type HandlerFunc func(ctx context.Context, args map[string]string) (any, error)

// Arg describes one named string argument of a command.
type Arg struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Command is a single externally callable operation.
type Command struct {
	Name        string
	Description string
	Args        []Arg
	Handler     HandlerFunc
}

// Registry is the name-to-command dispatch table. It is built once during
// bootstrap and only read afterwards.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	order    []string
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds a command to the registry. Registering a duplicate or
// unnamed command is a wiring bug and returns an error so bootstrap can
// fail loudly.
func (r *Registry) Register(cmd Command) error {
	if cmd.Name == "" {
		return fmt.Errorf("register command: empty name")
	}
	if cmd.Handler == nil {
		return fmt.Errorf("register command %q: nil handler", cmd.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[cmd.Name]; exists {
		return fmt.Errorf("register command %q: already registered", cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	r.order = append(r.order, cmd.Name)
	return nil
}

// Get returns the command registered under name.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// All returns every registered command in registration order.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// Invoke looks up a command by name, checks its required arguments, and runs
// its handler. Missing commands and missing required arguments surface as
// apperr sentinels so the bridge can map them to boundary messages.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]string) (any, error) {
	cmd, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperr.ErrUnknownCommand, name)
	}
	for _, a := range cmd.Args {
		if !a.Required {
			continue
		}
		if _, present := args[a.Name]; !present {
			return nil, fmt.Errorf("%w: %s", apperr.ErrMissingArgument, a.Name)
		}
	}
	return cmd.Handler(ctx, args)
}
