package commands

import (
	"context"
	"fmt"
)

// Greet formats the greeting returned by the greet command. It is total:
// any name, including the empty string, produces a greeting.
func Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from Go!", name)
}

// NewGreet builds the greet command. The name argument is optional; an
// absent name greets the empty string rather than failing.
func NewGreet() Command {
	return Command{
		Name:        "greet",
		Description: "Greet a user by name.",
		Args: []Arg{
			{Name: "name", Description: "Name to include in the greeting"},
		},
		Handler: func(_ context.Context, args map[string]string) (any, error) {
			return Greet(args["name"]), nil
		},
	}
}
