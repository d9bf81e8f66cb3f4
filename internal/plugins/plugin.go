// Package plugins implements the host-integration capabilities registered at
// startup: system notifications, native dialogs, and shell access. The
// backend commands never call them; they are exposed through the bridge for
// the GUI layer to drive directly.
package plugins

import "context"

// Action is one named operation a plugin exposes to the GUI layer.
type Action struct {
	Description string
	Run         func(ctx context.Context, args map[string]string) (any, error)
}

// Plugin is a host-integration capability.
type Plugin interface {
	// Name returns the plugin identifier used in bridge routes.
	Name() string
	// Init prepares the host integration. It runs once during bootstrap;
	// a non-nil error is fatal to startup.
	Init() error
	// Actions returns the plugin's named actions.
	Actions() map[string]Action
}
