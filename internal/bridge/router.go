package bridge

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/commands"
	"github.com/starford/dagaz/internal/plugins"
)

// NewRouter creates a chi router with all bridge routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(reg *commands.Registry, pr *plugins.Registry, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(reg, pr)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Command surface.
	r.Get("/commands", h.ListCommands)
	r.Post("/commands/{name}", h.InvokeCommand)

	// Host-integration plugins, driven by the GUI layer.
	r.Get("/plugins", h.ListPlugins)
	r.Post("/plugins/{plugin}/actions/{action}", h.InvokePluginAction)

	// Workspace change events.
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
