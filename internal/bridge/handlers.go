package bridge

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/commands"
	"github.com/starford/dagaz/internal/plugins"
)

// Handler holds the bridge route handlers.
type Handler struct {
	reg     *commands.Registry
	plugins *plugins.Registry
}

// NewHandler creates a new Handler over the command and plugin registries.
func NewHandler(reg *commands.Registry, pr *plugins.Registry) *Handler {
	return &Handler{reg: reg, plugins: pr}
}

type commandDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Args        []commands.Arg `json:"args"`
}

// ListCommands handles GET /api/commands. The shell uses it to discover the
// command surface at startup.
func (h *Handler) ListCommands(w http.ResponseWriter, _ *http.Request) {
	all := h.reg.All()
	out := make([]commandDescriptor, 0, len(all))
	for _, cmd := range all {
		out = append(out, commandDescriptor{
			Name:        cmd.Name,
			Description: cmd.Description,
			Args:        cmd.Args,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"commands": out})
}

// InvokeCommand handles POST /api/commands/{name}. The body is a JSON object
// of named string arguments; the response carries either the result value or
// a plain error-message string.
func (h *Handler) InvokeCommand(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	args, err := decodeArgs(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	result, err := h.reg.Invoke(r.Context(), name, args)
	if err != nil {
		writeJSON(w, invokeStatus(err), errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

// ListPlugins handles GET /api/plugins.
func (h *Handler) ListPlugins(w http.ResponseWriter, _ *http.Request) {
	type actionDescriptor struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	type pluginDescriptor struct {
		Name    string             `json:"name"`
		Actions []actionDescriptor `json:"actions"`
	}

	names := h.plugins.Names()
	out := make([]pluginDescriptor, 0, len(names))
	for _, name := range names {
		p, _ := h.plugins.Get(name)
		desc := pluginDescriptor{Name: name}
		for actionName, action := range p.Actions() {
			desc.Actions = append(desc.Actions, actionDescriptor{
				Name:        actionName,
				Description: action.Description,
			})
		}
		out = append(out, desc)
	}
	writeJSON(w, http.StatusOK, map[string]any{"plugins": out})
}

// InvokePluginAction handles POST /api/plugins/{plugin}/actions/{action}.
func (h *Handler) InvokePluginAction(w http.ResponseWriter, r *http.Request) {
	pluginName := chi.URLParam(r, "plugin")
	actionName := chi.URLParam(r, "action")

	p, ok := h.plugins.Get(pluginName)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("unknown plugin: "+pluginName))
		return
	}
	action, ok := p.Actions()[actionName]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("unknown action: "+pluginName+"."+actionName))
		return
	}

	args, err := decodeArgs(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	result, err := action.Run(r.Context(), args)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, apperr.ErrMissingArgument) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

// decodeArgs reads the request body as a JSON object of named string
// arguments. An empty body means no arguments.
func decodeArgs(body io.Reader) (map[string]string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}
	args := map[string]string{}
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, errors.New("request body must be a JSON object of string arguments")
	}
	return args, nil
}

// invokeStatus maps command failures onto HTTP statuses. The error message
// itself always crosses the boundary unchanged.
func invokeStatus(err error) int {
	switch {
	case errors.Is(err, apperr.ErrUnknownCommand), errors.Is(err, apperr.ErrPathNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrMissingArgument):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotADirectory), errors.Is(err, apperr.ErrInvalidEntryName):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
