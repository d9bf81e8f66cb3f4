package plugins

import (
	"context"
	"errors"
	"fmt"

	"github.com/sqweek/dialog"
)

// Dialogs exposes native file and message dialogs to the GUI layer.
//
// A dialog the user cancels is not an error: the action returns a result
// with "cancelled" set instead, so the shell can distinguish cancellation
// from failure.
type Dialogs struct{}

// NewDialogs creates the dialogs plugin.
func NewDialogs() *Dialogs {
	return &Dialogs{}
}

func (d *Dialogs) Name() string { return "dialogs" }

func (d *Dialogs) Init() error { return nil }

func (d *Dialogs) Actions() map[string]Action {
	return map[string]Action{
		"open_file": {
			Description: "Show a native open-file dialog and return the chosen path.",
			Run: func(_ context.Context, args map[string]string) (any, error) {
				b := dialog.File().Title(args["title"])
				if dir := args["start_dir"]; dir != "" {
					b = b.SetStartDir(dir)
				}
				return pathResult(b.Load())
			},
		},
		"save_file": {
			Description: "Show a native save-file dialog and return the chosen path.",
			Run: func(_ context.Context, args map[string]string) (any, error) {
				return pathResult(dialog.File().Title(args["title"]).Save())
			},
		},
		"open_directory": {
			Description: "Show a native directory picker and return the chosen path.",
			Run: func(_ context.Context, args map[string]string) (any, error) {
				return pathResult(dialog.Directory().Title(args["title"]).Browse())
			},
		},
		"message": {
			Description: "Show a native message box. kind is info, error, or question.",
			Run: func(_ context.Context, args map[string]string) (any, error) {
				b := dialog.Message("%s", args["message"]).Title(args["title"])
				switch kind := args["kind"]; kind {
				case "", "info":
					b.Info()
					return nil, nil
				case "error":
					b.Error()
					return nil, nil
				case "question":
					return map[string]any{"confirmed": b.YesNo()}, nil
				default:
					return nil, fmt.Errorf("unknown message kind %q", kind)
				}
			},
		},
	}
}

// pathResult converts a dialog builder outcome into an action result,
// folding user cancellation into the result payload.
func pathResult(path string, err error) (any, error) {
	if errors.Is(err, dialog.ErrCancelled) {
		return map[string]any{"cancelled": true}, nil
	}
	if err != nil {
		return nil, err
	}
	return map[string]any{"path": path}, nil
}
