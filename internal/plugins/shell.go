package plugins

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/starford/dagaz/internal/apperr"
)

// Shell exposes controlled process access to the GUI layer: opening a path
// or URL with the platform handler, and running allowlisted programs.
type Shell struct {
	allow map[string]struct{}
}

// NewShell creates the shell plugin. allow names the programs the exec
// action may run; an empty allowlist disables exec entirely.
func NewShell(allow []string) *Shell {
	m := make(map[string]struct{}, len(allow))
	for _, name := range allow {
		m[name] = struct{}{}
	}
	return &Shell{allow: m}
}

func (s *Shell) Name() string { return "shell" }

func (s *Shell) Init() error { return nil }

func (s *Shell) Actions() map[string]Action {
	return map[string]Action{
		"open": {
			Description: "Open a path or URL with the platform default handler.",
			Run: func(ctx context.Context, args map[string]string) (any, error) {
				target, ok := args["target"]
				if !ok {
					return nil, fmt.Errorf("%w: target", apperr.ErrMissingArgument)
				}
				return nil, openWithDefaultHandler(ctx, target)
			},
		},
		"exec": {
			Description: "Run an allowlisted program and return its output.",
			Run:         s.execAction,
		},
	}
}

func (s *Shell) execAction(ctx context.Context, args map[string]string) (any, error) {
	program, ok := args["program"]
	if !ok {
		return nil, fmt.Errorf("%w: program", apperr.ErrMissingArgument)
	}
	if _, allowed := s.allow[program]; !allowed {
		return nil, fmt.Errorf("program %q is not allowlisted", program)
	}

	cmd := exec.CommandContext(ctx, program, strings.Fields(args["args"])...)
	if dir := args["dir"]; dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	exitCode := 0
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if runErr != nil {
		return nil, fmt.Errorf("exec %s: %w", program, runErr)
	}

	return map[string]any{
		"stdout":    stdout.String(),
		"stderr":    stderr.String(),
		"exit_code": exitCode,
	}, nil
}

func openWithDefaultHandler(ctx context.Context, target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", target)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", target)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	return nil
}
