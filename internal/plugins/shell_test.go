package plugins

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/starford/dagaz/internal/apperr"
)

func TestShell_ExecRequiresProgram(t *testing.T) {
	s := NewShell([]string{"echo"})
	_, err := s.execAction(context.Background(), map[string]string{})
	if !errors.Is(err, apperr.ErrMissingArgument) {
		t.Fatalf("err = %v, want ErrMissingArgument", err)
	}
}

func TestShell_ExecRejectsUnlisted(t *testing.T) {
	s := NewShell(nil)
	_, err := s.execAction(context.Background(), map[string]string{"program": "rm"})
	if err == nil || !strings.Contains(err.Error(), "not allowlisted") {
		t.Fatalf("err = %v, want allowlist rejection", err)
	}
}

func TestShell_ExecCapturesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a Unix echo binary")
	}
	s := NewShell([]string{"echo"})
	res, err := s.execAction(context.Background(), map[string]string{
		"program": "echo",
		"args":    "hello bridge",
	})
	if err != nil {
		t.Fatalf("execAction: %v", err)
	}
	out, ok := res.(map[string]any)
	if !ok {
		t.Fatalf("result type %T", res)
	}
	if got := out["stdout"].(string); strings.TrimSpace(got) != "hello bridge" {
		t.Errorf("stdout = %q", got)
	}
	if out["exit_code"].(int) != 0 {
		t.Errorf("exit_code = %v, want 0", out["exit_code"])
	}
}

func TestShell_ExecReportsExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a Unix false binary")
	}
	s := NewShell([]string{"false"})
	res, err := s.execAction(context.Background(), map[string]string{"program": "false"})
	if err != nil {
		t.Fatalf("execAction: %v", err)
	}
	out := res.(map[string]any)
	if out["exit_code"].(int) == 0 {
		t.Error("expected non-zero exit_code")
	}
}
