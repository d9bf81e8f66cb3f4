package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/starford/dagaz/internal/commands"
	"github.com/starford/dagaz/internal/plugins"
)

type testPlugin struct{}

func (testPlugin) Name() string { return "testplug" }
func (testPlugin) Init() error  { return nil }
func (testPlugin) Actions() map[string]plugins.Action {
	return map[string]plugins.Action{
		"ping": {
			Description: "reply with pong",
			Run: func(_ context.Context, args map[string]string) (any, error) {
				return "pong:" + args["payload"], nil
			},
		},
	}
}

// testEnv builds a registry with the real command surface, a test plugin,
// and a router for httptest requests.
func testEnv(t *testing.T, authToken string) http.Handler {
	t.Helper()

	reg := commands.NewRegistry()
	if err := reg.Register(commands.NewGreet()); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(commands.NewListFiles(commands.NewLister(0))); err != nil {
		t.Fatal(err)
	}

	pr := plugins.NewRegistry()
	if err := pr.Register(testPlugin{}); err != nil {
		t.Fatal(err)
	}

	return NewRouter(reg, pr, authToken != "", authToken, nil)
}

func invoke(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out["result"]
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var out errResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out.Error
}

func TestInvokeGreet(t *testing.T) {
	router := testEnv(t, "")
	w := invoke(t, router, "/commands/greet", map[string]string{"name": "Alice"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := decodeResult(t, w); got != "Hello, Alice! You've been greeted from Go!" {
		t.Errorf("result = %v", got)
	}
}

func TestInvokeGreet_EmptyBody(t *testing.T) {
	router := testEnv(t, "")
	w := invoke(t, router, "/commands/greet", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := decodeResult(t, w); got != "Hello, ! You've been greeted from Go!" {
		t.Errorf("result = %v", got)
	}
}

func TestInvokeListFiles(t *testing.T) {
	router := testEnv(t, "")
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	w := invoke(t, router, "/commands/list_files", map[string]string{"path": dir})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	raw, ok := decodeResult(t, w).([]any)
	if !ok {
		t.Fatalf("result is not an array: %s", w.Body.String())
	}
	names := make([]string, 0, len(raw))
	for _, v := range raw {
		names = append(names, v.(string))
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "a.txt" || names[1] != "sub" {
		t.Errorf("names = %v", names)
	}
}

func TestInvokeListFiles_PathNotFound(t *testing.T) {
	router := testEnv(t, "")
	missing := filepath.Join(t.TempDir(), "missing")

	w := invoke(t, router, "/commands/list_files", map[string]string{"path": missing})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if msg := decodeError(t, w); !strings.Contains(msg, missing) {
		t.Errorf("error %q does not name the path", msg)
	}
}

func TestInvokeListFiles_NotADirectory(t *testing.T) {
	router := testEnv(t, "")
	file := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := invoke(t, router, "/commands/list_files", map[string]string{"path": file})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestInvokeUnknownCommand(t *testing.T) {
	router := testEnv(t, "")
	w := invoke(t, router, "/commands/ghost", map[string]string{})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestInvoke_RejectsNonObjectBody(t *testing.T) {
	router := testEnv(t, "")
	req := httptest.NewRequest(http.MethodPost, "/commands/greet", strings.NewReader(`["not","an","object"]`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestListCommands(t *testing.T) {
	router := testEnv(t, "")
	req := httptest.NewRequest(http.MethodGet, "/commands", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var out struct {
		Commands []struct {
			Name string `json:"name"`
		} `json:"commands"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Commands) != 2 || out.Commands[0].Name != "greet" || out.Commands[1].Name != "list_files" {
		t.Errorf("commands = %+v", out.Commands)
	}
}

func TestListPlugins(t *testing.T) {
	router := testEnv(t, "")
	req := httptest.NewRequest(http.MethodGet, "/plugins", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "testplug") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestInvokePluginAction(t *testing.T) {
	router := testEnv(t, "")
	w := invoke(t, router, "/plugins/testplug/actions/ping", map[string]string{"payload": "x"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := decodeResult(t, w); got != "pong:x" {
		t.Errorf("result = %v", got)
	}
}

func TestInvokePluginAction_Unknown(t *testing.T) {
	router := testEnv(t, "")
	if w := invoke(t, router, "/plugins/ghost/actions/ping", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown plugin status = %d", w.Code)
	}
	if w := invoke(t, router, "/plugins/testplug/actions/ghost", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown action status = %d", w.Code)
	}
}

func TestAuth_TokenMode(t *testing.T) {
	router := testEnv(t, "secret")

	// No token.
	w := invoke(t, router, "/commands/greet", map[string]string{"name": "x"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d", w.Code)
	}

	// Valid token.
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(map[string]string{"name": "x"})
	req := httptest.NewRequest(http.MethodPost, "/commands/greet", &buf)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status with token = %d", rec.Code)
	}
}
