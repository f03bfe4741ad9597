package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type moderationServer struct {
	mu        sync.Mutex
	decisions []map[string]any
}

func (s *moderationServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasPrefix(r.URL.Path, "/content/item/moderate"):
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"contentAction":"allow"}`)
	case r.URL.Path == "/decisions":
		var evt map[string]any
		_ = json.NewDecoder(r.Body).Decode(&evt)
		s.mu.Lock()
		s.decisions = append(s.decisions, evt)
		s.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestModerateCommand(t *testing.T) {
	fake := &moderationServer{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	dir := t.TempDir()
	items := writeFile(t, dir, "items.yaml", `items:
  - key: greeting
    application_id: 2f5f1d6c-8a0b-4c52-9a3e-7d5b2c1e0f11
    sender_id: 7c8d9e0f-1a2b-4c3d-8e9f-0a1b2c3d4e5f
    text: hello there
`)
	pubs := writeFile(t, dir, "publishers.yaml", `publishers:
  - id: sink
    type: http
    enabled: true
    http:
      url: `+srv.URL+`/decisions
`)

	t.Setenv("CLEANSPEAK_URL", srv.URL)
	t.Setenv("CLEANSPEAK_API_KEY", "key")
	t.Setenv("PUBLISHERS_FILE", pubs)
	t.Setenv("LOG_LEVEL", "error")

	root := newRootCmd()
	root.SetArgs([]string{"--items", items})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.decisions) != 1 {
		t.Fatalf("decisions published = %d, want 1", len(fake.decisions))
	}
	if got := fake.decisions[0]["content_action"]; got != "allow" {
		t.Fatalf("content_action = %v", got)
	}
}

func TestModerateCommandRejectsArgs(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"extra"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.Execute(); err == nil {
		t.Fatalf("expected an argument error")
	}
}
