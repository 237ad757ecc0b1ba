package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func writeBroken(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("[report]\nbogus = true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestTestNotifyDisabled(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Notifications disabled")
}

func TestTestNotifySends(t *testing.T) {
	var title string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title = r.Header.Get("Title")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	env := setupCLITestEnv(t)
	env.cfg.Notifications.NtfyTopic = srv.URL + "/framefix"
	env.rewrite(t)

	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")
	if title != "framefix - Test" {
		t.Fatalf("unexpected notification title %q", title)
	}
}

func TestTestNotifyReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	env := setupCLITestEnv(t)
	env.cfg.Notifications.NtfyTopic = srv.URL
	env.rewrite(t)

	if _, _, err := runCLI(t, []string{"test-notify"}, env.configPath); err == nil {
		t.Fatal("expected error from rejected notification")
	}
}
