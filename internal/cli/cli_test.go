package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRandomCommandAssignsHouse(t *testing.T) {
	var gotAuth string
	profileServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"id":3,"username":"Luna","house":"RAVENCLAW","level":4,"xp":320}`))
	}))
	defer profileServer.Close()

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "profile:\n  base_url: " + profileServer.URL + "\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"random", "--config", path, "--user", "u3", "--name", "Luna", "--token", "moon"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if gotAuth != "Bearer moon" {
		t.Fatalf("expected bearer token to reach the profile service, got %q", gotAuth)
	}
	if !strings.Contains(out.String(), "Luna sorted into") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRandomCommandWithoutTokenFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("profile:\n  base_url: http://127.0.0.1:1\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"random", "--config", path, "--user", "u4"})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "Authentication token not found") {
		t.Fatalf("expected authentication error, got %v", err)
	}
}
