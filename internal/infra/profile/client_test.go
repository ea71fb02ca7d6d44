package profile

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"sorting-hat-service/internal/domain"
	"sorting-hat-service/internal/infra/memory"
)

var harry = domain.User{ID: "u1", Username: "harry", SessionID: "conn-1"}

func newCredentials(t *testing.T, token string) *memory.CredentialStore {
	t.Helper()
	store := memory.NewCredentialStore()
	if token != "" {
		_ = store.Put(context.Background(), harry.SessionID, DefaultTokenKey, token)
	}
	return store
}

func TestAssignWithoutCredentialSkipsNetwork(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	client := NewClient(newCredentials(t, ""), Options{BaseURL: server.URL})
	_, err := client.Assign(context.Background(), harry, domain.Gryffindor)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if err.Error() != "Authentication token not found. Please log in again." {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("expected no request, got %d", hits)
	}
}

func TestAssignIgnoresOtherSessionsToken(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	client := NewClient(newCredentials(t, "secret"), Options{BaseURL: server.URL})
	for _, user := range []domain.User{
		{ID: harry.ID, Username: harry.Username},
		{ID: harry.ID, Username: harry.Username, SessionID: "conn-2"},
	} {
		if _, err := client.Assign(context.Background(), user, domain.Gryffindor); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("session %q: expected unauthenticated, got %v", user.SessionID, err)
		}
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("expected no request, got %d", hits)
	}
}

func TestAssignSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/game/profile/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization %q", got)
		}
		if _, err := uuid.Parse(r.Header.Get("X-Request-ID")); err != nil {
			t.Errorf("expected request id: %v", err)
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]string
		if err := json.Unmarshal(raw, &body); err != nil || body["house"] != "RAVENCLAW" {
			t.Errorf("unexpected body %s", raw)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"username":"harry","email":"h@hogwarts.edu","house":"RAVENCLAW",
			"house_display":"Ravenclaw","level":2,"xp":150,"avatar_url":null,
			"current_latitude":51.5,"current_longitude":null,"last_seen":"2024-11-22T10:00:00Z"}`))
	}))
	defer server.Close()

	client := NewClient(newCredentials(t, "secret"), Options{BaseURL: server.URL + "/"})
	profile, err := client.Assign(context.Background(), harry, domain.Ravenclaw)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if profile.House != domain.Ravenclaw || profile.ID != 7 || profile.XP != 150 {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if profile.CurrentLatitude == nil || *profile.CurrentLatitude != 51.5 || profile.CurrentLongitude != nil {
		t.Fatalf("unexpected coordinates %+v", profile)
	}
}

func TestAssignRemoteRejectedUsesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"bad house"}`))
	}))
	defer server.Close()

	client := NewClient(newCredentials(t, "secret"), Options{BaseURL: server.URL})
	_, err := client.Assign(context.Background(), harry, domain.Hufflepuff)
	if !errors.Is(err, domain.ErrRemoteRejected) {
		t.Fatalf("expected remote rejection, got %v", err)
	}
	if err.Error() != "bad house" {
		t.Fatalf("expected server detail, got %q", err.Error())
	}
	var ae *domain.AssignmentError
	if !errors.As(err, &ae) || ae.Status != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %+v", ae)
	}
}

func TestAssignRemoteRejectedWithoutDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(newCredentials(t, "secret"), Options{BaseURL: server.URL})
	_, err := client.Assign(context.Background(), harry, domain.Slytherin)
	if !errors.Is(err, domain.ErrRemoteRejected) {
		t.Fatalf("expected remote rejection, got %v", err)
	}
	if err.Error() != "Failed to assign house. Server responded with 502" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAssignTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(newCredentials(t, "secret"), Options{BaseURL: url})
	_, err := client.Assign(context.Background(), harry, domain.Gryffindor)
	if !errors.Is(err, domain.ErrTransportFailure) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	if err.Error() != "Failed to save house assignment. Please try again." {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAssignMalformedSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(newCredentials(t, "secret"), Options{BaseURL: server.URL})
	if _, err := client.Assign(context.Background(), harry, domain.Gryffindor); !errors.Is(err, domain.ErrTransportFailure) {
		t.Fatalf("expected transport failure, got %v", err)
	}
}
