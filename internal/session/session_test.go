package session

import (
	"context"
	"errors"
	"testing"

	"github.com/AKASH-DEV-23/taskctl/internal/core"
	"github.com/AKASH-DEV-23/taskctl/internal/storage"
	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

type fakeFetcher struct {
	resp *models.AuthResponse
	err  error
}

func (f *fakeFetcher) Profile(ctx context.Context) (*models.AuthResponse, error) {
	return f.resp, f.err
}

func testPerms(t *testing.T) core.PermissionMap {
	t.Helper()
	pm, err := core.ParsePermissionMap("user_management:1,role_management:2,all:99")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return pm
}

func newTestManager(t *testing.T) (Manager, storage.CredentialStore) {
	t.Helper()
	store := storage.NewCredentialStore(t.TempDir())
	return NewManager(store, testPerms(t)), store
}

func TestSetPersistsAndLoadRestores(t *testing.T) {
	mgr, store := newTestManager(t)

	user := &models.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}
	if err := mgr.Set("tok123", user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A fresh manager over the same store picks the session back up.
	fresh := NewManager(store, testPerms(t))
	if err := fresh.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fresh.Authenticated() || fresh.Token() != "tok123" {
		t.Fatalf("expected restored session, got token %q", fresh.Token())
	}
	if fresh.CurrentUser() == nil || fresh.CurrentUser().Name != "Ada" {
		t.Fatalf("expected restored user, got %+v", fresh.CurrentUser())
	}
}

func TestValidate_SuccessRefreshesUser(t *testing.T) {
	mgr, _ := newTestManager(t)
	if err := mgr.Set("tok", &models.User{ID: "u1", Name: "Stale"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fetcher := &fakeFetcher{resp: &models.AuthResponse{
		Success: true,
		User:    &models.User{ID: "u1", Name: "Fresh"},
	}}
	if err := mgr.Validate(context.Background(), fetcher); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mgr.CurrentUser().Name != "Fresh" {
		t.Fatalf("expected refreshed user, got %+v", mgr.CurrentUser())
	}
}

func TestValidate_FailureClearsEverything(t *testing.T) {
	mgr, store := newTestManager(t)
	if err := mgr.Set("tok", &models.User{ID: "u1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fetcher := &fakeFetcher{err: errors.New("boom")}
	if err := mgr.Validate(context.Background(), fetcher); err == nil {
		t.Fatal("expected error")
	}
	if mgr.Authenticated() {
		t.Fatal("expected cleared session")
	}
	if creds, err := store.Load(); err != nil || creds != nil {
		t.Fatalf("expected cleared store, got %+v (%v)", creds, err)
	}
}

func TestValidate_RejectedProfileClears(t *testing.T) {
	mgr, _ := newTestManager(t)
	if err := mgr.Set("tok", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fetcher := &fakeFetcher{resp: &models.AuthResponse{Success: false}}
	if err := mgr.Validate(context.Background(), fetcher); err == nil {
		t.Fatal("expected error")
	}
	if mgr.Authenticated() {
		t.Fatal("expected cleared session")
	}
}

func TestClear_Idempotent(t *testing.T) {
	mgr, _ := newTestManager(t)
	if err := mgr.Set("tok", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mgr.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mgr.Clear(); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}
	if mgr.Authenticated() {
		t.Fatal("expected empty session")
	}
}

func TestHasPermission_SentinelGrantsEverything(t *testing.T) {
	mgr, _ := newTestManager(t)
	user := &models.User{ID: "u1", Role: &models.RoleRef{Permissions: []int{99}}}
	if err := mgr.Set("tok", user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mgr.HasPermission(1) || !mgr.HasPermission(2) {
		t.Fatal("sentinel must grant every capability")
	}
}

func TestHasPermission_OverrideBeatsRole(t *testing.T) {
	mgr, _ := newTestManager(t)
	user := &models.User{
		ID:          "u1",
		Permissions: []int{2},
		Role:        &models.RoleRef{Permissions: []int{1}},
	}
	if err := mgr.Set("tok", user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mgr.HasPermission(1) {
		t.Fatal("explicit override must win over the role set")
	}
	if !mgr.HasPermission(2) {
		t.Fatal("expected override permission to hold")
	}
}

func TestSubscribe_NotifiedOnChanges(t *testing.T) {
	mgr, _ := newTestManager(t)
	var calls int
	mgr.Subscribe(func() { calls++ })

	if err := mgr.Set("tok", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mgr.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Clearing an already-empty session stays silent.
	if err := mgr.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", calls)
	}
}
