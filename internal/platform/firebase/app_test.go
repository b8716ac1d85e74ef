package firebase

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/janisto/huma-contacts/internal/platform/auth"
	"github.com/janisto/huma-contacts/internal/testutil"
)

func TestClientsCloseReturnsNilWhenFirestoreNil(t *testing.T) {
	c := &Clients{}
	if err := c.Close(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestInitializeClientsRequiresProjectID(t *testing.T) {
	if _, err := InitializeClients(context.Background(), Config{}); err == nil {
		t.Fatal("expected error without project ID")
	}
}

func TestInitializeClientsMissingCredentialsFile(t *testing.T) {
	_, err := InitializeClients(context.Background(), Config{
		ProjectID:       "demo",
		CredentialsFile: filepath.Join(t.TempDir(), "missing.json"),
	})
	if err == nil {
		t.Fatal("expected error for missing credentials file")
	}
}

func TestInitializeClientsAgainstEmulator(t *testing.T) {
	testutil.SkipIfEmulatorUnavailable(t)
	testutil.SetupEmulator(t)
	testutil.ClearEmulators(t)

	ctx := context.Background()
	clients, err := InitializeClients(ctx, Config{ProjectID: testutil.ProjectID, Firestore: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = clients.Close() }()

	if clients.Firestore == nil {
		t.Fatal("expected Firestore client")
	}

	signup := testutil.CreateTestUser(t, "owner@example.com", "password123")
	user, err := auth.NewFirebaseVerifier(clients.Auth).Verify(ctx, signup.IDToken)
	if err != nil {
		t.Fatalf("unexpected verify error: %v", err)
	}
	if user.UID != signup.LocalID {
		t.Errorf("expected UID %s, got %s", signup.LocalID, user.UID)
	}
	if user.Email != "owner@example.com" {
		t.Errorf("expected email owner@example.com, got %s", user.Email)
	}
}
