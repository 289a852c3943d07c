package tokenstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"satang/internal/core"
)

func TestStoreTokenRoundTrip(t *testing.T) {
	store := New(t.TempDir(), nil)

	if _, ok := store.Token(); ok {
		t.Fatal("empty store reported a token")
	}

	store.SaveToken("token-abc")
	got, ok := store.Token()
	if !ok || got != "token-abc" {
		t.Fatalf("Token() = %q, %v; want token-abc, true", got, ok)
	}

	store.RemoveToken()
	if _, ok := store.Token(); ok {
		t.Fatal("token survived removal")
	}
	// Removing twice must stay quiet.
	store.RemoveToken()
}

func TestStoreTokenExpiry(t *testing.T) {
	store := New(t.TempDir(), nil)
	store.SaveToken("token-abc")

	store.now = func() time.Time { return time.Now().Add(TokenTTL + time.Hour) }
	if _, ok := store.Token(); ok {
		t.Fatal("expired token reported as present")
	}

	// Expiry removes the file, so a fresh clock still finds nothing.
	store.now = time.Now
	if _, ok := store.Token(); ok {
		t.Fatal("expired token file was not removed")
	}
}

func TestStoreUserRoundTrip(t *testing.T) {
	store := New(t.TempDir(), nil)

	user := core.BackendUser{ID: 3, Email: "mali@x.com", FirstName: "Mali"}
	store.SaveUser(user)

	got, ok := store.User()
	if !ok {
		t.Fatal("saved user not found")
	}
	if got.ID != user.ID || got.Email != user.Email || got.FirstName != user.FirstName {
		t.Errorf("User() = %+v, want %+v", got, user)
	}

	store.RemoveUser()
	if _, ok := store.User(); ok {
		t.Fatal("user survived removal")
	}
}

func TestStoreDisabled(t *testing.T) {
	store := New("", nil)
	if store.Enabled() {
		t.Fatal("store with empty dir must be disabled")
	}

	store.SaveToken("token-abc")
	if _, ok := store.Token(); ok {
		t.Fatal("disabled store returned a token")
	}
	store.SaveUser(core.BackendUser{Email: "mali@x.com"})
	if _, ok := store.User(); ok {
		t.Fatal("disabled store returned a user")
	}
	store.RemoveToken()
	store.RemoveUser()
}

func TestStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, nil)

	path := filepath.Join(dir, "token.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, ok := store.Token(); ok {
		t.Fatal("corrupt file reported as a token")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt file was not removed")
	}
}

func TestStoreFilePermissions(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, nil)
	store.SaveToken("token-abc")

	info, err := os.Stat(filepath.Join(dir, "token.json"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}
}
