package resource

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"satang/internal/api"
	"satang/internal/core"
	"satang/internal/session"
	"satang/internal/tokenstore"
)

func staticToken(token string) TokenFunc {
	return func() (string, bool) { return token, token != "" }
}

func TestResourceRefetchWithoutTokenNeverFetches(t *testing.T) {
	var fetches atomic.Int64
	res := New(Config{Name: "test", DefaultMessage: "fallback"}, staticToken(""),
		func(context.Context, string) (int, error) {
			fetches.Add(1)
			return 0, nil
		})

	res.Refetch(context.Background())

	snapshot := res.Snapshot()
	if snapshot.Phase != PhaseFailed || snapshot.Kind != api.KindNoToken {
		t.Errorf("snapshot = %+v, want NoToken failure", snapshot)
	}
	if snapshot.Error != "Please sign in before using this feature." {
		t.Errorf("Error = %q", snapshot.Error)
	}
	if n := fetches.Load(); n != 0 {
		t.Errorf("fetch ran %d times, want 0", n)
	}
}

func TestResourcePlaceholderTokenTreatedAsMissing(t *testing.T) {
	res := New(Config{Name: "test", DefaultMessage: "fallback"}, staticToken(api.PlaceholderToken),
		func(context.Context, string) (int, error) { return 0, nil })

	res.Refetch(context.Background())

	if snapshot := res.Snapshot(); snapshot.Kind != api.KindNoToken {
		t.Errorf("Kind = %v, want NoToken", snapshot.Kind)
	}
}

func TestResourceSuccessClearsPreviousError(t *testing.T) {
	fail := true
	res := New(Config{Name: "test", DefaultMessage: "fallback"}, staticToken("tok"),
		func(context.Context, string) (int, error) {
			if fail {
				return 0, &api.StatusError{StatusCode: 500}
			}
			return 42, nil
		})

	res.Refetch(context.Background())
	if snapshot := res.Snapshot(); snapshot.Phase != PhaseFailed || snapshot.Kind != api.KindServerError {
		t.Fatalf("snapshot = %+v, want server error failure", snapshot)
	}

	fail = false
	res.Refetch(context.Background())

	snapshot := res.Snapshot()
	if snapshot.Phase != PhaseReady || snapshot.Data == nil || *snapshot.Data != 42 {
		t.Errorf("snapshot = %+v, want ready 42", snapshot)
	}
	if snapshot.Error != "" {
		t.Errorf("Error = %q, want cleared", snapshot.Error)
	}
}

func TestResourceClearOnFail(t *testing.T) {
	tests := []struct {
		name        string
		clearOnFail bool
		wantData    bool
	}{
		{"keeps payload", false, true},
		{"drops payload", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fail := false
			res := New(Config{Name: "test", DefaultMessage: "fallback", ClearOnFail: tt.clearOnFail},
				staticToken("tok"),
				func(context.Context, string) (int, error) {
					if fail {
						return 0, errors.New("boom")
					}
					return 7, nil
				})

			res.Refetch(context.Background())
			fail = true
			res.Refetch(context.Background())

			snapshot := res.Snapshot()
			if snapshot.Phase != PhaseFailed {
				t.Fatalf("phase = %v, want failed", snapshot.Phase)
			}
			if (snapshot.Data != nil) != tt.wantData {
				t.Errorf("data present = %v, want %v", snapshot.Data != nil, tt.wantData)
			}
		})
	}
}

func TestResourceNoTokenHonorsClearOnFail(t *testing.T) {
	tests := []struct {
		name        string
		clearOnFail bool
		wantData    bool
	}{
		{"keeps payload", false, true},
		{"drops payload", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := "tok"
			res := New(Config{Name: "test", DefaultMessage: "fallback", ClearOnFail: tt.clearOnFail},
				func() (string, bool) { return token, token != "" },
				func(context.Context, string) (int, error) { return 7, nil })

			res.Refetch(context.Background())
			token = ""
			res.Refetch(context.Background())

			snapshot := res.Snapshot()
			if snapshot.Phase != PhaseFailed || snapshot.Kind != api.KindNoToken {
				t.Fatalf("snapshot = %+v, want NoToken failure", snapshot)
			}
			if (snapshot.Data != nil) != tt.wantData {
				t.Errorf("data present = %v, want %v", snapshot.Data != nil, tt.wantData)
			}
		})
	}
}

func TestResourceUnknownFailureUsesDefaultMessage(t *testing.T) {
	res := New(Config{Name: "test", DefaultMessage: "Failed to load data."}, staticToken("tok"),
		func(context.Context, string) (int, error) {
			return 0, errors.New("decode response: unexpected EOF")
		})

	res.Refetch(context.Background())

	snapshot := res.Snapshot()
	if snapshot.Kind != api.KindUnknown || snapshot.Error != "Failed to load data." {
		t.Errorf("snapshot = %+v", snapshot)
	}
}

func TestFromSession(t *testing.T) {
	publisher := session.NewPublisher()
	token := FromSession(publisher)

	if _, ok := token(); ok {
		t.Error("unauthenticated session yielded a token")
	}

	publisher.Publish(session.Authenticated("tok", core.BackendUser{}, core.ProviderProfile{}))
	got, ok := token()
	if !ok || got != "tok" {
		t.Errorf("token() = %q, %v", got, ok)
	}
}

func TestFromStore(t *testing.T) {
	store := tokenstore.New(t.TempDir(), nil)
	token := FromStore(store)

	if _, ok := token(); ok {
		t.Error("empty store yielded a token")
	}

	store.SaveToken("tok")
	got, ok := token()
	if !ok || got != "tok" {
		t.Errorf("token() = %q, %v", got, ok)
	}
}
