package session

import (
	"context"
	"strings"
	"testing"
)

func TestDeriveTokenContainsUsername(t *testing.T) {
	token := DeriveToken("guru01")
	if !strings.Contains(token, "guru01") {
		t.Fatalf("expected token to contain username, got %s", token)
	}
	if token != DeriveToken("guru01") {
		t.Fatalf("expected deterministic token")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	ok, err := store.Has(ctx, "token-guru01")
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if ok {
		t.Fatalf("expected token to be absent before login")
	}

	if err := store.Add(ctx, "token-guru01"); err != nil {
		t.Fatalf("add: %v", err)
	}
	ok, err = store.Has(ctx, "token-guru01")
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if !ok {
		t.Fatalf("expected token to be recorded")
	}
}
