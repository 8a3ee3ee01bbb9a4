package requestctx

import (
	"context"
	"testing"
)

func TestUserEmailFromContextRoundTrip(t *testing.T) {
	ctx := WithUserEmail(context.Background(), "client@example.com")
	got := UserEmailFromContext(ctx)
	if got != "client@example.com" {
		t.Fatalf("UserEmailFromContext = %q, want %q", got, "client@example.com")
	}
}

func TestUserEmailFromContextEmpty(t *testing.T) {
	got := UserEmailFromContext(context.Background())
	if got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestUserEmailFromContextNil(t *testing.T) {
	got := UserEmailFromContext(nil)
	if got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
