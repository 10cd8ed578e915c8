package identity

import (
	"context"
	"testing"

	"github.com/sirpyerre/social-api/internal/core/domain"
)

func TestWithUser_RoundTrip(t *testing.T) {
	ana := &domain.User{ID: "u1", Username: "ana"}
	ctx := WithUser(context.Background(), ana)

	got, ok := FromContext(ctx)
	if !ok || got != ana {
		t.Fatalf("FromContext = %v, %v; want ana, true", got, ok)
	}
}

func TestFromContext_Missing(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("expected no user in an empty context")
	}
	if _, ok := FromContext(WithUser(context.Background(), nil)); ok {
		t.Fatal("expected a nil user to count as missing")
	}
}
