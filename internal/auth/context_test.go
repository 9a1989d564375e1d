package auth

import (
	"context"
	"testing"

	"github.com/facturafacil/facturafacil/internal/model"
)

func TestSessionContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if SessionFromContext(ctx) != nil || UserIDFromContext(ctx) != "" || TokenFromContext(ctx) != "" {
		t.Fatal("empty context should carry no session")
	}

	session := &model.Session{UserID: "user-1", Email: "a@example.com"}
	ctx = ContextWithSession(ctx, "fs_token", session)

	if got := SessionFromContext(ctx); got != session {
		t.Errorf("SessionFromContext = %v, want %v", got, session)
	}
	if got := UserIDFromContext(ctx); got != "user-1" {
		t.Errorf("UserIDFromContext = %q, want user-1", got)
	}
	if got := TokenFromContext(ctx); got != "fs_token" {
		t.Errorf("TokenFromContext = %q, want fs_token", got)
	}
}
