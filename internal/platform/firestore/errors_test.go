package firestore

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/schikamarun/christmas-cards/internal/platform/config"
)

func TestWrapErrorClassifies(t *testing.T) {
	if WrapError("op", nil) != nil {
		t.Fatalf("expected nil for nil error")
	}

	notFound := WrapError("collections.get", status.Error(codes.NotFound, "missing"))
	var fsErr *Error
	if !errors.As(notFound, &fsErr) || !fsErr.IsNotFound() || fsErr.IsUnavailable() {
		t.Fatalf("expected not found classification, got %v", notFound)
	}
	if notFound.Error() != "collections.get: rpc error: code = NotFound desc = missing" {
		t.Fatalf("unexpected message %q", notFound.Error())
	}

	unavailable := WrapError("collections.list", status.Error(codes.Unavailable, "down"))
	if !errors.As(unavailable, &fsErr) || !fsErr.IsUnavailable() {
		t.Fatalf("expected unavailable classification, got %v", unavailable)
	}

	if again := WrapError("outer", unavailable); again != unavailable {
		t.Fatalf("expected already wrapped error to pass through")
	}
}

func TestWrapErrorPassesContextErrors(t *testing.T) {
	if err := WrapError("op", status.Error(codes.Canceled, "stop")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := WrapError("op", status.Error(codes.DeadlineExceeded, "slow")); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestProviderRequiresProject(t *testing.T) {
	t.Setenv(envGoogleProjectID, "")
	provider := NewProvider(config.FirestoreConfig{})
	if _, err := provider.Client(context.Background()); err == nil {
		t.Fatalf("expected error without project id")
	}
	if err := provider.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if _, err := provider.Client(context.Background()); !errors.Is(err, ErrProviderClosed) {
		t.Fatalf("expected ErrProviderClosed, got %v", err)
	}
}
