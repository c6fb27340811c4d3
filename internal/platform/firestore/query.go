package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// Visitor receives each snapshot of a query in order.
type Visitor func(snapshot *firestore.DocumentSnapshot) error

// Each runs query and hands every snapshot to visit, stopping at the first error.
// Backend errors are annotated with op.
func Each(ctx context.Context, op string, query firestore.Query, visit Visitor) error {
	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		snapshot, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return WrapError(op, err)
		}
		if err := visit(snapshot); err != nil {
			return fmt.Errorf("%s: visit %s: %w", op, snapshot.Ref.ID, err)
		}
	}
}

// GetOptional fetches a document, reporting ok=false instead of an error when it does not exist.
func GetOptional(ctx context.Context, op string, ref *firestore.DocumentRef) (*firestore.DocumentSnapshot, bool, error) {
	snapshot, err := ref.Get(ctx)
	if err != nil {
		wrapped := WrapError(op, err)
		var fsErr *Error
		if errors.As(wrapped, &fsErr) && fsErr.IsNotFound() {
			return nil, false, nil
		}
		return nil, false, wrapped
	}
	return snapshot, true, nil
}
