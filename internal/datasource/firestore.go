package datasource

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/schikamarun/christmas-cards/internal/domain"
	fsplatform "github.com/schikamarun/christmas-cards/internal/platform/firestore"
)

// Firestore layout of the card documents.
const (
	FirestoreCollections = "cardCollections"
	FirestoreRecipients  = "recipients"
	FirestoreSettings    = "cardSettings"
	FirestoreSettingsDoc = "default"
	FirestoreOrderField  = "order"
)

// clientProvider hands out the shared Firestore client.
type clientProvider interface {
	Client(ctx context.Context) (*firestore.Client, error)
}

// FirestoreSource reads collections from the cardCollections collection ordered by
// their order field, recipients from each collection's recipients subcollection, and the
// default collection slug from cardSettings/default.
type FirestoreSource struct {
	provider clientProvider
}

// NewFirestoreSource constructs a FirestoreSource backed by provider.
func NewFirestoreSource(provider *fsplatform.Provider) (*FirestoreSource, error) {
	if provider == nil {
		return nil, errors.New("datasource: firestore provider is required")
	}
	return &FirestoreSource{provider: provider}, nil
}

// Name implements Source.
func (s *FirestoreSource) Name() string { return "firestore" }

// Collections implements Source.
func (s *FirestoreSource) Collections(ctx context.Context) (domain.CollectionSet, error) {
	client, err := s.provider.Client(ctx)
	if err != nil {
		return domain.CollectionSet{}, err
	}

	collections := domain.NewCollectionSet()
	query := client.Collection(FirestoreCollections).OrderBy(FirestoreOrderField, firestore.Asc)
	err = fsplatform.Each(ctx, "cardCollections.list", query, func(snapshot *firestore.DocumentSnapshot) error {
		collections.Put(snapshot.Ref.ID, domain.CollectionFromFields(snapshot.Data()))
		return nil
	})
	if err != nil {
		return domain.CollectionSet{}, err
	}
	return collections, nil
}

// Recipients implements Source.
func (s *FirestoreSource) Recipients(ctx context.Context) (domain.RecipientDirectory, error) {
	client, err := s.provider.Client(ctx)
	if err != nil {
		return domain.RecipientDirectory{}, err
	}

	directory := domain.RecipientDirectory{ByCollection: map[string]map[string]domain.Recipient{}}

	settings, ok, err := fsplatform.GetOptional(ctx, "cardSettings.get", client.Collection(FirestoreSettings).Doc(FirestoreSettingsDoc))
	if err != nil {
		return domain.RecipientDirectory{}, err
	}
	if ok {
		if slug, isString := settings.Data()["defaultCollection"].(string); isString {
			directory.DefaultCollection = strings.TrimSpace(slug)
		}
	}

	query := client.CollectionGroup(FirestoreRecipients).Query
	err = fsplatform.Each(ctx, "recipients.list", query, func(snapshot *firestore.DocumentSnapshot) error {
		parent := snapshot.Ref.Parent.Parent
		if parent == nil || parent.Parent == nil || parent.Parent.ID != FirestoreCollections {
			return nil
		}
		directory.Put(parent.ID, snapshot.Ref.ID, domain.RecipientFromFields(snapshot.Data()))
		return nil
	})
	if err != nil {
		return domain.RecipientDirectory{}, err
	}
	return directory, nil
}
