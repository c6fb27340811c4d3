package services

import (
	"github.com/schikamarun/christmas-cards/internal/domain"
	"github.com/schikamarun/christmas-cards/internal/routing"
)

// Resolve binds route to the data in store. It never fails; unknown slugs yield
// nil entities which the presentation layer replaces with default copy.
//
// Collection lookups retry the default collection once. Recipient lookups retry
// the default collection's group only when the requested group is missing, never
// when the group exists but lacks the recipient.
func Resolve(route routing.CanonicalRoute, store domain.DataStore) domain.Binding {
	defaultSlug := store.DefaultCollectionSlug()

	var binding domain.Binding
	switch route.Kind {
	case routing.KindCollection:
		binding.CollectionSlug = route.CollectionSlug
		binding.Collection = lookupCollection(store, route.CollectionSlug, defaultSlug)
	case routing.KindRecipient:
		collectionSlug := route.CollectionSlug
		if collectionSlug == "" {
			collectionSlug = defaultSlug
		}
		binding.CollectionSlug = collectionSlug
		binding.RecipientSlug = route.RecipientSlug
		binding.Collection = lookupCollection(store, collectionSlug, defaultSlug)
		binding.Recipient = lookupRecipient(store, collectionSlug, defaultSlug, route.RecipientSlug)
	default:
		binding.CollectionSlug = defaultSlug
		binding.Collection = lookupCollection(store, defaultSlug, defaultSlug)
		if binding.Collection == nil {
			if first, ok := store.Collections.First(); ok {
				binding.Collection = lookupCollection(store, first, first)
			}
		}
	}

	binding.EffectiveTheme = EffectiveTheme(binding.Recipient, binding.Collection)
	return binding
}

// EffectiveTheme applies recipient, then collection, then system default precedence.
// Unrecognized values fall through to the next tier.
func EffectiveTheme(recipient *domain.Recipient, collection *domain.Collection) domain.Theme {
	if recipient != nil {
		if theme, ok := domain.ParseTheme(recipient.Theme); ok {
			return theme
		}
	}
	if collection != nil {
		if theme, ok := domain.ParseTheme(collection.DefaultTheme); ok {
			return theme
		}
	}
	return domain.DefaultTheme
}

func lookupCollection(store domain.DataStore, slug, defaultSlug string) *domain.Collection {
	if c, ok := store.Collections.Lookup(slug); ok {
		return &c
	}
	if c, ok := store.Collections.Lookup(defaultSlug); ok {
		return &c
	}
	return nil
}

func lookupRecipient(store domain.DataStore, collectionSlug, defaultSlug, recipientSlug string) *domain.Recipient {
	group, ok := store.Recipients.Group(collectionSlug)
	if !ok {
		group, ok = store.Recipients.Group(defaultSlug)
	}
	if !ok {
		return nil
	}
	r, ok := group[recipientSlug]
	if !ok {
		return nil
	}
	return &r
}
