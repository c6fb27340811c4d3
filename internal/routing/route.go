// Package routing turns URL fragments into typed card routes and back.
//
// The fragment is the only routing channel of a card: "#/" addresses the home
// card, "#/collection/{c}" a collection, "#/collection/{c}/{r}" a recipient of a
// collection and "#/{r}" a recipient of the default collection.
package routing

import (
	"errors"
	"strings"
	"unicode"
)

// Kind discriminates the Route variants.
type Kind int

const (
	// KindHome addresses the default collection without a recipient.
	KindHome Kind = iota
	// KindCollection addresses a collection without a recipient.
	KindCollection
	// KindRecipient addresses a recipient, optionally within an explicit collection.
	KindRecipient
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCollection:
		return "collection"
	case KindRecipient:
		return "recipient"
	default:
		return "home"
	}
}

// collectionToken is the literal first path segment of long-form routes.
const collectionToken = "collection"

var (
	// ErrInvalidSlug reports a slug that cannot survive a fragment round trip.
	ErrInvalidSlug = errors.New("routing: slug must be non-empty and free of '/', '#', '?' and whitespace")
	// ErrReservedSlug reports a short-form recipient slug that collides with the collection token.
	ErrReservedSlug = errors.New("routing: recipient slug \"collection\" requires an explicit collection")
)

// Route is the parse result of a fragment. It carries no resolved data.
// CollectionSlug is empty for Home and for short-form recipients.
type Route struct {
	Kind           Kind
	CollectionSlug string
	RecipientSlug  string
}

// Home returns the home route.
func Home() Route {
	return Route{Kind: KindHome}
}

// NewCollection returns a collection route.
func NewCollection(slug string) (Route, error) {
	if !ValidSlug(slug) {
		return Route{}, ErrInvalidSlug
	}
	return Route{Kind: KindCollection, CollectionSlug: slug}, nil
}

// NewRecipient returns a recipient route. An empty collectionSlug selects the
// default collection at resolution time.
func NewRecipient(collectionSlug, recipientSlug string) (Route, error) {
	if !ValidSlug(recipientSlug) {
		return Route{}, ErrInvalidSlug
	}
	if collectionSlug == "" {
		if recipientSlug == collectionToken {
			return Route{}, ErrReservedSlug
		}
	} else if !ValidSlug(collectionSlug) {
		return Route{}, ErrInvalidSlug
	}
	return Route{Kind: KindRecipient, CollectionSlug: collectionSlug, RecipientSlug: recipientSlug}, nil
}

// HasCollection reports whether the route names its collection explicitly.
func (r Route) HasCollection() bool {
	return r.CollectionSlug != ""
}

// ValidSlug reports whether slug can be carried by a route.
func ValidSlug(slug string) bool {
	if slug == "" {
		return false
	}
	for _, r := range slug {
		if r == '/' || r == '#' || r == '?' || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
