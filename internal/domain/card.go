package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FallbackCollectionSlug is used when neither the recipients document nor the
// collections mapping names a default collection.
const FallbackCollectionSlug = "christmas-2025"

// Theme identifies one of the visual themes a card can be painted with.
type Theme string

const (
	// ThemeClassic is the system default theme.
	ThemeClassic Theme = "classic"
	// ThemeMidnight is the dark theme.
	ThemeMidnight Theme = "midnight"
	// ThemeFestive is the high-contrast holiday theme.
	ThemeFestive Theme = "festive"
)

// DefaultTheme is applied when neither the recipient nor the collection names a recognized theme.
const DefaultTheme = ThemeClassic

var knownThemes = map[Theme]struct{}{
	ThemeClassic:  {},
	ThemeMidnight: {},
	ThemeFestive:  {},
}

// ParseTheme reports the recognized theme for value, ignoring case and surrounding space.
func ParseTheme(value string) (Theme, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	theme := Theme(cases.Lower(language.Und).String(value))
	if _, ok := knownThemes[theme]; !ok {
		return "", false
	}
	return theme, true
}

// Collection carries the copy shared by every card of a collection. Empty fields are
// treated as absent and replaced with system defaults at binding time.
type Collection struct {
	Title        string `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle     string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	DefaultTheme string `json:"defaultTheme,omitempty" yaml:"defaultTheme,omitempty"`
	FooterNote   string `json:"footerNote,omitempty" yaml:"footerNote,omitempty"`
}

// Recipient carries the per-recipient overrides of a card.
type Recipient struct {
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
	Signature string `json:"signature,omitempty" yaml:"signature,omitempty"`
	Theme     string `json:"theme,omitempty" yaml:"theme,omitempty"`
	Date      string `json:"date,omitempty" yaml:"date,omitempty"`
}

// CollectionFromFields builds a Collection from loosely typed document fields.
// Values that are not strings are ignored.
func CollectionFromFields(fields map[string]any) Collection {
	return Collection{
		Title:        stringField(fields, "title"),
		Subtitle:     stringField(fields, "subtitle"),
		DefaultTheme: stringField(fields, "defaultTheme"),
		FooterNote:   stringField(fields, "footerNote"),
	}
}

// RecipientFromFields builds a Recipient from loosely typed document fields.
// Values that are not strings are ignored.
func RecipientFromFields(fields map[string]any) Recipient {
	return Recipient{
		Name:      stringField(fields, "name"),
		Message:   stringField(fields, "message"),
		Signature: stringField(fields, "signature"),
		Theme:     stringField(fields, "theme"),
		Date:      stringField(fields, "date"),
	}
}

func stringField(fields map[string]any, key string) string {
	if fields == nil {
		return ""
	}
	value, ok := fields[key].(string)
	if !ok {
		return ""
	}
	return value
}

// DataStore is the immutable two-tier data set a session resolves routes against.
type DataStore struct {
	Collections CollectionSet
	Recipients  RecipientDirectory
}

// DefaultCollectionSlug returns the recipients document default, then the first
// collection key, then FallbackCollectionSlug.
func (s DataStore) DefaultCollectionSlug() string {
	if slug := s.Recipients.DefaultCollection; slug != "" {
		return slug
	}
	if slug, ok := s.Collections.First(); ok {
		return slug
	}
	return FallbackCollectionSlug
}

// Binding is the resolution of a route against a DataStore. Collection and
// Recipient are nil when nothing matched.
type Binding struct {
	CollectionSlug string      `json:"collectionSlug"`
	RecipientSlug  string      `json:"recipientSlug"`
	Collection     *Collection `json:"collection"`
	Recipient      *Recipient  `json:"recipient"`
	EffectiveTheme Theme       `json:"effectiveTheme"`
}
