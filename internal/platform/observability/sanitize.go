package observability

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/schikamarun/christmas-cards/internal/platform/requestctx"
)

// Upper bounds, in runes, for request values copied into log entries and span names.
const (
	methodLimit   = 10
	pathLimit     = 180
	fragmentLimit = 120
	slugLimit     = 64
	addrLimit     = 64
)

// cleanValue strips control characters so a fragment or path cannot forge log
// lines, then cuts it to limit runes.
func cleanValue(value string, limit int) string {
	value = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	return string([]rune(value)[:limit])
}

func cleanPath(path string) string {
	if path == "" {
		return "/"
	}
	return cleanValue(path, pathLimit)
}

// SanitizeFragment bounds a card fragment taken from a query parameter before it is logged.
func SanitizeFragment(fragment string) string {
	return cleanValue(fragment, fragmentLimit)
}

// cardFields describes the card a request resolved to.
func cardFields(card requestctx.Card) []zap.Field {
	fields := []zap.Field{
		zap.String("card.kind", cleanValue(card.Kind, slugLimit)),
		zap.String("card.fragment", SanitizeFragment(card.Fragment)),
	}
	if card.CollectionSlug != "" {
		fields = append(fields, zap.String("card.collection", cleanValue(card.CollectionSlug, slugLimit)))
	}
	if card.RecipientSlug != "" {
		fields = append(fields, zap.String("card.recipient", cleanValue(card.RecipientSlug, slugLimit)))
	}
	return fields
}

func cardAttributes(card requestctx.Card) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("card.kind", cleanValue(card.Kind, slugLimit)),
		attribute.String("card.collection", cleanValue(card.CollectionSlug, slugLimit)),
		attribute.String("card.recipient", cleanValue(card.RecipientSlug, slugLimit)),
	}
}
