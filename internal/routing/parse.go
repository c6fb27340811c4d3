package routing

import "strings"

const homeFragment = "#/"

// NormalizeFragment maps any addressed fragment to "#/<path>" form. Empty input,
// "#" and "#/" all normalize to "#/"; whitespace is removed everywhere.
func NormalizeFragment(raw string) string {
	h := strings.TrimSpace(raw)
	if h == "" || h == "#" {
		return homeFragment
	}
	h = strings.TrimPrefix(h, "#")
	if !strings.HasPrefix(h, "/") {
		h = "/" + h
	}
	h = stripSpace(h)
	if h == "/" {
		return homeFragment
	}
	return "#" + h
}

// Parse turns a raw fragment into a Route. It never fails: every shape it does
// not recognize degrades to Home.
func Parse(raw string) Route {
	parts := pathParts(NormalizeFragment(raw))

	switch {
	case len(parts) == 0:
		return Home()
	case parts[0] == collectionToken:
		switch len(parts) {
		case 2:
			return Route{Kind: KindCollection, CollectionSlug: parts[1]}
		case 3:
			return Route{Kind: KindRecipient, CollectionSlug: parts[1], RecipientSlug: parts[2]}
		}
		return Home()
	case len(parts) == 1:
		return Route{Kind: KindRecipient, RecipientSlug: parts[0]}
	}
	return Home()
}

func pathParts(normalized string) []string {
	segments := strings.Split(strings.TrimPrefix(normalized, "#"), "/")
	parts := segments[:0]
	for _, segment := range segments {
		if segment != "" {
			parts = append(parts, segment)
		}
	}
	return parts
}
