package routing

// CanonicalRoute is a Route together with its canonical fragment and the
// display form of the fragment that was actually addressed.
type CanonicalRoute struct {
	Route
	Fragment string
	Display  string
}

// Canonicalize derives the canonical fragment of route. Display equals the
// fragment because no addressed input is known.
func Canonicalize(route Route) CanonicalRoute {
	fragment := canonicalFragment(route)
	return CanonicalRoute{Route: route, Fragment: fragment, Display: fragment}
}

// FromFragment parses raw and canonicalizes the result, keeping the normalized
// raw input as the display string.
func FromFragment(raw string) CanonicalRoute {
	c := Canonicalize(Parse(raw))
	c.Display = NormalizeFragment(raw)
	return c
}

// NeedsReplace reports whether the observed location fragment differs from the
// canonical one. Callers replace the location without adding a history entry.
func (c CanonicalRoute) NeedsReplace(observed string) bool {
	return observed != c.Fragment
}

func canonicalFragment(route Route) string {
	switch route.Kind {
	case KindCollection:
		return "#/collection/" + route.CollectionSlug
	case KindRecipient:
		if route.HasCollection() {
			return "#/collection/" + route.CollectionSlug + "/" + route.RecipientSlug
		}
		return "#/" + route.RecipientSlug
	default:
		return homeFragment
	}
}
