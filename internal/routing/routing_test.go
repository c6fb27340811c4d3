package routing

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Route
	}{
		{"empty", "", Home()},
		{"hash only", "#", Home()},
		{"hash slash", "#/", Home()},
		{"slashes only", "#///", Home()},
		{"short recipient", "#/anna", Route{Kind: KindRecipient, RecipientSlug: "anna"}},
		{"missing leading slash", "#anna", Route{Kind: KindRecipient, RecipientSlug: "anna"}},
		{"no hash", "anna", Route{Kind: KindRecipient, RecipientSlug: "anna"}},
		{"whitespace stripped", " # /an na ", Route{Kind: KindRecipient, RecipientSlug: "anna"}},
		{"collection", "#/collection/only-one-part-missing", Route{Kind: KindCollection, CollectionSlug: "only-one-part-missing"}},
		{"collection recipient", "#/collection/xmas25/anna", Route{Kind: KindRecipient, CollectionSlug: "xmas25", RecipientSlug: "anna"}},
		{"empty segments dropped", "#//collection//xmas25///anna/", Route{Kind: KindRecipient, CollectionSlug: "xmas25", RecipientSlug: "anna"}},
		{"bare collection token", "#/collection", Home()},
		{"too deep", "#/collection/a/b/c", Home()},
		{"two short parts", "#/anna/extra", Home()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Parse(tc.in); got != tc.want {
				t.Fatalf("Parse(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeFragment(t *testing.T) {
	cases := map[string]string{
		"":                 "#/",
		"   ":              "#/",
		"#":                "#/",
		"#/":               "#/",
		"/":                "#/",
		"#/anna":           "#/anna",
		"#anna":            "#/anna",
		"#/collection/ x ": "#/collection/x",
	}
	for in, want := range cases {
		if got := NormalizeFragment(in); got != want {
			t.Fatalf("NormalizeFragment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromFragmentScenarios(t *testing.T) {
	cases := []struct {
		in       string
		fragment string
		display  string
		kind     Kind
	}{
		{"", "#/", "#/", KindHome},
		{"#/anna", "#/anna", "#/anna", KindRecipient},
		{"#/collection/xmas25/anna", "#/collection/xmas25/anna", "#/collection/xmas25/anna", KindRecipient},
		{"#/collection/a/b/c", "#/", "#/collection/a/b/c", KindHome},
		{"#//anna/", "#/anna", "#//anna/", KindRecipient},
	}
	for _, tc := range cases {
		got := FromFragment(tc.in)
		if got.Fragment != tc.fragment || got.Display != tc.display || got.Kind != tc.kind {
			t.Fatalf("FromFragment(%q) = %+v, want fragment %q display %q kind %v", tc.in, got, tc.fragment, tc.display, tc.kind)
		}
	}
}

func TestNeedsReplace(t *testing.T) {
	c := FromFragment("#anna")
	if !c.NeedsReplace("#anna") {
		t.Fatalf("expected non-canonical fragment to need replacing")
	}
	if c.NeedsReplace("#/anna") {
		t.Fatalf("expected canonical fragment to be kept")
	}
}

func TestConstructorsValidateSlugs(t *testing.T) {
	if _, err := NewCollection(""); !errors.Is(err, ErrInvalidSlug) {
		t.Fatalf("expected ErrInvalidSlug, got %v", err)
	}
	if _, err := NewCollection("a/b"); !errors.Is(err, ErrInvalidSlug) {
		t.Fatalf("expected ErrInvalidSlug, got %v", err)
	}
	if _, err := NewRecipient("", "an na"); !errors.Is(err, ErrInvalidSlug) {
		t.Fatalf("expected ErrInvalidSlug, got %v", err)
	}
	if _, err := NewRecipient("", "collection"); !errors.Is(err, ErrReservedSlug) {
		t.Fatalf("expected ErrReservedSlug, got %v", err)
	}
	if _, err := NewRecipient("xmas25", "collection"); err != nil {
		t.Fatalf("expected long-form collection recipient to be allowed: %v", err)
	}
}

// genRoute produces arbitrary constructible routes for property tests.
type genRoute struct {
	Route Route
}

var slugAlphabet = []rune("abcdefghijklmnopqrstuvwxyz0123456789-_.~%éü")

func randomSlug(rng *rand.Rand) string {
	if rng.Intn(10) == 0 {
		return collectionToken
	}
	n := 1 + rng.Intn(12)
	out := make([]rune, n)
	for i := range out {
		out[i] = slugAlphabet[rng.Intn(len(slugAlphabet))]
	}
	return string(out)
}

func (genRoute) Generate(rng *rand.Rand, _ int) reflect.Value {
	for {
		var (
			route Route
			err   error
		)
		switch rng.Intn(4) {
		case 0:
			route = Home()
		case 1:
			route, err = NewCollection(randomSlug(rng))
		case 2:
			route, err = NewRecipient("", randomSlug(rng))
		default:
			route, err = NewRecipient(randomSlug(rng), randomSlug(rng))
		}
		if err == nil {
			return reflect.ValueOf(genRoute{Route: route})
		}
	}
}

func TestCanonicalRoundTripProperty(t *testing.T) {
	roundTrip := func(g genRoute) bool {
		return Parse(Canonicalize(g.Route).Fragment) == g.Route
	}
	if err := quick.Check(roundTrip, &quick.Config{MaxCount: 2000}); err != nil {
		t.Fatalf("round trip violated: %v", err)
	}
}

func TestCanonicalFragmentIsStableProperty(t *testing.T) {
	stable := func(g genRoute) bool {
		c := Canonicalize(g.Route)
		again := FromFragment(c.Fragment)
		return again.Fragment == c.Fragment && again.Display == c.Fragment && !again.NeedsReplace(c.Fragment)
	}
	if err := quick.Check(stable, &quick.Config{MaxCount: 2000}); err != nil {
		t.Fatalf("canonical fragment not stable: %v", err)
	}
}

func TestParseNeverPanicsProperty(t *testing.T) {
	total := func(raw string) bool {
		r := Parse(raw)
		return r.Kind == KindHome || r.Kind == KindCollection || r.Kind == KindRecipient
	}
	if err := quick.Check(total, nil); err != nil {
		t.Fatalf("parse not total: %v", err)
	}
}
