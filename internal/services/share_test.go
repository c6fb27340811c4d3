package services

import (
	"testing"

	"github.com/schikamarun/christmas-cards/internal/routing"
)

func TestHostContextFromHref(t *testing.T) {
	cases := []struct {
		href     string
		protocol string
		origin   string
		path     string
		local    bool
	}{
		{"https://example.com/cards/index.html#/anna", "https:", "https://example.com", "/cards/index.html", false},
		{"http://localhost:8080", "http:", "http://localhost:8080", "/", false},
		{"file:///home/me/cards/index.html#/x", "file:", "null", "/home/me/cards/index.html", true},
		{"https://Example.com:443/cards/", "https:", "https://example.com", "/cards/", false},
		{"HTTP://CARDS.example.com:80/", "http:", "http://cards.example.com", "/", false},
		{"http://example.com:443/", "http:", "http://example.com:443", "/", false},
		{"https://[::1]:443/", "https:", "https://[::1]", "/", false},
		{"https://[::1]:8443/", "https:", "https://[::1]:8443", "/", false},
	}
	for _, tc := range cases {
		host, err := HostContextFromHref(tc.href)
		if err != nil {
			t.Fatalf("HostContextFromHref(%q): %v", tc.href, err)
		}
		if host.Protocol != tc.protocol || host.Origin != tc.origin || host.Path != tc.path {
			t.Fatalf("HostContextFromHref(%q) = %+v", tc.href, host)
		}
		if host.IsLocalFile() != tc.local {
			t.Fatalf("IsLocalFile(%q) = %v, want %v", tc.href, host.IsLocalFile(), tc.local)
		}
	}

	if _, err := HostContextFromHref("http://[::1"); err == nil {
		t.Fatalf("expected parse error for malformed location")
	}
}

func TestBuildShareURL(t *testing.T) {
	cases := []struct {
		name     string
		href     string
		fragment string
		want     string
	}{
		{"hosted subpath", "https://example.com/cards/index.html", "#/anna", "https://example.com/cards/#/anna"},
		{"hosted trailing slash", "https://example.com/cards/", "#/collection/x/anna", "https://example.com/cards/#/collection/x/anna"},
		{"hosted root", "https://example.com", "", "https://example.com/#/"},
		{"local file", "file:///tmp/index.html#/old", "#/anna", "file:///tmp/index.html#/anna"},
		{"noncanonical input", "https://example.com/index.html", "collection/x/", "https://example.com/#/collection/x"},
		{"default port and upper-case host", "https://Example.com:443/cards/index.html", "#/anna", "https://example.com/cards/#/anna"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			host, err := HostContextFromHref(tc.href)
			if err != nil {
				t.Fatalf("HostContextFromHref: %v", err)
			}
			if got := BuildShareURL(routing.FromFragment(tc.fragment), host); got != tc.want {
				t.Fatalf("BuildShareURL = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildShareURLWithZeroRoute(t *testing.T) {
	host := HostContext{Protocol: "https:", Origin: "https://example.com", Path: "/a/b"}
	got := BuildShareURL(routing.CanonicalRoute{Route: routing.Home()}, host)
	if got != "https://example.com/a/#/" {
		t.Fatalf("BuildShareURL = %q", got)
	}
}

func TestShareMessage(t *testing.T) {
	url := "https://example.com/#/anna"
	if got := ShareMessage("Anna", url); got != "Hey Anna! 🎄💌 I made you a Christmas letter — open it here: "+url {
		t.Fatalf("unexpected message %q", got)
	}
	if got := ShareMessage("  ", url); got != "Hey there! 🎄💌 I made you a Christmas letter — open it here: "+url {
		t.Fatalf("unexpected default message %q", got)
	}
}
