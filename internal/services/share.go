package services

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/schikamarun/christmas-cards/internal/routing"
)

const (
	fileProtocol     = "file:"
	opaqueOrigin     = "null"
	shareNameDefault = "there"
)

// HostContext describes the addressable location a card is served from, so share
// links can be built without a live browsing context.
type HostContext struct {
	// Protocol includes the trailing colon, e.g. "https:" or "file:".
	Protocol string
	// Origin is scheme://host[:port], or "null"/"" when there is none.
	Origin string
	// Path is the location path, e.g. "/cards/index.html".
	Path string
	// Href is the complete location including any fragment.
	Href string
}

// HostContextFromHref derives a HostContext from a full location string.
func HostContextFromHref(href string) (HostContext, error) {
	href = strings.TrimSpace(href)
	u, err := url.Parse(href)
	if err != nil {
		return HostContext{}, fmt.Errorf("share: parse location: %w", err)
	}
	host := HostContext{Href: href, Path: u.EscapedPath()}
	if u.Scheme != "" {
		host.Protocol = strings.ToLower(u.Scheme) + ":"
	}
	if u.Host != "" && host.Protocol != fileProtocol {
		host.Origin = host.Protocol + "//" + originHost(host.Protocol, u)
	} else {
		host.Origin = opaqueOrigin
	}
	if host.Path == "" {
		host.Path = "/"
	}
	return host, nil
}

// originHost lower-cases the host name and drops the port when it is the
// scheme default, the way browsers serialise an origin.
func originHost(protocol string, u *url.URL) string {
	name := strings.ToLower(u.Hostname())
	port := u.Port()
	if defaultPorts[protocol] == port {
		port = ""
	}
	if port != "" {
		return net.JoinHostPort(name, port)
	}
	if strings.Contains(name, ":") {
		return "[" + name + "]"
	}
	return name
}

var defaultPorts = map[string]string{
	"http:":  "80",
	"https:": "443",
}

// IsLocalFile reports whether the location is a file-browsing location without a usable origin.
func (h HostContext) IsLocalFile() bool {
	return h.Protocol == fileProtocol || h.Origin == "" || h.Origin == opaqueOrigin
}

// BaseURL returns the location every share fragment is appended to. Hosted
// locations keep their directory so deployments under a subpath stay correct;
// local files keep the whole location minus any fragment.
func (h HostContext) BaseURL() string {
	if h.IsLocalFile() {
		base, _, _ := strings.Cut(h.Href, "#")
		return base
	}
	path := h.Path
	if path == "" {
		path = "/"
	}
	if !strings.HasSuffix(path, "/") {
		path = path[:strings.LastIndex(path, "/")+1]
	}
	return h.Origin + path
}

// BuildShareURL returns the absolute shareable URL of a canonical route.
func BuildShareURL(route routing.CanonicalRoute, host HostContext) string {
	fragment := route.Fragment
	if fragment == "" {
		fragment = routing.Canonicalize(route.Route).Fragment
	}
	return host.BaseURL() + fragment
}

// ShareMessage interpolates the recipient's display name and the share URL into
// the invitation text.
func ShareMessage(name, shareURL string) string {
	if strings.TrimSpace(name) == "" {
		name = shareNameDefault
	}
	return fmt.Sprintf("Hey %s! 🎄💌 I made you a Christmas letter — open it here: %s", name, shareURL)
}
