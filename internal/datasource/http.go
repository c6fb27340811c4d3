package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/schikamarun/christmas-cards/internal/domain"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	maxDocumentBytes   = 4 << 20
)

// HTTPSource fetches {base}/data/collections.json and {base}/data/recipients.json,
// bypassing caches on every load.
type HTTPSource struct {
	baseURL string
	token   string
	client  *http.Client
}

// HTTPOption customises an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithBearerToken sends token in the Authorization header.
func WithBearerToken(token string) HTTPOption {
	return func(s *HTTPSource) {
		s.token = strings.TrimSpace(token)
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout bounds each document request.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if timeout > 0 {
			client := *s.client
			client.Timeout = timeout
			s.client = &client
		}
	}
}

// NewHTTPSource constructs an HTTPSource rooted at baseURL.
func NewHTTPSource(baseURL string, opts ...HTTPOption) (*HTTPSource, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("datasource: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("datasource: base url %q must be http or https", baseURL)
	}
	src := &HTTPSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(src)
		}
	}
	return src, nil
}

// Name implements Source.
func (s *HTTPSource) Name() string { return "http" }

// Collections implements Source.
func (s *HTTPSource) Collections(ctx context.Context) (domain.CollectionSet, error) {
	var collections domain.CollectionSet
	err := s.fetch(ctx, DocumentCollections+".json", &collections)
	return collections, err
}

// Recipients implements Source.
func (s *HTTPSource) Recipients(ctx context.Context) (domain.RecipientDirectory, error) {
	var recipients domain.RecipientDirectory
	err := s.fetch(ctx, DocumentRecipients+".json", &recipients)
	return recipients, err
}

func (s *HTTPSource) fetch(ctx context.Context, name string, v any) error {
	endpoint, err := url.JoinPath(s.baseURL, "data", name)
	if err != nil {
		return fmt.Errorf("join path %s: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("request %s: unexpected status %d", name, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return decodeDocument(name, data, v)
}
