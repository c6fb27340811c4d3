// Package datasource loads the two card documents (collections and recipients) from the
// configured backend and substitutes the embedded sample when loading fails.
package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/schikamarun/christmas-cards/internal/domain"
	"github.com/schikamarun/christmas-cards/internal/services"
)

// Document names, also used as file and object base names.
const (
	DocumentCollections = "collections"
	DocumentRecipients  = "recipients"
)

const meterName = "github.com/schikamarun/christmas-cards/internal/datasource"

// Source supplies the two card documents.
type Source interface {
	Name() string
	Collections(ctx context.Context) (domain.CollectionSet, error)
	Recipients(ctx context.Context) (domain.RecipientDirectory, error)
}

// LoadError reports which document of which source failed to load.
type LoadError struct {
	Source   string
	Document string
	Err      error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("datasource %s: load %s: %v", e.Source, e.Document, e.Err)
}

// Unwrap exposes the underlying error.
func (e *LoadError) Unwrap() error { return e.Err }

// Load fetches both documents concurrently. The first failure cancels the other fetch
// and no partial store is returned.
func Load(ctx context.Context, src Source) (domain.DataStore, error) {
	g, gctx := errgroup.WithContext(ctx)

	var store domain.DataStore
	g.Go(func() error {
		collections, err := src.Collections(gctx)
		if err != nil {
			return &LoadError{Source: src.Name(), Document: DocumentCollections, Err: err}
		}
		store.Collections = collections
		return nil
	})
	g.Go(func() error {
		recipients, err := src.Recipients(gctx)
		if err != nil {
			return &LoadError{Source: src.Name(), Document: DocumentRecipients, Err: err}
		}
		store.Recipients = recipients
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.DataStore{}, err
	}
	return store, nil
}

// OrSample returns store when err is nil and the embedded sample otherwise.
func OrSample(store domain.DataStore, err error) (domain.DataStore, services.DataOrigin) {
	if err != nil {
		return Sample(), services.DataOriginSample
	}
	return store, services.DataOriginRemote
}

// LoadOrSample loads src and falls back to the embedded sample on any failure. The
// substitution is logged and counted; it is never returned as an error.
func LoadOrSample(ctx context.Context, src Source, logger *zap.Logger) (domain.DataStore, services.DataOrigin) {
	if logger == nil {
		logger = zap.NewNop()
	}
	store, err := Load(ctx, src)
	if err != nil {
		logger.Warn("datasource: using embedded sample data",
			zap.String("source", src.Name()),
			zap.Error(err),
		)
		recordFallback(ctx, src.Name())
	}
	return OrSample(store, err)
}

func recordFallback(ctx context.Context, source string) {
	counter, err := otel.GetMeterProvider().Meter(meterName).Int64Counter(
		"cards.datasource.fallbacks",
		metric.WithDescription("Count of loads that fell back to the embedded sample"),
	)
	if err != nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

// decodeDocument decodes data as YAML when name carries a YAML extension and as JSON otherwise.
func decodeDocument(name string, data []byte, v any) error {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}
	}
	return nil
}
