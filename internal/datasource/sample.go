package datasource

import (
	"context"
	"embed"

	"github.com/schikamarun/christmas-cards/internal/domain"
)

//go:embed sample/collections.json sample/recipients.json
var sampleFS embed.FS

// Sample returns a fresh copy of the embedded sample store.
func Sample() domain.DataStore {
	var store domain.DataStore
	mustDecodeSample("sample/collections.json", &store.Collections)
	mustDecodeSample("sample/recipients.json", &store.Recipients)
	return store
}

func mustDecodeSample(name string, v any) {
	data, err := sampleFS.ReadFile(name)
	if err != nil {
		panic("datasource: embedded sample missing: " + err.Error())
	}
	if err := decodeDocument(name, data, v); err != nil {
		panic("datasource: embedded sample invalid: " + err.Error())
	}
}

// SampleSource serves the embedded sample. It never fails.
type SampleSource struct{}

// Name implements Source.
func (SampleSource) Name() string { return "sample" }

// Collections implements Source.
func (SampleSource) Collections(context.Context) (domain.CollectionSet, error) {
	return Sample().Collections, nil
}

// Recipients implements Source.
func (SampleSource) Recipients(context.Context) (domain.RecipientDirectory, error) {
	return Sample().Recipients, nil
}
