package datasource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/schikamarun/christmas-cards/internal/domain"
)

var documentExtensions = []string{".json", ".yaml", ".yml"}

// DirSource reads the documents from a directory. Each document may be stored as
// JSON or YAML; the first extension present wins.
type DirSource struct {
	fsys fs.FS
	name string
}

// NewDirSource reads documents from dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{fsys: os.DirFS(dir), name: dir}
}

// NewFSSource reads documents from the root of fsys.
func NewFSSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys, name: "fs"}
}

// Name implements Source.
func (s *DirSource) Name() string { return "dir:" + s.name }

// Collections implements Source.
func (s *DirSource) Collections(ctx context.Context) (domain.CollectionSet, error) {
	var collections domain.CollectionSet
	err := s.read(ctx, DocumentCollections, &collections)
	return collections, err
}

// Recipients implements Source.
func (s *DirSource) Recipients(ctx context.Context) (domain.RecipientDirectory, error) {
	var recipients domain.RecipientDirectory
	err := s.read(ctx, DocumentRecipients, &recipients)
	return recipients, err
}

func (s *DirSource) read(ctx context.Context, document string, v any) error {
	for _, ext := range documentExtensions {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := document + ext
		data, err := fs.ReadFile(s.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		return decodeDocument(name, data, v)
	}
	return fmt.Errorf("%s: %w", document, fs.ErrNotExist)
}
