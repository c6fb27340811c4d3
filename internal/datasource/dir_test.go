package datasource

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func TestDirSourceReadsJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "collections.yaml"), "zeta:\n  title: Z\nalpha:\n  title: A\n  defaultTheme: Midnight\n")
	writeFile(t, filepath.Join(dir, "recipients.json"), `{"defaultCollection":"alpha","recipients":{"alpha":{"ben":{"name":"Ben"}}}}`)

	store, err := Load(context.Background(), NewDirSource(dir))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := strings.Join(store.Collections.Slugs(), ","); got != "zeta,alpha" {
		t.Fatalf("expected YAML order, got %s", got)
	}
	alpha, _ := store.Collections.Lookup("alpha")
	if alpha.DefaultTheme != "Midnight" {
		t.Fatalf("unexpected alpha %+v", alpha)
	}
	if store.Recipients.ByCollection["alpha"]["ben"].Name != "Ben" {
		t.Fatalf("unexpected recipients %+v", store.Recipients)
	}
}

func TestDirSourcePrefersJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"collections.json": {Data: []byte(`{"json":{}}`)},
		"collections.yml":  {Data: []byte("yaml: {}\n")},
	}
	collections, err := NewFSSource(fsys).Collections(context.Background())
	if err != nil {
		t.Fatalf("Collections: %v", err)
	}
	if _, ok := collections.Lookup("json"); !ok {
		t.Fatalf("expected JSON document, got %v", collections.Slugs())
	}
}

func TestDirSourceMissingDocument(t *testing.T) {
	_, err := NewFSSource(fstest.MapFS{}).Recipients(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
