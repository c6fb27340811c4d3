package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var errCollectionsNotObject = errors.New("domain: collections document must be an object")

// CollectionSet maps collection slugs to collections while remembering the order
// in which slugs were first seen. The order decides the default collection when
// the recipients document does not name one.
type CollectionSet struct {
	slugs []string
	items map[string]Collection
}

// NewCollectionSet returns an empty set.
func NewCollectionSet() CollectionSet {
	return CollectionSet{items: map[string]Collection{}}
}

// Put stores the collection under slug. Re-putting a slug replaces the value but keeps its position.
func (s *CollectionSet) Put(slug string, c Collection) {
	if s.items == nil {
		s.items = map[string]Collection{}
	}
	if _, ok := s.items[slug]; !ok {
		s.slugs = append(s.slugs, slug)
	}
	s.items[slug] = c
}

// Lookup returns the collection stored under slug.
func (s CollectionSet) Lookup(slug string) (Collection, bool) {
	c, ok := s.items[slug]
	return c, ok
}

// First returns the first slug in document order.
func (s CollectionSet) First() (string, bool) {
	if len(s.slugs) == 0 {
		return "", false
	}
	return s.slugs[0], true
}

// Slugs returns a copy of the slugs in document order.
func (s CollectionSet) Slugs() []string {
	out := make([]string, len(s.slugs))
	copy(out, s.slugs)
	return out
}

// Len reports the number of collections.
func (s CollectionSet) Len() int {
	return len(s.slugs)
}

// MarshalJSON writes the set as a JSON object in document order.
func (s CollectionSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, slug := range s.slugs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(slug)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(s.items[slug])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of collections, keeping key order. Entries
// that are not objects, null included, are left out.
func (s *CollectionSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("domain: decode collections: %w", err)
	}
	if tok == nil {
		*s = NewCollectionSet()
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errCollectionsNotObject
	}

	out := NewCollectionSet()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("domain: decode collections: %w", err)
		}
		slug, _ := keyTok.(string)
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("domain: decode collection %q: %w", slug, err)
		}
		fields, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		out.Put(slug, CollectionFromFields(fields))
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("domain: decode collections: %w", err)
	}
	*s = out
	return nil
}

// UnmarshalYAML reads a YAML mapping of collections, keeping key order.
func (s *CollectionSet) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Tag == "!!null" {
		*s = NewCollectionSet()
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return errCollectionsNotObject
	}

	out := NewCollectionSet()
	for i := 0; i+1 < len(node.Content); i += 2 {
		slug := node.Content[i].Value
		if node.Content[i+1].Kind != yaml.MappingNode {
			continue
		}
		var fields map[string]any
		if err := node.Content[i+1].Decode(&fields); err != nil {
			return fmt.Errorf("domain: decode collection %q: %w", slug, err)
		}
		out.Put(slug, CollectionFromFields(fields))
	}
	*s = out
	return nil
}
