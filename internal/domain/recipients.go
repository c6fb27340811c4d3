package domain

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// RecipientDirectory is the recipients document: a default collection slug plus
// recipient groups keyed by collection slug, then recipient slug.
type RecipientDirectory struct {
	DefaultCollection string
	ByCollection      map[string]map[string]Recipient
}

// Group returns the recipients of the named collection. A present but empty group reports ok.
func (d RecipientDirectory) Group(collectionSlug string) (map[string]Recipient, bool) {
	group, ok := d.ByCollection[collectionSlug]
	return group, ok
}

// Put stores a recipient, creating its group when needed.
func (d *RecipientDirectory) Put(collectionSlug, recipientSlug string, r Recipient) {
	if d.ByCollection == nil {
		d.ByCollection = map[string]map[string]Recipient{}
	}
	group, ok := d.ByCollection[collectionSlug]
	if !ok {
		group = map[string]Recipient{}
		d.ByCollection[collectionSlug] = group
	}
	group[recipientSlug] = r
}

// RecipientDirectoryFromFields builds a directory from a loosely typed document
// shaped as {"defaultCollection": slug, "recipients": {collection: {recipient: {...}}}}.
// Groups and recipients that are not objects, null included, are left out.
func RecipientDirectoryFromFields(fields map[string]any) RecipientDirectory {
	dir := RecipientDirectory{
		DefaultCollection: stringField(fields, "defaultCollection"),
		ByCollection:      map[string]map[string]Recipient{},
	}
	groups, _ := fields["recipients"].(map[string]any)
	for collectionSlug, rawGroup := range groups {
		members, ok := rawGroup.(map[string]any)
		if !ok {
			continue
		}
		group := make(map[string]Recipient, len(members))
		for recipientSlug, rawRecipient := range members {
			recipientFields, ok := rawRecipient.(map[string]any)
			if !ok {
				continue
			}
			group[recipientSlug] = RecipientFromFields(recipientFields)
		}
		dir.ByCollection[collectionSlug] = group
	}
	return dir
}

type recipientDirectoryWire struct {
	DefaultCollection string                          `json:"defaultCollection,omitempty"`
	Recipients        map[string]map[string]Recipient `json:"recipients"`
}

// MarshalJSON writes the directory in the recipients document shape.
func (d RecipientDirectory) MarshalJSON() ([]byte, error) {
	groups := d.ByCollection
	if groups == nil {
		groups = map[string]map[string]Recipient{}
	}
	return json.Marshal(recipientDirectoryWire{
		DefaultCollection: d.DefaultCollection,
		Recipients:        groups,
	})
}

// UnmarshalJSON reads the recipients document leniently: fields of the wrong type are ignored.
func (d *RecipientDirectory) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("domain: decode recipients: %w", err)
	}
	*d = RecipientDirectoryFromFields(fields)
	return nil
}

// UnmarshalYAML reads the recipients document from YAML.
func (d *RecipientDirectory) UnmarshalYAML(node *yaml.Node) error {
	var fields map[string]any
	if err := node.Decode(&fields); err != nil {
		return fmt.Errorf("domain: decode recipients: %w", err)
	}
	*d = RecipientDirectoryFromFields(fields)
	return nil
}
