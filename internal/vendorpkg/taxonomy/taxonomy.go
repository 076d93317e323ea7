// Package taxonomy exposes the static business-category table shared by the
// vendor onboarding wizard and the admin category-label lookups.
package taxonomy

import (
	_ "embed"
	"encoding/json"
	"log"
)

//go:embed vendorcat.json
var rawCategories []byte

// Option is one selectable category.
type Option struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

var (
	options []Option
	byID    map[string]string
)

func init() {
	var doc struct {
		Categories map[string][]struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(rawCategories, &doc); err != nil {
		log.Fatalf("taxonomy: invalid embedded vendorcat.json: %v", err)
	}

	byID = make(map[string]string)
	for group, cats := range doc.Categories {
		for _, c := range cats {
			options = append(options, Option{ID: c.ID, Name: c.Name, Group: group})
			byID[c.ID] = c.Name
		}
	}
}

// Options returns every category in the grouped table.
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// IsValid reports whether id is a known category.
func IsValid(id string) bool {
	_, ok := byID[id]
	return ok
}

// Name returns the display name for id, falling back to "Uncategorized" for
// unknown or empty ids.
func Name(id string) string {
	if name, ok := byID[id]; ok {
		return name
	}
	if id == "" {
		return "Uncategorized"
	}
	return id
}
