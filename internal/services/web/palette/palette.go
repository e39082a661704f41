// Package palette holds the command palette catalog: the navigation targets
// and actions a user can run from the Mod+K dialog.
package palette

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Action is what running an item does besides navigating to its href.
type Action string

const (
	ActionNavigate     Action = ""
	ActionOpenFeedback Action = "open-feedback"
)

// Item is one runnable palette entry. Label is the canonical text recorded
// in the command history; LabelKey localizes it for display.
type Item struct {
	ID       string `yaml:"id"`
	Label    string `yaml:"label"`
	LabelKey string `yaml:"label_key"`
	Shortcut string `yaml:"shortcut"`
	Icon     string `yaml:"icon"`
	Href     string `yaml:"href"`
	Action   Action `yaml:"action"`
}

// Group is a headed run of items.
type Group struct {
	ID         string `yaml:"id"`
	HeadingKey string `yaml:"heading_key"`
	Items      []Item `yaml:"items"`
}

// Catalog is the ordered palette content.
type Catalog struct {
	Groups []Group `yaml:"groups"`
}

// Load parses the embedded catalog.
func Load() (Catalog, error) {
	return Parse(embeddedCatalog)
}

// MustLoad is Load for package initialization; the embedded catalog is
// covered by tests.
func MustLoad() Catalog {
	catalog, err := Load()
	if err != nil {
		panic(err)
	}
	return catalog
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("parse palette catalog: %w", err)
	}
	if err := catalog.validate(); err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

func (c Catalog) validate() error {
	if len(c.Groups) == 0 {
		return fmt.Errorf("palette catalog has no groups")
	}
	ids := map[string]bool{}
	labels := map[string]bool{}
	for _, group := range c.Groups {
		if strings.TrimSpace(group.ID) == "" {
			return fmt.Errorf("palette group id is required")
		}
		for _, item := range group.Items {
			switch {
			case strings.TrimSpace(item.ID) == "":
				return fmt.Errorf("palette group %s: item id is required", group.ID)
			case ids[item.ID]:
				return fmt.Errorf("palette item %s: duplicate id", item.ID)
			case strings.TrimSpace(item.Label) == "":
				return fmt.Errorf("palette item %s: label is required", item.ID)
			case labels[item.Label]:
				return fmt.Errorf("palette item %s: duplicate label %q", item.ID, item.Label)
			case !strings.HasPrefix(item.Href, "/"):
				return fmt.Errorf("palette item %s: href must be an absolute path", item.ID)
			}
			switch item.Action {
			case ActionNavigate, ActionOpenFeedback:
			default:
				return fmt.Errorf("palette item %s: unknown action %q", item.ID, item.Action)
			}
			ids[item.ID] = true
			labels[item.Label] = true
		}
	}
	return nil
}

// Item looks an item up by id.
func (c Catalog) Item(id string) (Item, bool) {
	id = strings.TrimSpace(id)
	for _, group := range c.Groups {
		for _, item := range group.Items {
			if item.ID == id {
				return item, true
			}
		}
	}
	return Item{}, false
}

// ByLabel looks an item up by its canonical label.
func (c Catalog) ByLabel(label string) (Item, bool) {
	for _, group := range c.Groups {
		for _, item := range group.Items {
			if item.Label == label {
				return item, true
			}
		}
	}
	return Item{}, false
}

// Filter keeps the items whose label contains query, ignoring case, and
// drops groups left empty. A blank query returns the whole catalog.
func (c Catalog) Filter(query string) []Group {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Group, 0, len(c.Groups))
	for _, group := range c.Groups {
		kept := Group{ID: group.ID, HeadingKey: group.HeadingKey}
		for _, item := range group.Items {
			if query == "" || strings.Contains(strings.ToLower(item.Label), query) {
				kept.Items = append(kept.Items, item)
			}
		}
		if len(kept.Items) > 0 {
			out = append(out, kept)
		}
	}
	return out
}

// Recent maps command history onto catalog items, most recent first.
// History entries with no matching item are skipped.
func (c Catalog) Recent(history []string) []Item {
	out := make([]Item, 0, len(history))
	for _, label := range history {
		if item, ok := c.ByLabel(label); ok {
			out = append(out, item)
		}
	}
	return out
}
