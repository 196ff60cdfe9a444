package scaffold

import (
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/folio/internal/content"
)

// Mapper converts a scaffold Config to a content document
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map builds the document. Collections not named in the file stay nil and
// are filled in by the load-time migration.
func (m *Mapper) Map(cfg *Config) (*content.Document, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil scaffold config")
	}

	doc := &content.Document{
		FeaturedOrder: cfg.FeaturedOrder,
		Settings:      cfg.Settings,
	}

	for _, t := range cfg.Tabs {
		if t.ID == "" {
			continue
		}
		doc.Tabs = append(doc.Tabs, content.Tab{ID: t.ID, Label: t.Label})
	}

	if cfg.Hero != nil {
		doc.Hero = &content.Hero{
			Title:       cfg.Hero.Title,
			Description: cfg.Hero.Description,
			Image:       cfg.Hero.Image,
		}
	}

	if cfg.LegalInfo != nil {
		li := content.LegalInfo(*cfg.LegalInfo)
		doc.LegalInfo = &li
	}

	for _, s := range cfg.SNSAccounts {
		if s.URL == "" {
			continue
		}
		doc.SNSAccounts = append(doc.SNSAccounts, content.Product{
			Title:    s.Title,
			URL:      s.URL,
			Platform: s.Platform,
		})
	}

	for _, id := range cfg.IOSApps {
		if id == "" {
			continue
		}
		doc.IOSApps = append(doc.IOSApps, content.App{ID: id})
	}

	for key, raw := range cfg.Extra {
		if !json.Valid([]byte(raw)) {
			return nil, fmt.Errorf("scaffold extra %q is not valid JSON", key)
		}
		if doc.Extra == nil {
			doc.Extra = make(map[string]json.RawMessage, len(cfg.Extra))
		}
		doc.Extra[key] = json.RawMessage(raw)
	}

	return doc, nil
}
