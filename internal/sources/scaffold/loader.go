// Package scaffold reads the YAML file used to seed the content document when
// the remote store has none yet.
package scaffold

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/folio/internal/content"
)

// templateVar matches {{FOLIO_VAR_NAME}} placeholders
var templateVar = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Loader handles loading and parsing of the scaffold file
type Loader struct {
	filePath string
	getenv   func(string) string
}

// NewLoader creates a new scaffold loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
		getenv:   os.Getenv,
	}
}

// Load reads and parses the scaffold file
func (l *Loader) Load() (*Config, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scaffold file: %w", err)
	}

	data = l.expandTemplateVariables(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scaffold yaml: %w", err)
	}

	return &cfg, nil
}

// Document loads the file and maps it to a content document.
// It matches pipeline.ScaffoldFunc.
func (l *Loader) Document() (*content.Document, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}
	return NewMapper().Map(cfg)
}

// expandTemplateVariables replaces {{NAME}} with the value of the FOLIO_VAR_
// prefixed environment variable. Unknown names expand to "".
// Example: {{CONTACT_EMAIL}} -> $FOLIO_VAR_CONTACT_EMAIL
func (l *Loader) expandTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAllFunc(data, func(m []byte) []byte {
		name := string(templateVar.FindSubmatch(m)[1])
		name = strings.TrimPrefix(name, "FOLIO_VAR_")
		return []byte(l.getenv("FOLIO_VAR_" + name))
	})
}
