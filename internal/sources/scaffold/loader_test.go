package scaffold

import (
	"os"
	"path/filepath"
	"testing"
)

const scaffoldYAML = `---
hero:
  title: Hello
  description: Maker of small things
tabs:
  - id: leather
    label: Leather
  - id: 3d-printer
    label: 3D Printer
  - id: ""
    label: skipped
settings:
  contactEmail: "{{CONTACT_EMAIL}}"
legalInfo:
  businessName: Studio
  contactEmail: "{{FOLIO_VAR_CONTACT_EMAIL}}"
snsAccounts:
  - platform: instagram
    title: Instagram
    url: https://instagram.com/me
iosApps: ["123", ""]
extra:
  visitorCounter: '{"enabled":true}'
`

func writeScaffold(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scaffold.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	loader := NewLoader(writeScaffold(t, scaffoldYAML))
	loader.getenv = func(k string) string {
		if k == "FOLIO_VAR_CONTACT_EMAIL" {
			return "me@example.com"
		}
		return ""
	}

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Hero == nil || cfg.Hero.Title != "Hello" {
		t.Errorf("hero = %+v", cfg.Hero)
	}
	if cfg.Settings["contactEmail"] != "me@example.com" {
		t.Errorf("settings.contactEmail = %v, want expanded variable", cfg.Settings["contactEmail"])
	}
	if cfg.LegalInfo.ContactEmail != "me@example.com" {
		t.Errorf("legalInfo.contactEmail = %q, prefixed form not expanded", cfg.LegalInfo.ContactEmail)
	}
}

func TestLoaderUnknownVariableExpandsEmpty(t *testing.T) {
	loader := NewLoader(writeScaffold(t, "settings:\n  token: \"{{NOPE}}\"\n"))
	loader.getenv = func(string) string { return "" }

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Settings["token"] != "" {
		t.Errorf("token = %v, want empty", cfg.Settings["token"])
	}
}

func TestLoaderMissingFile(t *testing.T) {
	if _, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load(); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestLoaderDocument(t *testing.T) {
	loader := NewLoader(writeScaffold(t, scaffoldYAML))
	loader.getenv = func(string) string { return "" }

	doc, err := loader.Document()
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}

	if len(doc.Tabs) != 2 || doc.Tabs[1].Label != "3D Printer" {
		t.Errorf("tabs = %+v", doc.Tabs)
	}
	if len(doc.SNSAccounts) != 1 || doc.SNSAccounts[0].Platform != "instagram" {
		t.Errorf("snsAccounts = %+v", doc.SNSAccounts)
	}
	if len(doc.IOSApps) != 1 || doc.IOSApps[0].ID != "123" {
		t.Errorf("iosApps = %+v", doc.IOSApps)
	}
	if string(doc.Extra["visitorCounter"]) != `{"enabled":true}` {
		t.Errorf("extra = %s", doc.Extra["visitorCounter"])
	}
	if doc.LegalInfo == nil || doc.LegalInfo.BusinessName != "Studio" {
		t.Errorf("legalInfo = %+v", doc.LegalInfo)
	}
}

func TestMapperRejectsInvalidExtra(t *testing.T) {
	_, err := NewMapper().Map(&Config{Extra: map[string]string{"x": "{not json"}})
	if err == nil {
		t.Error("Map() should reject invalid extra JSON")
	}
}
