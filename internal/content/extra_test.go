package content

import (
	"encoding/json"
	"strings"
	"testing"
)

const snsDoc = `{
  "snsAccounts": [
    {
      "title": "Instagram",
      "description": "daily leather work",
      "url": "https://instagram.com/shop",
      "category": "sns",
      "platformType": "instagram",
      "thumbnailUrl": "https://img/a.png",
      "tagline": "hi",
      "followers": 1200
    }
  ],
  "tabs": [{"id": "sns", "label": "SNS", "hidden": false}],
  "hero": {"title": "Hello", "description": "", "badge": "new"}
}`

// reencode runs one full load cycle and decodes the result into a generic map.
func reencode(t *testing.T, in string) map[string]any {
	t.Helper()
	doc := mustDecode(t, in)
	Migrate(doc)
	var out map[string]any
	if err := json.Unmarshal(mustEncode(t, doc), &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return out
}

func TestItemFieldsSurviveRoundTrip(t *testing.T) {
	out := reencode(t, snsDoc)

	sns := out["snsAccounts"].([]any)[0].(map[string]any)
	want := map[string]any{
		"platformType": "instagram",
		"thumbnailUrl": "https://img/a.png",
		"tagline":      "hi",
		"followers":    float64(1200),
	}
	for k, v := range want {
		if sns[k] != v {
			t.Errorf("snsAccounts[0].%s = %v, want %v", k, sns[k], v)
		}
	}

	tab := out["tabs"].([]any)[0].(map[string]any)
	if hidden, ok := tab["hidden"]; !ok || hidden != false {
		t.Errorf("tabs[0].hidden = %v, present %v", hidden, ok)
	}
	if hero := out["hero"].(map[string]any); hero["badge"] != "new" {
		t.Errorf("hero.badge = %v, want new", hero["badge"])
	}
}

func TestItemExtrasCannotShadowFields(t *testing.T) {
	p := Product{Title: "Wallet", Extra: map[string]json.RawMessage{
		"title": json.RawMessage(`"stale"`),
		"color": json.RawMessage(`"brown"`),
	}}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(b), `"title":"Wallet"`) || !strings.Contains(string(b), `"color":"brown"`) {
		t.Errorf("Marshal() = %s", b)
	}
}

func TestEmptyLegacyIDsSettle(t *testing.T) {
	doc := mustDecode(t, `{"iosAppIds": []}`)
	if doc.Extra != nil {
		t.Errorf("Extra = %v, want iosAppIds recognised as a field", doc.Extra)
	}
	Migrate(doc)
	once := mustEncode(t, doc)
	if strings.Contains(string(once), "iosAppIds") {
		t.Errorf("legacy key still present:\n%s", once)
	}

	again := mustDecode(t, string(once))
	if applied := Migrate(again); len(applied) != 0 {
		t.Errorf("second Migrate() applied %v, want none", applied)
	}
}

func TestReduceClearsEmbeddedThumbnail(t *testing.T) {
	embedded := "data:image/jpeg;base64,/9j/4AAQ"
	doc := &Document{SNSAccounts: []Product{{Title: "X", URL: "https://x.com/a", ThumbnailURL: embedded, Tagline: "keep"}}}

	reduced, n, err := Reduce(doc)
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}
	if n != 1 || reduced.SNSAccounts[0].ThumbnailURL != "" || reduced.SNSAccounts[0].Tagline != "keep" {
		t.Errorf("Reduce() = %d, %+v", n, reduced.SNSAccounts[0])
	}
}
