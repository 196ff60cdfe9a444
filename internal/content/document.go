package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidDocument is returned when raw bytes cannot be decoded as a Document.
var ErrInvalidDocument = errors.New("invalid content document")

// Document is the single aggregate describing all site content and settings.
// Top-level keys that this package does not know about are kept in Extra and
// written back unchanged.
type Document struct {
	LeatherProducts       []Product      `json:"leatherProducts"`
	IOSApps               []App          `json:"iosApps"`
	IOSAppIDs             []string       `json:"iosAppIds,omitempty"` // legacy, see migrateIOSAppIDs
	ShopifyApps           []Product      `json:"shopifyApps"`
	SNSAccounts           []Product      `json:"snsAccounts"`
	YouTubeVideos         []Video        `json:"youtubeVideos"`
	VideoProductionVideos []Video        `json:"videoProductionVideos"`
	TikTokItems           []Video        `json:"tiktokItems"`
	FurusatoItems         []Article      `json:"furusatoItems"`
	NoteArticles          []Article      `json:"noteArticles"`
	AudioTracks           []AudioTrack   `json:"audioTracks"`
	PrintImages           []string       `json:"printImages"`
	Tabs                  []Tab          `json:"tabs"`
	FeaturedOrder         []string       `json:"featuredOrder"`
	Settings              map[string]any `json:"settings"`
	Hero                  *Hero          `json:"hero,omitempty"`
	LegalInfo             *LegalInfo     `json:"legalInfo,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Tab is one entry of the public site's tab bar.
type Tab struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Hero is the headline block at the top of the public site.
type Hero struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// LegalInfo backs the commercial-transactions disclosure page.
type LegalInfo struct {
	BusinessName string `json:"businessName"`
	ContactEmail string `json:"contactEmail"`
	AddressInfo  string `json:"addressInfo"`
	ShippingInfo string `json:"shippingInfo"`
	ReturnPolicy string `json:"returnPolicy"`

	Extra map[string]json.RawMessage `json:"-"`
}

// documentFields drops the custom (un)marshalers so the struct can be encoded
// field by field.
type documentFields Document

// UnmarshalJSON decodes the known fields and stashes everything else in Extra.
func (d *Document) UnmarshalJSON(b []byte) error {
	var f documentFields
	extra, err := decodeWithExtra(b, &f)
	if err != nil {
		return err
	}
	*d = Document(f)
	d.Extra = extra
	return nil
}

// MarshalJSON encodes known fields and Extra together.
func (d Document) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(documentFields(d), d.Extra)
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses raw JSON into a Document. Anything that is not a JSON object
// is rejected with ErrInvalidDocument.
func Decode(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: not a JSON object", ErrInvalidDocument)
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// Encode renders the document as formatted JSON (2-space indent, trailing
// newline), the form stored both remotely and in the draft cache.
func Encode(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrInvalidDocument)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy made through an encode/decode round trip.
func (d *Document) Clone() (*Document, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to clone document: %w", err)
	}
	return Decode(b)
}
