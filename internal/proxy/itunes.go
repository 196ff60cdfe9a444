package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DefaultITunesURL is the public App Store lookup API.
const DefaultITunesURL = "https://itunes.apple.com/lookup"

// AppLookup proxies the App Store lookup API for a single app id.
type AppLookup struct {
	client  *http.Client
	baseURL string
	country string
}

// ErrInvalidAppID is returned for ids that are not purely numeric.
var ErrInvalidAppID = errors.New("invalid app id")

// NewAppLookup creates a lookup client for the given storefront country.
// An empty baseURL uses DefaultITunesURL.
func NewAppLookup(client *http.Client, baseURL, country string) *AppLookup {
	if baseURL == "" {
		baseURL = DefaultITunesURL
	}
	if country == "" {
		country = "jp"
	}
	return &AppLookup{client: client, baseURL: baseURL, country: country}
}

// Lookup returns the upstream JSON untouched.
func (a *AppLookup) Lookup(ctx context.Context, id string) (json.RawMessage, error) {
	if id == "" || strings.TrimLeft(id, "0123456789") != "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAppID, id)
	}

	q := url.Values{}
	q.Set("id", id)
	q.Set("country", a.country)
	q.Set("entity", "software")

	body, err := get(ctx, a.client, a.baseURL+"?"+q.Encode(), nil)
	observe("apps", err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data from iTunes API: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("iTunes API returned invalid JSON")
	}
	return json.RawMessage(body), nil
}
