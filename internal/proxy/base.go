package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// Default BASE API endpoints.
const (
	DefaultBaseAPIURL  = "https://api.thebase.in"
	DefaultBaseShopURL = "https://sketchmark.thebase.in"
)

// Error codes returned by the commerce items endpoint.
const (
	CodeMissingCredentials  = "MISSING_CREDENTIALS"
	CodeMissingRefreshToken = "MISSING_REFRESH_TOKEN"
	CodeAuthFailed          = "AUTH_FAILED"
	CodeFetchFailed         = "FETCH_FAILED"
)

// CodedError carries a machine-readable code next to the failure.
type CodedError struct {
	Code string
	Err  error
}

func (e *CodedError) Error() string { return e.Code + ": " + e.Err.Error() }
func (e *CodedError) Unwrap() error { return e.Err }

// CodeOf returns the code carried by err, or "".
func CodeOf(err error) string {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// BaseOptions configures the BASE shop client.
type BaseOptions struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	APIURL       string // defaults to DefaultBaseAPIURL
	ShopURL      string // defaults to DefaultBaseShopURL
	Limit        int    // items per request, defaults to 20
}

// Item is a visible shop item as served to the site.
type Item struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Price    int64  `json:"price"`
	ImageURL string `json:"imageUrl"`
	URL      string `json:"url"`
}

// baseItem is the subset of the upstream item record that is read.
type baseItem struct {
	ItemID     int64     `json:"item_id"`
	Title      string    `json:"title"`
	Price      int64     `json:"price"`
	Img1640    string    `json:"img1_640"`
	Img1Origin string    `json:"img1_origin"`
	ItemURL    string    `json:"item_url"`
	Visible    flag      `json:"visible"`
	Modified   timestamp `json:"modified"`
	Created    timestamp `json:"created"`
}

func (b baseItem) image() string {
	if b.Img1640 != "" {
		return b.Img1640
	}
	return b.Img1Origin
}

func (b baseItem) date() time.Time {
	if !b.Modified.IsZero() {
		return b.Modified.Time
	}
	return b.Created.Time
}

// flag accepts 1/0 as well as true/false.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "1", "true":
		*f = true
	default:
		*f = false
	}
	return nil
}

// timestamp accepts unix seconds, a numeric string, RFC 3339 or
// "2006-01-02 15:04:05".
type timestamp struct{ time.Time }

func (t *timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		t.Time = time.Unix(int64(v), 0).UTC()
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			t.Time = time.Unix(n, 0).UTC()
			return nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, v); err == nil {
				t.Time = parsed.UTC()
				return nil
			}
		}
	}
	return nil
}

// BaseClient reads the shop's item list with a refresh-token grant.
type BaseClient struct {
	client *http.Client
	opts   BaseOptions

	mu      sync.Mutex
	refresh string // latest refresh token, rotated by the server
}

// NewBaseClient creates a BASE client. Missing credentials are reported when
// Items is called, not here.
func NewBaseClient(client *http.Client, opts BaseOptions) *BaseClient {
	if opts.APIURL == "" {
		opts.APIURL = DefaultBaseAPIURL
	}
	if opts.ShopURL == "" {
		opts.ShopURL = DefaultBaseShopURL
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	return &BaseClient{client: client, opts: opts, refresh: opts.RefreshToken}
}

// token exchanges the refresh token for a fresh access token on every call,
// bound to ctx. A refresh token rotated by the server replaces the current one.
func (c *BaseClient) token(ctx context.Context) (*oauth2.Token, error) {
	cfg := &oauth2.Config{
		ClientID:     c.opts.ClientID,
		ClientSecret: c.opts.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.opts.APIURL + "/1/oauth/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	c.mu.Lock()
	refresh := c.refresh
	c.mu.Unlock()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.client)
	tok, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refresh}).Token()
	if err != nil {
		return nil, err
	}

	if tok.RefreshToken != "" && tok.RefreshToken != refresh {
		c.mu.Lock()
		c.refresh = tok.RefreshToken
		c.mu.Unlock()
	}
	return tok, nil
}

// Items returns the visible shop items.
func (c *BaseClient) Items(ctx context.Context) ([]Item, error) {
	raw, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(raw))
	for _, it := range raw {
		items = append(items, Item{
			ID:       it.ItemID,
			Title:    it.Title,
			Price:    it.Price,
			ImageURL: it.image(),
			URL:      it.ItemURL,
		})
	}
	return items, nil
}

func (c *BaseClient) fetch(ctx context.Context) ([]baseItem, error) {
	if c.opts.ClientID == "" || c.opts.ClientSecret == "" {
		return nil, &CodedError{Code: CodeMissingCredentials, Err: errors.New("BASE client id and secret are not configured")}
	}
	if c.opts.RefreshToken == "" {
		return nil, &CodedError{Code: CodeMissingRefreshToken, Err: errors.New("BASE refresh token is not configured")}
	}

	tok, err := c.token(ctx)
	if err != nil {
		observe("base", err)
		return nil, &CodedError{Code: CodeAuthFailed, Err: fmt.Errorf("failed to authenticate with BASE: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/1/items?limit=%d", c.opts.APIURL, c.opts.Limit), nil)
	if err != nil {
		return nil, &CodedError{Code: CodeFetchFailed, Err: err}
	}
	tok.SetAuthHeader(req)

	body, err := do(c.client, req)
	observe("base", err)
	if err != nil {
		return nil, &CodedError{Code: CodeFetchFailed, Err: fmt.Errorf("failed to fetch items: %w", err)}
	}

	var resp struct {
		Items []baseItem `json:"items"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &CodedError{Code: CodeFetchFailed, Err: fmt.Errorf("failed to decode items: %w", err)}
	}

	visible := resp.Items[:0]
	for _, it := range resp.Items {
		if it.Visible {
			visible = append(visible, it)
		}
	}
	return visible, nil
}
