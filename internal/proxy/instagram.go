package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultInstagramURL is the Instagram Graph API root.
const DefaultInstagramURL = "https://graph.instagram.com"

const instagramFields = "id,caption,media_type,media_url,permalink,timestamp,thumbnail_url"

// ErrMissingToken is returned when a client has no access token configured.
var ErrMissingToken = errors.New("access token not configured")

// Media is one post from the account's media feed.
type Media struct {
	ID           string `json:"id"`
	Caption      string `json:"caption"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url"`
	Permalink    string `json:"permalink"`
	Timestamp    string `json:"timestamp"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Image returns the still image for the post; videos use their thumbnail.
func (m Media) Image() string {
	if m.MediaType == "VIDEO" {
		return m.ThumbnailURL
	}
	return m.MediaURL
}

// Time parses the post timestamp, zero when absent or malformed.
func (m Media) Time() time.Time {
	for _, layout := range []string{"2006-01-02T15:04:05-0700", time.RFC3339} {
		if t, err := time.Parse(layout, m.Timestamp); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// Title is the first caption line cut to 50 characters, or "Sketch".
func (m Media) Title() string {
	if m.Caption == "" {
		return "Sketch"
	}
	line, _, _ := strings.Cut(m.Caption, "\n")
	if r := []rune(line); len(r) > 50 {
		return string(r[:50])
	}
	return line
}

// Instagram reads the media feed of the account owning the token.
type Instagram struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewInstagram creates a feed client. An empty baseURL uses DefaultInstagramURL.
func NewInstagram(client *http.Client, baseURL, token string) *Instagram {
	if baseURL == "" {
		baseURL = DefaultInstagramURL
	}
	return &Instagram{client: client, baseURL: strings.TrimRight(baseURL, "/"), token: token}
}

// Media returns the most recent posts.
func (ig *Instagram) Media(ctx context.Context) ([]Media, error) {
	if ig.token == "" {
		return nil, ErrMissingToken
	}

	q := url.Values{}
	q.Set("fields", instagramFields)
	q.Set("access_token", ig.token)

	body, err := get(ctx, ig.client, ig.baseURL+"/me/media?"+q.Encode(), nil)
	if err != nil && StatusOf(err) == 0 {
		observe("instagram", err)
		return nil, err
	}

	// the Graph API reports failures in the body, often with a 4xx status
	var resp struct {
		Data  []Media `json:"data"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		body = []byte(ue.Body)
	}
	if jsonErr := json.Unmarshal(body, &resp); jsonErr != nil && err == nil {
		err = fmt.Errorf("failed to decode media: %w", jsonErr)
	}
	if resp.Error != nil {
		err = fmt.Errorf("instagram API error: %s", resp.Error.Message)
	}
	observe("instagram", err)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
