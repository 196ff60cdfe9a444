package content

import "encoding/json"

// Item types keep keys they do not model in Extra, see extra.go.

// Product is a generic linked card: leather goods, Shopify apps, SNS accounts.
// PlatformType, ThumbnailURL and Tagline are only set on SNS accounts.
type Product struct {
	Handle       string `json:"handle,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	URL          string `json:"url"`
	Category     string `json:"category"`
	Platform     string `json:"platform,omitempty"`
	PlatformType string `json:"platformType,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Tagline      string `json:"tagline,omitempty"`
	IsFeatured   bool   `json:"isFeatured,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// App is an App Store listing referenced by its numeric track id.
type App struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	IsFeatured bool   `json:"isFeatured,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Video covers YouTube, video production and TikTok entries.
type Video struct {
	ID         string `json:"id,omitempty"`
	URL        string `json:"url"`
	Title      string `json:"title,omitempty"`
	IsFeatured bool   `json:"isFeatured,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Article is an OGP-backed link card (furusato items, note articles).
type Article struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	ImageURL   string `json:"imageUrl"`
	SiteName   string `json:"siteName,omitempty"`
	IsFeatured bool   `json:"isFeatured,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// AudioTrack is an uploaded mp3 with optional cover art.
type AudioTrack struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	CoverImage  string `json:"coverImage,omitempty"`
	IsFeatured  bool   `json:"isFeatured,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}
