package proxy

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/folio/internal/logger"
)

// Gallery item types.
const (
	GalleryBase      = "base"
	GalleryInstagram = "instagram"
)

// GalleryItem is one tile of the merged sketch gallery.
type GalleryItem struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	ImageURL string    `json:"imageUrl"`
	URL      string    `json:"url"`
	Date     time.Time `json:"date"`
	Price    *int64    `json:"price"` // always null, galleries hide prices
}

// GallerySources counts how many items each source contributed.
type GallerySources struct {
	Base      int `json:"base"`
	Instagram int `json:"instagram"`
}

// Gallery is the merged response.
type Gallery struct {
	Items   []GalleryItem  `json:"items"`
	Count   int            `json:"count"`
	Sources GallerySources `json:"sources"`
	Success bool           `json:"success"`
}

// SketchMark merges the shop's items and the Instagram feed into one gallery.
type SketchMark struct {
	base *BaseClient
	ig   *Instagram
	log  logger.Logger
	now  func() time.Time
}

// NewSketchMark creates the gallery aggregator. Either source may be nil.
func NewSketchMark(base *BaseClient, ig *Instagram, log logger.Logger) *SketchMark {
	return &SketchMark{base: base, ig: ig, log: log, now: time.Now}
}

// Gallery fetches both sources concurrently. A failing source contributes
// zero items; the call itself does not fail.
func (s *SketchMark) Gallery(ctx context.Context) *Gallery {
	var (
		baseItems []GalleryItem
		igItems   []GalleryItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		baseItems = s.baseItems(gctx)
		return nil
	})
	g.Go(func() error {
		igItems = s.instagramItems(gctx)
		return nil
	})
	_ = g.Wait()

	items := make([]GalleryItem, 0, len(baseItems)+len(igItems))
	items = append(items, baseItems...)
	items = append(items, igItems...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})

	return &Gallery{
		Items:   items,
		Count:   len(items),
		Sources: GallerySources{Base: len(baseItems), Instagram: len(igItems)},
		Success: true,
	}
}

func (s *SketchMark) baseItems(ctx context.Context) []GalleryItem {
	if s.base == nil {
		return nil
	}
	raw, err := s.base.fetch(ctx)
	if err != nil {
		s.log.Warn("sketch gallery: BASE source failed", logger.Error(err))
		return nil
	}

	out := make([]GalleryItem, 0, len(raw))
	for _, it := range raw {
		date := it.date()
		if date.IsZero() {
			date = s.now().UTC()
		}
		out = append(out, GalleryItem{
			ID:       fmt.Sprintf("base-%d", it.ItemID),
			Type:     GalleryBase,
			Title:    it.Title,
			ImageURL: it.image(),
			URL:      fmt.Sprintf("%s/items/%d", s.base.opts.ShopURL, it.ItemID),
			Date:     date,
		})
	}
	return out
}

func (s *SketchMark) instagramItems(ctx context.Context) []GalleryItem {
	if s.ig == nil {
		return nil
	}
	media, err := s.ig.Media(ctx)
	if err != nil {
		s.log.Warn("sketch gallery: Instagram source failed", logger.Error(err))
		return nil
	}

	out := make([]GalleryItem, 0, len(media))
	for _, m := range media {
		out = append(out, GalleryItem{
			ID:       "ig-" + m.ID,
			Type:     GalleryInstagram,
			Title:    m.Title(),
			ImageURL: m.Image(),
			URL:      m.Permalink,
			Date:     m.Time(),
		})
	}
	return out
}
