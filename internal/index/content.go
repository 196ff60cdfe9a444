package index

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/folio/internal/content"
)

// ContentIndex holds the last published document served to the public site.
// It acts as the read path when the remote store is slow or unreachable.
type ContentIndex struct {
	mu         sync.RWMutex
	doc        *content.Document
	raw        []byte                 // encoded form of doc, served as-is
	featured   []content.FeaturedItem // precomputed on every update
	revision   string
	lastReload time.Time
}

// NewContentIndex creates an empty index.
func NewContentIndex() *ContentIndex {
	return &ContentIndex{}
}

// Update replaces the snapshot. The document must already be migrated.
func (idx *ContentIndex) Update(doc *content.Document, revision string) error {
	raw, err := content.Encode(doc)
	if err != nil {
		return err
	}
	featured := content.Featured(doc)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.doc = doc
	idx.raw = raw
	idx.featured = featured
	idx.revision = revision
	idx.lastReload = time.Now()
	return nil
}

// Raw returns the encoded snapshot and its revision, or nil before the first load.
func (idx *ContentIndex) Raw() ([]byte, string) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.raw, idx.revision
}

// Featured returns the featured items in display order.
func (idx *ContentIndex) Featured() []content.FeaturedItem {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]content.FeaturedItem, len(idx.featured))
	copy(out, idx.featured)
	return out
}

// Revision returns the remote revision marker of the snapshot.
func (idx *ContentIndex) Revision() string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.revision
}

// Loaded reports whether a snapshot has been stored.
func (idx *ContentIndex) Loaded() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.doc != nil
}

// Counts returns the number of items per collection, for the infra endpoint.
func (idx *ContentIndex) Counts() map[string]int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.doc == nil {
		return nil
	}
	d := idx.doc
	return map[string]int{
		"leatherProducts":       len(d.LeatherProducts),
		"iosApps":               len(d.IOSApps),
		"shopifyApps":           len(d.ShopifyApps),
		"snsAccounts":           len(d.SNSAccounts),
		"youtubeVideos":         len(d.YouTubeVideos),
		"videoProductionVideos": len(d.VideoProductionVideos),
		"tiktokItems":           len(d.TikTokItems),
		"furusatoItems":         len(d.FurusatoItems),
		"noteArticles":          len(d.NoteArticles),
		"audioTracks":           len(d.AudioTracks),
		"printImages":           len(d.PrintImages),
		"featured":              len(idx.featured),
	}
}

// GetLastReload returns the timestamp of the last snapshot update
func (idx *ContentIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
