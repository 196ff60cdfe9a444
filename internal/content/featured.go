package content

import "sort"

// Kind names the collection a featured item came from.
type Kind string

const (
	KindIOS             Kind = "ios"
	KindLeather         Kind = "leather"
	KindShopify         Kind = "shopify"
	KindSNS             Kind = "sns"
	KindYouTube         Kind = "youtube"
	KindFurusato        Kind = "furusato"
	KindVideoProduction Kind = "videoProduction"
	KindNote            Kind = "note"
	KindTikTok          Kind = "tiktok"
	KindAudio           Kind = "audio"
)

// FeaturedItem is one flagged item lifted out of its collection.
// Key is the identifier matched against Document.FeaturedOrder.
type FeaturedItem struct {
	Kind Kind   `json:"type"`
	Key  string `json:"id"`
	Data any    `json:"data"`
}

// Featured collects every item flagged isFeatured, in collection arrival
// order, then orders them by FeaturedOrder. Keys absent from FeaturedOrder
// keep their arrival order after all listed ones.
func Featured(doc *Document) []FeaturedItem {
	if doc == nil {
		return nil
	}
	items := collectFeatured(doc)
	SortByOrder(items, doc.FeaturedOrder)
	return items
}

// SortByOrder stable-sorts items by the position of their Key in order.
func SortByOrder(items []FeaturedItem, order []string) {
	rank := make(map[string]int, len(order))
	for i, key := range order {
		if _, dup := rank[key]; !dup {
			rank[key] = i
		}
	}
	unlisted := len(order)
	pos := func(key string) int {
		if r, ok := rank[key]; ok {
			return r
		}
		return unlisted
	}
	sort.SliceStable(items, func(i, j int) bool {
		return pos(items[i].Key) < pos(items[j].Key)
	})
}

func collectFeatured(doc *Document) []FeaturedItem {
	var items []FeaturedItem
	for _, a := range doc.IOSApps {
		if a.IsFeatured {
			items = append(items, FeaturedItem{Kind: KindIOS, Key: a.ID, Data: a})
		}
	}
	for _, p := range doc.LeatherProducts {
		if p.IsFeatured {
			items = append(items, FeaturedItem{Kind: KindLeather, Key: p.Handle, Data: p})
		}
	}
	items = appendProducts(items, KindShopify, doc.ShopifyApps)
	items = appendProducts(items, KindSNS, doc.SNSAccounts)
	items = appendVideos(items, KindYouTube, doc.YouTubeVideos)
	items = appendArticles(items, KindFurusato, doc.FurusatoItems)
	items = appendVideos(items, KindVideoProduction, doc.VideoProductionVideos)
	items = appendArticles(items, KindNote, doc.NoteArticles)
	items = appendVideos(items, KindTikTok, doc.TikTokItems)
	for _, t := range doc.AudioTracks {
		if t.IsFeatured {
			items = append(items, FeaturedItem{Kind: KindAudio, Key: t.URL, Data: t})
		}
	}
	return items
}

func appendProducts(items []FeaturedItem, kind Kind, products []Product) []FeaturedItem {
	for _, p := range products {
		if p.IsFeatured {
			items = append(items, FeaturedItem{Kind: kind, Key: p.URL, Data: p})
		}
	}
	return items
}

func appendVideos(items []FeaturedItem, kind Kind, videos []Video) []FeaturedItem {
	for _, v := range videos {
		if v.IsFeatured {
			items = append(items, FeaturedItem{Kind: kind, Key: v.URL, Data: v})
		}
	}
	return items
}

func appendArticles(items []FeaturedItem, kind Kind, articles []Article) []FeaturedItem {
	for _, a := range articles {
		if a.IsFeatured {
			items = append(items, FeaturedItem{Kind: kind, Key: a.URL, Data: a})
		}
	}
	return items
}
