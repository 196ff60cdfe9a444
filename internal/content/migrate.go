package content

// Patch brings one aspect of an older document up to the current shape.
// Apply must be idempotent and report whether it changed the document.
type Patch struct {
	Name  string
	Apply func(doc *Document) bool
}

// ReservedTab is a tab the loader guarantees to exist.
type ReservedTab struct {
	Tab
	First bool // insert at the front instead of appending
}

// ReservedTabs lists the well-known tab ids and their default labels.
var ReservedTabs = []ReservedTab{
	{Tab: Tab{ID: "home", Label: "Home"}, First: true},
	{Tab: Tab{ID: "tiktok", Label: "TikTok"}},
	{Tab: Tab{ID: "audio", Label: "Audio"}},
	{Tab: Tab{ID: "videoProduction", Label: "Video Production"}},
}

// legacyLabels maps tab id -> old label -> current label.
var legacyLabels = map[string]map[string]string{
	"3d-printer": {"3D Printer": "3D Prints"},
	"sns":        {"SNS Accounts": "SNS"},
}

// Patches is applied in order by Migrate.
var Patches = []Patch{
	{Name: "ios-app-ids", Apply: migrateIOSAppIDs},
	{Name: "empty-collections", Apply: fillEmptyCollections},
	{Name: "reserved-tabs", Apply: injectReservedTabs},
	{Name: "legacy-labels", Apply: renameLegacyLabels},
}

// Migrate applies every patch in order and returns the names of those that
// changed something. Running it on its own output changes nothing.
func Migrate(doc *Document) []string {
	if doc == nil {
		return nil
	}
	var applied []string
	for _, p := range Patches {
		if p.Apply(doc) {
			applied = append(applied, p.Name)
		}
	}
	return applied
}

func migrateIOSAppIDs(doc *Document) bool {
	if doc.IOSAppIDs == nil {
		return false
	}
	seen := make(map[string]bool, len(doc.IOSApps))
	for _, a := range doc.IOSApps {
		seen[a.ID] = true
	}
	for _, id := range doc.IOSAppIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		doc.IOSApps = append(doc.IOSApps, App{ID: id})
	}
	doc.IOSAppIDs = nil
	return true
}

func fillEmptyCollections(doc *Document) bool {
	changed := false
	fill := func(isNil bool, set func()) {
		if isNil {
			set()
			changed = true
		}
	}

	fill(doc.LeatherProducts == nil, func() { doc.LeatherProducts = []Product{} })
	fill(doc.IOSApps == nil, func() { doc.IOSApps = []App{} })
	fill(doc.ShopifyApps == nil, func() { doc.ShopifyApps = []Product{} })
	fill(doc.SNSAccounts == nil, func() { doc.SNSAccounts = []Product{} })
	fill(doc.YouTubeVideos == nil, func() { doc.YouTubeVideos = []Video{} })
	fill(doc.VideoProductionVideos == nil, func() { doc.VideoProductionVideos = []Video{} })
	fill(doc.TikTokItems == nil, func() { doc.TikTokItems = []Video{} })
	fill(doc.FurusatoItems == nil, func() { doc.FurusatoItems = []Article{} })
	fill(doc.NoteArticles == nil, func() { doc.NoteArticles = []Article{} })
	fill(doc.AudioTracks == nil, func() { doc.AudioTracks = []AudioTrack{} })
	fill(doc.PrintImages == nil, func() { doc.PrintImages = []string{} })
	fill(doc.Tabs == nil, func() { doc.Tabs = []Tab{} })
	fill(doc.FeaturedOrder == nil, func() { doc.FeaturedOrder = []string{} })
	fill(doc.Settings == nil, func() { doc.Settings = map[string]any{} })

	return changed
}

func injectReservedTabs(doc *Document) bool {
	present := make(map[string]bool, len(doc.Tabs))
	for _, t := range doc.Tabs {
		present[t.ID] = true
	}

	changed := false
	for _, rt := range ReservedTabs {
		if present[rt.ID] {
			continue
		}
		if rt.First {
			doc.Tabs = append([]Tab{rt.Tab}, doc.Tabs...)
		} else {
			doc.Tabs = append(doc.Tabs, rt.Tab)
		}
		present[rt.ID] = true
		changed = true
	}
	return changed
}

func renameLegacyLabels(doc *Document) bool {
	changed := false
	for i, t := range doc.Tabs {
		renames, ok := legacyLabels[t.ID]
		if !ok {
			continue
		}
		if label, ok := renames[t.Label]; ok {
			doc.Tabs[i].Label = label
			changed = true
		}
	}
	return changed
}
