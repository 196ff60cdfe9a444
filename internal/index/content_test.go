package index

import (
	"strings"
	"sync"
	"testing"

	"github.com/MrSnakeDoc/folio/internal/content"
)

func TestNewContentIndex(t *testing.T) {
	idx := NewContentIndex()
	if idx == nil {
		t.Fatal("NewContentIndex() returned nil")
	}
	if idx.Loaded() {
		t.Error("NewContentIndex() should start empty")
	}
	if raw, _ := idx.Raw(); raw != nil {
		t.Errorf("Raw() before Update = %q, want nil", raw)
	}
	if !idx.GetLastReload().IsZero() {
		t.Error("GetLastReload() should be zero before the first update")
	}
}

func TestUpdate(t *testing.T) {
	idx := NewContentIndex()
	doc := &content.Document{
		YouTubeVideos: []content.Video{
			{URL: "urlB", IsFeatured: true},
			{URL: "urlA", IsFeatured: true},
		},
		FeaturedOrder: []string{"urlA", "urlB"},
	}

	if err := idx.Update(doc, "rev1"); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	raw, rev := idx.Raw()
	if rev != "rev1" || idx.Revision() != "rev1" {
		t.Errorf("revision = %q, want rev1", rev)
	}
	if !strings.Contains(string(raw), `"featuredOrder"`) {
		t.Errorf("Raw() = %s, missing featuredOrder", raw)
	}

	featured := idx.Featured()
	if len(featured) != 2 || featured[0].Key != "urlA" || featured[1].Key != "urlB" {
		t.Errorf("Featured() = %+v, want urlA then urlB", featured)
	}
	if got := idx.Counts()["youtubeVideos"]; got != 2 {
		t.Errorf("Counts()[youtubeVideos] = %d, want 2", got)
	}
	if idx.GetLastReload().IsZero() {
		t.Error("GetLastReload() not set by Update")
	}
}

func TestUpdateOverwrites(t *testing.T) {
	idx := NewContentIndex()
	_ = idx.Update(&content.Document{PrintImages: []string{"a", "b"}}, "rev1")
	_ = idx.Update(&content.Document{PrintImages: []string{"c"}}, "rev2")

	if n := idx.Counts()["printImages"]; n != 1 || idx.Revision() != "rev2" {
		t.Errorf("Update() should overwrite, got %d print images at %q", n, idx.Revision())
	}
}

func TestUpdateRejectsNil(t *testing.T) {
	idx := NewContentIndex()
	if err := idx.Update(nil, "rev"); err == nil {
		t.Error("Update(nil) should fail")
	}
	if idx.Loaded() {
		t.Error("failed Update() must not store anything")
	}
}

func TestConcurrentAccess(t *testing.T) {
	idx := NewContentIndex()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = idx.Update(&content.Document{}, "rev")
		}()
		go func() {
			defer wg.Done()
			_, _ = idx.Raw()
			_ = idx.Featured()
			_ = idx.Counts()
		}()
	}
	wg.Wait()
}
