package content

import (
	"strings"
	"testing"
)

func TestReduceStripsEmbeddedImages(t *testing.T) {
	embedded := "data:image/png;base64," + strings.Repeat("A", 4096)
	doc := &Document{
		PrintImages:   []string{embedded, "/3d-print/keep.png"},
		FurusatoItems: []Article{{Title: "Rice", URL: "https://example.com", ImageURL: embedded}},
		AudioTracks:   []AudioTrack{{Title: "Song", URL: "/audio/s.mp3", CoverImage: embedded}},
		Settings:      map[string]any{"profileImage": embedded, "featuredIntro": "hello"},
		Hero:          &Hero{Title: "Hi", Image: embedded},
	}

	reduced, n, err := Reduce(doc)
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}
	if n != 5 {
		t.Errorf("Reduce() cleared %d fields, want 5", n)
	}

	if reduced.PrintImages[0] != "" || reduced.PrintImages[1] != "/3d-print/keep.png" {
		t.Errorf("printImages = %v", reduced.PrintImages)
	}
	if reduced.FurusatoItems[0].ImageURL != "" || reduced.FurusatoItems[0].Title != "Rice" {
		t.Errorf("furusatoItems[0] = %+v", reduced.FurusatoItems[0])
	}
	if reduced.AudioTracks[0].CoverImage != "" || reduced.AudioTracks[0].URL != "/audio/s.mp3" {
		t.Errorf("audioTracks[0] = %+v", reduced.AudioTracks[0])
	}
	if reduced.Settings["profileImage"] != "" || reduced.Settings["featuredIntro"] != "hello" {
		t.Errorf("settings = %v", reduced.Settings)
	}
	if reduced.Hero.Image != "" || reduced.Hero.Title != "Hi" {
		t.Errorf("hero = %+v", reduced.Hero)
	}

	// the original is untouched
	if doc.PrintImages[0] != embedded || doc.Hero.Image != embedded {
		t.Error("Reduce() modified its input")
	}
}

func TestReduceNothingToStrip(t *testing.T) {
	doc := &Document{PrintImages: []string{"/a.png"}}
	_, n, err := Reduce(doc)
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Reduce() cleared %d fields, want 0", n)
	}
}
