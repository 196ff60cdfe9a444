package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDir(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		contentType string
		want        string
	}{
		{"mpeg type", "track", "audio/mpeg", DirAudio},
		{"mp3 type", "track", "audio/mp3", DirAudio},
		{"mp3 extension", "track.mp3", "application/octet-stream", DirAudio},
		{"image", "print.png", "image/png", DirPrint},
		{"wav is not mp3", "track.wav", "audio/wav", DirPrint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dir(tt.file, tt.contentType); got != tt.want {
				t.Errorf("Dir(%q, %q) = %q, want %q", tt.file, tt.contentType, got, tt.want)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	if got := FileName("my print\tv2.png", at); got != "upload_1700000000123_my_print_v2.png" {
		t.Errorf("FileName() = %q", got)
	}
}

func TestSave(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)
	s.now = func() time.Time { return time.UnixMilli(42) }

	p, err := s.Save("my song.mp3", "audio/mpeg", strings.NewReader("ID3"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if p != "/audio/upload_42_my_song.mp3" {
		t.Errorf("Save() path = %q", p)
	}

	data, err := os.ReadFile(filepath.Join(root, "audio", "upload_42_my_song.mp3"))
	if err != nil || string(data) != "ID3" {
		t.Errorf("stored file = %q, err = %v", data, err)
	}
}

func TestSaveStripsDirectories(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)
	s.now = func() time.Time { return time.UnixMilli(1) }

	p, err := s.Save("../../etc/passwd", "text/plain", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if p != "/3d-print/upload_1_passwd" {
		t.Errorf("Save() path = %q", p)
	}

	if _, err := s.Save("", "image/png", strings.NewReader("x")); err != ErrEmptyName {
		t.Errorf("Save(\"\") error = %v, want ErrEmptyName", err)
	}
}
