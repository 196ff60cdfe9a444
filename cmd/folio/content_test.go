package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		migrateWrite = false
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestMigratePrintsDocument(t *testing.T) {
	path := writeFile(t, `{"printImages":["a.png"]}`)

	stdout, _, err := execute(t, "migrate", path)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(stdout, `"tiktokItems": []`) {
		t.Errorf("expected empty collections to be filled, got:\n%s", stdout)
	}

	onDisk, _ := os.ReadFile(path)
	if string(onDisk) != `{"printImages":["a.png"]}` {
		t.Error("migrate without --write must not touch the file")
	}
}

func TestMigrateWriteIsIdempotent(t *testing.T) {
	path := writeFile(t, `{"noteArticles":[]}`)

	if _, _, err := execute(t, "migrate", "--write", path); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	first, _ := os.ReadFile(path)

	_, stderr, err := execute(t, "migrate", "--write", path)
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	second, _ := os.ReadFile(path)

	if !bytes.Equal(first, second) {
		t.Error("second migration changed the file")
	}
	if !strings.Contains(stderr, "already up to date") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestMigrateRejectsInvalidFile(t *testing.T) {
	path := writeFile(t, `["not","an","object"]`)

	if _, _, err := execute(t, "migrate", path); err == nil {
		t.Error("expected an error for a non-object document")
	}
}

func TestFeatured(t *testing.T) {
	path := writeFile(t, `{
		"noteArticles": [
			{"title":"A","url":"urlA","imageUrl":"","isFeatured":true},
			{"title":"C","url":"urlC","imageUrl":"","isFeatured":true}
		],
		"audioTracks": [{"title":"B","url":"urlB","isFeatured":true}],
		"featuredOrder": ["urlB","urlA"]
	}`)

	stdout, _, err := execute(t, "featured", path)
	if err != nil {
		t.Fatalf("featured: %v", err)
	}

	var items []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(stdout), &items); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	var got []string
	for _, it := range items {
		got = append(got, it.ID)
	}
	if strings.Join(got, ",") != "urlB,urlA,urlC" {
		t.Errorf("order = %v, want [urlB urlA urlC]", got)
	}
}
