package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestUploadImage(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, "/assets/", nil)

	url, err := store.UploadImage([]byte("payload"), "catalog-1/product-7.png")
	if err != nil {
		t.Fatal(err)
	}
	if url != "/assets/catalog-1/product-7.png" {
		t.Errorf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "catalog-1", "product-7.png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("stored bytes = %q", data)
	}
}

func TestUploadImageRejectsBadInput(t *testing.T) {
	store := NewStore(t.TempDir(), "/assets", nil)

	if _, err := store.UploadImage(nil, "x.png"); err == nil {
		t.Error("empty payload should fail")
	}
	if _, err := store.UploadImage([]byte("x"), "../escape.png"); err == nil {
		t.Error("path traversal should fail")
	}
}

func TestMigrateImages(t *testing.T) {
	srcDir := t.TempDir()
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(srcDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.png", "same-bytes")
	write("b.png", "same-bytes")
	write("c.jpg", "other-bytes")
	write("notes.txt", "ignored")

	store := NewStore(t.TempDir(), "/assets", nil)
	result, err := MigrateImages(store, srcDir, "migrated", NewSeenCache())
	if err != nil {
		t.Fatal(err)
	}

	if result.Scanned != 3 {
		t.Errorf("Scanned = %d, want 3", result.Scanned)
	}
	if result.Uploaded != 2 {
		t.Errorf("Uploaded = %d, want 2", result.Uploaded)
	}
	if result.Deduped != 1 {
		t.Errorf("Deduped = %d, want 1", result.Deduped)
	}
	if result.Failed != 0 {
		t.Errorf("Failed = %d, want 0", result.Failed)
	}
}
