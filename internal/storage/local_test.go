package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocalBackendSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	backend := NewLocalBackend(root)

	saved, err := backend.Save([]byte("png-bytes"), "screenshots", "org-1", "user-1", "shot.png")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if saved.URL != "/uploads/org-1/user-1/screenshots/shot.png" {
		t.Fatalf("unexpected URL %q", saved.URL)
	}
	if saved.ThumbnailURL != saved.URL {
		t.Fatalf("expected thumbnail to mirror URL")
	}

	onDisk := filepath.Join(root, "org-1", "user-1", "screenshots", "shot.png")
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("stored content mismatch: %q", data)
	}

	if !backend.Delete(saved.URL) {
		t.Fatalf("delete reported failure")
	}
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err %v", err)
	}
}

func TestLocalBackendSaveRejectsTraversalNames(t *testing.T) {
	root := t.TempDir()
	backend := NewLocalBackend(root)

	victim := filepath.Join(root, "org-b", "user-9", "screenshots", "evidence.png")
	if err := os.MkdirAll(filepath.Dir(victim), 0o755); err != nil {
		t.Fatalf("prepare victim dir: %v", err)
	}
	if err := os.WriteFile(victim, []byte("original"), 0o644); err != nil {
		t.Fatalf("write victim: %v", err)
	}

	tests := []string{
		"../../../org-b/user-9/screenshots/evidence.png",
		"..\\evidence.png",
		"nested/evidence.png",
		"..",
		"",
	}
	for _, name := range tests {
		if _, err := backend.Save([]byte("attacker payload"), "screenshots", "org-a", "user-1", name); err == nil {
			t.Fatalf("Save accepted unsafe name %q", name)
		}
	}

	data, err := os.ReadFile(victim)
	if err != nil {
		t.Fatalf("victim unreadable: %v", err)
	}
	if string(data) != "original" {
		t.Fatalf("victim file overwritten: %q", data)
	}
}

func TestLocalBackendDeleteRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	backend := NewLocalBackend(root)

	outside := filepath.Join(root, "..", "victim.txt")
	if err := os.WriteFile(outside, []byte("keep me"), 0o644); err != nil {
		t.Fatalf("write victim: %v", err)
	}
	defer os.Remove(outside)

	if backend.Delete("/uploads/../victim.txt") {
		t.Fatalf("traversal delete must be rejected")
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("victim file must survive: %v", err)
	}

	if backend.Delete("https://bucket.example/outside.png") {
		t.Fatalf("foreign URL delete must be rejected")
	}
}
