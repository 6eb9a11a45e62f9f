package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const uploadsURLPrefix = "/uploads"

// LocalBackend writes files under a root directory and returns URLs
// served by the application's static uploads route.
type LocalBackend struct {
	rootDir string
}

func NewLocalBackend(rootDir string) *LocalBackend {
	return &LocalBackend{rootDir: rootDir}
}

func (backend *LocalBackend) Save(data []byte, folder string, organizationID string, userID string, fileName string) (SavedFile, error) {
	if !safeFileName(fileName) {
		return SavedFile{}, fmt.Errorf("%w: %q", ErrUnsafeFileName, fileName)
	}
	relativeDir := filepath.Join(organizationID, userID, folder)
	targetDir := filepath.Join(backend.rootDir, relativeDir)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return SavedFile{}, fmt.Errorf("create upload directory: %w", err)
	}

	targetPath := filepath.Join(targetDir, fileName)
	if err := os.WriteFile(targetPath, data, 0o644); err != nil {
		return SavedFile{}, fmt.Errorf("write upload: %w", err)
	}

	fileURL := uploadsURLPrefix + "/" + filepath.ToSlash(filepath.Join(relativeDir, fileName))
	return SavedFile{URL: fileURL, ThumbnailURL: fileURL}, nil
}

func (backend *LocalBackend) Delete(fileURL string) bool {
	relative := strings.TrimPrefix(fileURL, uploadsURLPrefix+"/")
	if relative == fileURL || strings.Contains(relative, "..") {
		return false
	}
	if err := os.Remove(filepath.Join(backend.rootDir, filepath.FromSlash(relative))); err != nil {
		log.Printf("delete upload %s failed: %v", fileURL, err)
		return false
	}
	return true
}
