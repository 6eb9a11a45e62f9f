package storage

import (
	"errors"
	"strings"
)

// ErrUnsafeFileName rejects client supplied names that could leave the
// tenant namespace when joined into a storage path.
var ErrUnsafeFileName = errors.New("unsafe file name")

// SavedFile is the addressable result of a store operation. ThumbnailURL
// points at a reduced rendition when the backend produces one, otherwise
// it mirrors URL.
type SavedFile struct {
	URL          string
	ThumbnailURL string
}

// Backend stores raw file bytes namespaced by organization and user so
// tenants can never collide on a path.
type Backend interface {
	Save(data []byte, folder string, organizationID string, userID string, fileName string) (SavedFile, error)
	Delete(fileURL string) bool
}

// safeFileName reports whether name can be used as a single path
// component. Separators and dot sequences are never allowed, whatever
// the caller claims the name to be.
func safeFileName(name string) bool {
	if name == "" || name == "." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return !strings.Contains(name, "..")
}
