package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

var ErrObjectNotFound = errors.New("object not found in storage")

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// PutObject uploads body under objectKey and returns the object's public URL.
	PutObject(ctx context.Context, objectKey, contentType string, body io.Reader, size int64) (string, error)

	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// PublicURL is the stable URL of objectKey for publicly readable objects.
	PublicURL(objectKey string) string

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// AvatarKey returns avatars/<ownerID>/<uuid><ext>.
func AvatarKey(ownerID, ext string) string {
	return path.Join("avatars", ownerID, uuid.NewString()+normalizeExt(ext))
}

// ExerciseMediaKey returns exercises/<exerciseID>/<uuid><ext>.
func ExerciseMediaKey(exerciseID, ext string) string {
	return path.Join("exercises", exerciseID, uuid.NewString()+normalizeExt(ext))
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func joinURL(base, objectKey string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), strings.TrimLeft(objectKey, "/"))
}
