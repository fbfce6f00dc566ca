// Package blob stores item images. Backends live in the local and s3
// subpackages.
package blob

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

type Driver string

const (
	DriverLocal Driver = "local"
	DriverS3    Driver = "s3"
)

// MaxImageSize caps an uploaded item image.
const MaxImageSize = 5 << 20

var ErrNotFound = errors.New("blob not found")

// Info describes a stored blob.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Driver() Driver
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// ImageExtension returns the file extension for an allowed image content
// type, or false when the type is not accepted.
func ImageExtension(contentType string) (string, bool) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	ext, ok := imageExtensions[ct]
	return ext, ok
}

// ItemImageKey builds items/<id>/<uuid><ext>.
func ItemImageKey(itemID int64, ext string) string {
	return path.Join("items", fmt.Sprint(itemID), uuid.NewString()+ext)
}

// CleanKey rejects empty, absolute and traversing keys.
func CleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key")
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("invalid key traversal")
		}
	}
	return path.Clean(key), nil
}
