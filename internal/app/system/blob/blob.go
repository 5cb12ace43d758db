// Package blob stores donation pictures and hands back opaque references.
//
// Donations arrive with an inline base64 data URL; the store decodes it
// and persists the bytes. A failed upload aborts the enclosing donation
// creation before anything is written to the database.
package blob

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrUploadFailed wraps every failure mode of a picture upload so callers
// can map them to a single recoverable outcome.
var ErrUploadFailed = errors.New("upload failed")

// Store accepts an image payload and returns an opaque reference string.
type Store interface {
	Put(ctx context.Context, dataURL string) (string, error)
}

// dataURLRe matches the inline image format clients send:
// data:image/<subtype>;base64,<payload>
var dataURLRe = regexp.MustCompile(`^data:(image/[a-zA-Z]+);base64,(.+)$`)

// LocalStore writes images under a directory on local disk and returns
// references of the form <urlPrefix>/<name>.<ext>.
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create upload dir: %v", ErrUploadFailed, err)
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Put decodes a base64 image data URL and writes it to disk.
func (s *LocalStore) Put(ctx context.Context, dataURL string) (string, error) {
	if dataURL == "" {
		return "", fmt.Errorf("%w: no file provided", ErrUploadFailed)
	}

	m := dataURLRe.FindStringSubmatch(dataURL)
	if len(m) != 3 {
		return "", fmt.Errorf("%w: invalid base64 image format", ErrUploadFailed)
	}
	mediaType, payload := m[1], m[2]

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: decode image: %v", ErrUploadFailed, err)
	}

	ext := strings.TrimPrefix(mediaType, "image/")
	name := uuid.NewString() + "." + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), raw, 0o644); err != nil {
		return "", fmt.Errorf("%w: write image: %v", ErrUploadFailed, err)
	}

	return s.urlPrefix + "/" + name, nil
}
