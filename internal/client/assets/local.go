package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/kodjobs/internal/client/models"
	"github.com/dmitrijs2005/kodjobs/internal/common"
	"github.com/google/uuid"
)

// LocalUploader keeps uploads in process memory and returns blob:<uuid>
// references, which are only meaningful for the lifetime of the process.
type LocalUploader struct {
	mu    sync.RWMutex
	blobs map[string]blob
}

type blob struct {
	contentType string
	data        []byte
}

func NewLocalUploader() *LocalUploader {
	return &LocalUploader{blobs: make(map[string]blob)}
}

func (l *LocalUploader) Upload(ctx context.Context, userID string, kind models.AssetKind, name string, r io.Reader) (string, error) {
	if err := Validate(kind, name); err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}

	ref := "blob:" + uuid.NewString()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.blobs[ref] = blob{contentType: ContentType(name), data: data}
	return ref, nil
}

// Open returns a reader over a stored blob and its content type.
func (l *LocalUploader) Open(ref string) (io.Reader, string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b, ok := l.blobs[ref]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", common.ErrAssetNotFound, ref)
	}
	return bytes.NewReader(b.data), b.contentType, nil
}

// Revoke drops a blob. Unknown refs are ignored.
func (l *LocalUploader) Revoke(ref string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.blobs, ref)
}
