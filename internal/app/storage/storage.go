package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when the named blob does not exist.
var ErrNotFound = errors.New("blob not found")

// BlobStore abstracts where audio artifacts live. Names are flat, opaque
// keys; callers generate them and never pass user-controlled paths.
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

// BlobInfo describes one stored artifact.
type BlobInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Lister is implemented by stores that can enumerate their artifacts.
// Retention cleanup uses it to find files older than the policy window.
type Lister interface {
	List(ctx context.Context) ([]BlobInfo, error)
}

// UploadStore holds raw uploaded audio.
type UploadStore BlobStore

// SpeechStore holds synthesized speech output.
type SpeechStore BlobStore
