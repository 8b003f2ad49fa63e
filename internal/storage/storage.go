// Package storage keeps uploaded images in a bucket directory and hands out
// their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrInvalidFolder   = errors.New("invalid folder")
	ErrNotFound        = errors.New("object not found")
)

var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true, ".svg": true,
}

var folderPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Object is a stored file.
type Object struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Bucket stores objects under root on fs and serves them below publicURL.
type Bucket struct {
	fs        afero.Fs
	publicURL string
	log       *zap.Logger
}

// NewBucket roots a bucket at dir on the OS filesystem.
func NewBucket(dir, publicURL string, log *zap.Logger) (*Bucket, error) {
	osfs := afero.NewOsFs()
	if err := osfs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return NewBucketFs(afero.NewBasePathFs(osfs, dir), publicURL, log), nil
}

// NewBucketFs builds a bucket on an arbitrary filesystem, e.g. afero.NewMemMapFs in tests.
func NewBucketFs(fsys afero.Fs, publicURL string, log *zap.Logger) *Bucket {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bucket{fs: fsys, publicURL: strings.TrimRight(publicURL, "/"), log: log}
}

// Put writes r to folder under a fresh name that keeps filename's extension.
func (b *Bucket) Put(ctx context.Context, folder, filename string, r io.Reader) (Object, error) {
	if !folderPattern.MatchString(folder) {
		return Object{}, ErrInvalidFolder
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return Object{}, ErrUnsupportedType
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	key := path.Join(folder, uuid.NewString()+ext)
	if err := b.fs.MkdirAll(folder, 0o755); err != nil {
		return Object{}, err
	}
	f, err := b.fs.Create(key)
	if err != nil {
		return Object{}, err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = b.fs.Remove(key)
		return Object{}, err
	}
	if err := f.Close(); err != nil {
		_ = b.fs.Remove(key)
		return Object{}, err
	}
	return Object{Key: key, URL: b.URL(key)}, nil
}

// Remove deletes the object stored under key.
func (b *Bucket) Remove(_ context.Context, key string) error {
	if err := b.fs.Remove(path.Clean(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (b *Bucket) URL(key string) string {
	return b.publicURL + "/" + key
}

// KeyFromURL reverses URL for objects owned by this bucket.
func (b *Bucket) KeyFromURL(u string) (string, bool) {
	prefix := b.publicURL + "/"
	if !strings.HasPrefix(u, prefix) {
		return "", false
	}
	return strings.TrimPrefix(u, prefix), true
}

// Attach uploads r, then runs write with the public URL. When write fails the
// uploaded object is removed again so no orphan stays in the bucket.
func (b *Bucket) Attach(ctx context.Context, folder, filename string, r io.Reader, write func(url string) error) error {
	obj, err := b.Put(ctx, folder, filename, r)
	if err != nil {
		return err
	}
	if err := write(obj.URL); err != nil {
		if rmErr := b.Remove(ctx, obj.Key); rmErr != nil {
			b.log.Warn("compensating delete failed", zap.String("key", obj.Key), zap.Error(rmErr))
		} else {
			b.log.Info("removed upload after failed write", zap.String("key", obj.Key))
		}
		return err
	}
	return nil
}

// IsRejected reports whether err means the upload itself was refused.
func IsRejected(err error) bool {
	return errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrInvalidFolder)
}
