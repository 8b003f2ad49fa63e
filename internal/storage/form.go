package storage

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var ErrInvalidBody = errors.New("invalid request body")

// DecodeBody fills dst from either a JSON body or a multipart form whose
// "data" field holds the JSON and whose optional "image" field holds a file.
// The returned header is nil when no image was sent.
func DecodeBody(c *fiber.Ctx, dst any) (*multipart.FileHeader, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(dst); err != nil {
			return nil, ErrInvalidBody
		}
		return nil, nil
	}

	if data := c.FormValue("data"); data != "" {
		if err := json.Unmarshal([]byte(data), dst); err != nil {
			return nil, ErrInvalidBody
		}
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}
	return fh, nil
}

// AttachFile is Attach for an uploaded multipart file.
func (b *Bucket) AttachFile(ctx context.Context, folder string, fh *multipart.FileHeader, write func(url string) error) error {
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	return b.Attach(ctx, folder, fh.Filename, f, write)
}

// Discard removes an object this bucket owns, identified by its public URL.
// Foreign URLs are left alone.
func (b *Bucket) Discard(ctx context.Context, url string) {
	if b == nil || url == "" {
		return
	}
	key, ok := b.KeyFromURL(url)
	if !ok {
		return
	}
	if err := b.Remove(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		b.log.Warn("failed to remove replaced object", zap.String("key", key), zap.Error(err))
	}
}
