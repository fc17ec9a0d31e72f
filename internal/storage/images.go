package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"rumal.store/web/internal/gateway"
	"rumal.store/web/internal/shared/apperr"
)

const MaxImageBytes = 5 << 20

var imageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

func imageExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return ext
	default:
		return ""
	}
}

// Images uploads product images and returns the URL the storefront shows.
type Images struct {
	store   Storage
	cdnBase string
}

// NewImages serves uploaded keys from cdnBase when set, otherwise from the
// backend's own public URL.
func NewImages(store Storage, cdnBase string) *Images {
	return &Images{store: store, cdnBase: cdnBase}
}

func (im *Images) Upload(ctx context.Context, r io.Reader, in PutInput) (string, error) {
	if in.Size > MaxImageBytes {
		return "", apperr.InvalidErr("Images must be 5 MB or smaller.", map[string]string{"image": "Too large."})
	}
	ext, ok := imageTypes[strings.ToLower(in.ContentType)]
	if !ok {
		return "", apperr.InvalidErr("Upload a PNG, JPEG, WebP or GIF image.", map[string]string{"image": "Unsupported type."})
	}
	if imageExt(in.Filename) == "" {
		in.Filename += ext
	}

	res, err := im.store.Put(ctx, io.LimitReader(r, MaxImageBytes+1), in)
	if err != nil {
		return "", apperr.Wrap(err)
	}
	if im.cdnBase != "" {
		return gateway.CDNURL(im.cdnBase, res.Key), nil
	}
	return res.URL, nil
}
