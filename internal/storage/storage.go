// Package storage keeps uploaded product images on local disk or S3.
package storage

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
)

type PutInput struct {
	Filename    string
	ContentType string
	Size        int64
	// Folder groups objects, e.g. "products/<id>". Unsafe characters are
	// dropped before it becomes part of a key.
	Folder string
}

type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}

// objectKey names a new object: the cleaned folder, a random name and the
// image extension. Keys always use "/" and never contain "." segments.
func objectKey(in PutInput) string {
	name := uuid.NewString() + imageExt(in.Filename)
	segs := make([]string, 0, 4)
	for _, s := range strings.Split(in.Folder, "/") {
		s = strings.Map(keyRune, s)
		if s != "" {
			segs = append(segs, s)
		}
	}
	return strings.Join(append(segs, name), "/")
}

func keyRune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		return r
	}
	return -1
}
