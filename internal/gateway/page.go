package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page mirrors the Spring Data page envelope returned by list endpoints.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// UnmarshalJSON accepts either a page object or a bare JSON array. Several
// admin endpoints still return flat arrays; they become a single page here so
// no caller has to branch on the shape.
func (p *Page[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = Page[T]{Content: []T{}}
		return nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("decode list: %w", err)
		}
		*p = Flat(items)
		return nil
	}

	var env pageEnvelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return fmt.Errorf("decode page: %w", err)
	}
	if env.Content == nil {
		env.Content = []T{}
	}
	*p = Page[T]{
		Content:       env.Content,
		TotalPages:    env.TotalPages,
		TotalElements: env.TotalElements,
		Number:        env.Number,
		Size:          env.Size,
	}
	return nil
}

// pageEnvelope has no UnmarshalJSON so decoding it does not recurse.
type pageEnvelope[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// Flat wraps an in-memory slice as a single page.
func Flat[T any](items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 1
	if len(items) == 0 {
		pages = 0
	}
	return Page[T]{
		Content:       items,
		TotalPages:    pages,
		TotalElements: int64(len(items)),
		Number:        0,
		Size:          len(items),
	}
}
