// Package paging parses list page/filter parameters and builds pager links.
//
// Every list form carries "fp", the fingerprint of the filters the current
// page index belongs to. When the submitted filters no longer match it, the
// page index resets to 0, so changing a filter never lands on a stale page.
package paging

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"rumal.store/web/pkg/view"
)

const (
	DefaultSize = 20
	MaxSize     = 100
	window      = 2
)

type Params struct {
	Page        int
	Size        int
	Filters     url.Values
	Fingerprint string
}

// Parse reads page, size and the named filter keys from q.
func Parse(q url.Values, filterKeys ...string) Params {
	filters := url.Values{}
	for _, k := range filterKeys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			filters.Set(k, v)
		}
	}
	p := Params{
		Page:        atoi(q.Get("page")),
		Size:        atoi(q.Get("size")),
		Filters:     filters,
		Fingerprint: Fingerprint(filters),
	}
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size < 1 || p.Size > MaxSize {
		p.Size = DefaultSize
	}
	if fp := q.Get("fp"); fp != "" && fp != p.Fingerprint {
		p.Page = 0
	}
	return p
}

// Fingerprint is a short stable hash of the filter values.
func Fingerprint(filters url.Values) string {
	sum := sha256.Sum256([]byte(filters.Encode()))
	return hex.EncodeToString(sum[:6])
}

func (p Params) Get(key string) string { return p.Filters.Get(key) }

// URL links to page n of path with the current filters.
func (p Params) URL(path string, n int) string {
	q := url.Values{}
	for k, v := range p.Filters {
		q[k] = v
	}
	if n > 0 {
		q.Set("page", strconv.Itoa(n))
	}
	if p.Size != DefaultSize {
		q.Set("size", strconv.Itoa(p.Size))
	}
	q.Set("fp", p.Fingerprint)
	return path + "?" + q.Encode()
}

// Pager builds page links around the current page (0-based internally,
// 1-based labels).
func (p Params) Pager(path string, totalPages int, totalElements int64) view.Pager {
	pg := view.Pager{Page: p.Page, TotalPages: totalPages, TotalElements: totalElements}
	if totalPages <= 1 {
		return pg
	}
	if p.Page > 0 {
		pg.Prev = p.URL(path, p.Page-1)
	}
	if p.Page+1 < totalPages {
		pg.Next = p.URL(path, p.Page+1)
	}
	lo, hi := p.Page-window, p.Page+window
	if lo < 0 {
		lo = 0
	}
	if hi > totalPages-1 {
		hi = totalPages - 1
	}
	for n := lo; n <= hi; n++ {
		pg.Links = append(pg.Links, view.PageLink{
			Number:  n,
			Label:   strconv.Itoa(n + 1),
			URL:     p.URL(path, n),
			Current: n == p.Page,
		})
	}
	return pg
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
