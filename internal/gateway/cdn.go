package gateway

import "strings"

// CDNURL resolves an image key returned by the gateway against the CDN base.
// Absolute URLs are returned unchanged.
func CDNURL(base, key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	base = strings.TrimRight(base, "/")
	if base == "" {
		return "/" + strings.TrimLeft(key, "/")
	}
	return base + "/" + strings.TrimLeft(key, "/")
}
