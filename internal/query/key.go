package query

import (
	"net/url"
	"strings"
)

// Key identifies a cached query: entity first, then the filter parameters,
// optionally scoped to a user. Invalidation works on key prefixes.
type Key []string

func K(parts ...string) Key { return Key(parts) }

// Scoped prefixes k with the user scope so per-user data never mixes.
func Scoped(scope string, parts ...string) Key {
	return append(Key{"u", scope}, parts...)
}

// With returns a copy of k extended with more parts.
func (k Key) With(parts ...string) Key {
	out := make(Key, 0, len(k)+len(parts))
	out = append(out, k...)
	return append(out, parts...)
}

func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// String encodes the key so that string prefix matching equals tuple prefix
// matching: every part is escaped and terminated by ':'.
func (k Key) String() string {
	var b strings.Builder
	for _, p := range k {
		b.WriteString(url.QueryEscape(p))
		b.WriteByte(':')
	}
	return b.String()
}
