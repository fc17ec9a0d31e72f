package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePage(t *testing.T, raw string) Page[product] {
	t.Helper()
	var p Page[product]
	require.NoError(t, json.Unmarshal([]byte(raw), &p), raw)
	return p
}

func TestPage_DecodesFlatArray(t *testing.T) {
	p := decodePage(t, `[{"id":"a"},{"id":"b"}]`)
	assert.Len(t, p.Content, 2)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, int64(2), p.TotalElements)
	assert.Equal(t, 0, p.Number)
}

func TestPage_DecodesSpringPage(t *testing.T) {
	p := decodePage(t, `{"content":[{"id":"a"}],"totalPages":4,"totalElements":31,"number":1,"size":10}`)
	assert.Equal(t, "a", p.Content[0].ID)
	assert.Equal(t, 4, p.TotalPages)
	assert.Equal(t, 1, p.Number)
}

func TestPage_EmptyShapes(t *testing.T) {
	for _, raw := range []string{`null`, `[]`, `{"totalPages":0}`} {
		p := decodePage(t, raw)
		assert.NotNil(t, p.Content, raw)
		assert.Empty(t, p.Content, raw)
	}
}

func TestPage_EmbeddedInStruct(t *testing.T) {
	var out struct {
		Orders Page[product] `json:"orders"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"orders":[{"id":"o1"}]}`), &out))
	assert.Len(t, out.Orders.Content, 1)
}

func TestCDNURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example/products/a.png", CDNURL("https://cdn.example/", "/products/a.png"))
	assert.Equal(t, "https://other/x.png", CDNURL("https://cdn.example", "https://other/x.png"))
	assert.Equal(t, "/a.png", CDNURL("", "a.png"))
	assert.Equal(t, "", CDNURL("https://cdn.example", " "))
}
