package paging

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	p := Parse(url.Values{"page": {"-4"}, "size": {"5000"}}, "status")
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, DefaultSize, p.Size)
	assert.Empty(t, p.Filters)
}

func TestParse_KeepsPageWhenFiltersUnchanged(t *testing.T) {
	first := Parse(url.Values{"status": {"PENDING"}}, "status")
	next, err := url.Parse(first.URL("/orders", 3))
	require.NoError(t, err)

	p := Parse(next.Query(), "status")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, "PENDING", p.Get("status"))
}

func TestParse_FilterChangeResetsPage(t *testing.T) {
	on3 := Parse(url.Values{"status": {"PENDING"}, "page": {"3"}}, "status", "q")
	require.Equal(t, 3, on3.Page)

	// the filter form resubmits page and fp with a new status
	changed := url.Values{
		"status": {"SHIPPED"},
		"page":   {"3"},
		"fp":     {on3.Fingerprint},
	}
	assert.Equal(t, 0, Parse(changed, "status", "q").Page)

	added := url.Values{
		"status": {"PENDING"},
		"q":      {"silk"},
		"page":   {"3"},
		"fp":     {on3.Fingerprint},
	}
	assert.Equal(t, 0, Parse(added, "status", "q").Page)
}

func TestFingerprint_IgnoresBlankAndOrder(t *testing.T) {
	a := Parse(url.Values{"a": {"1"}, "b": {"2"}, "c": {"  "}}, "a", "b", "c")
	b := Parse(url.Values{"b": {"2"}, "a": {"1"}}, "b", "a", "c")
	assert.Equal(t, a.Fingerprint, b.Fingerprint)
}

func TestPager(t *testing.T) {
	p := Parse(url.Values{"page": {"4"}, "q": {"x"}}, "q")
	pg := p.Pager("/products", 10, 200)

	assert.True(t, pg.Show())
	require.Len(t, pg.Links, 5)
	assert.Equal(t, "3", pg.Links[0].Label)
	assert.True(t, pg.Links[2].Current)
	assert.Contains(t, pg.Prev, "page=3")
	assert.Contains(t, pg.Next, "page=5")
	assert.Contains(t, pg.Next, "fp="+p.Fingerprint)

	first := Parse(url.Values{}, "q").Pager("/products", 2, 30)
	assert.Empty(t, first.Prev)
	assert.NotContains(t, first.Links[0].URL, "page=")

	assert.False(t, Parse(url.Values{}).Pager("/x", 1, 3).Show())
}
