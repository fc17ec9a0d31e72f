package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func variation(id string, kv ...string) Product {
	p := Product{ID: id, ProductType: TypeVariation}
	for i := 0; i+1 < len(kv); i += 2 {
		p.Variations = append(p.Variations, VariationValue{AttributeName: kv[i], AttributeValue: kv[i+1]})
	}
	return p
}

var shirt = Product{
	ID:          "p1",
	ProductType: TypeParent,
	VariationAttributes: []VariationAttribute{
		{Name: "Color"},
		{Name: "Size", Values: []string{"S", "M", "L"}},
	},
}

var shirtVariations = []Product{
	variation("v-red-s", "Color", "Red", "Size", "S"),
	variation("v-red-m", "Color", "Red", "Size", "M"),
	variation("v-blue-m", "color", " Blue ", "size", "m"),
}

func TestMatchVariation(t *testing.T) {
	cases := []struct {
		name   string
		sel    map[string]string
		wantID string
		wantOK bool
	}{
		{"exact", map[string]string{"Color": "Red", "Size": "M"}, "v-red-m", true},
		{"case and spaces", map[string]string{"color": " BLUE", "Size": "M "}, "v-blue-m", true},
		{"incomplete selection", map[string]string{"Color": "Red"}, "", false},
		{"blank value", map[string]string{"Color": "Red", "Size": "  "}, "", false},
		{"no such combination", map[string]string{"Color": "Blue", "Size": "S"}, "", false},
		{"empty", nil, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := MatchVariation(shirt, shirtVariations, tc.sel)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantID, id)
		})
	}
}

func TestMatchVariation_FirstMatchWins(t *testing.T) {
	dup := append([]Product{variation("first", "Color", "Red", "Size", "S")}, shirtVariations...)
	id, ok := MatchVariation(shirt, dup, map[string]string{"Color": "red", "Size": "s"})
	assert.True(t, ok)
	assert.Equal(t, "first", id)
}

func TestMatchVariation_OnlyForParents(t *testing.T) {
	simple := shirt
	simple.ProductType = TypeSimple
	_, ok := MatchVariation(simple, shirtVariations, map[string]string{"Color": "Red", "Size": "S"})
	assert.False(t, ok)

	noAttrs := Product{ProductType: TypeParent}
	_, ok = MatchVariation(noAttrs, shirtVariations, map[string]string{})
	assert.False(t, ok)
}

func TestAttributeOptions(t *testing.T) {
	opts := AttributeOptions(shirt, shirtVariations)
	assert.Equal(t, []AttributeOption{
		{Name: "Color", Values: []string{"Red", "Blue"}},
		{Name: "Size", Values: []string{"S", "M", "L"}},
	}, opts)
}
