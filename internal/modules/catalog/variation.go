package catalog

import "strings"

// AttributeOption lists the selectable values of one attribute.
type AttributeOption struct {
	Name   string
	Values []string
}

// AttributeOptions returns, for each attribute of parent, the distinct
// values offered by the parent and its variations in first-seen order.
func AttributeOptions(parent Product, variations []Product) []AttributeOption {
	out := make([]AttributeOption, 0, len(parent.VariationAttributes))
	for _, attr := range parent.VariationAttributes {
		opt := AttributeOption{Name: attr.Name}
		seen := map[string]bool{}
		add := func(v string) {
			v = strings.TrimSpace(v)
			k := strings.ToLower(v)
			if v == "" || seen[k] {
				return
			}
			seen[k] = true
			opt.Values = append(opt.Values, v)
		}
		for _, v := range attr.Values {
			add(v)
		}
		for _, p := range variations {
			if v, ok := p.attributeValue(attr.Name); ok {
				add(v)
			}
		}
		out = append(out, opt)
	}
	return out
}

// MatchVariation returns the id of the first variation whose attribute
// values equal selection on every attribute of parent. Nothing matches
// until every attribute has a selected value. Comparison ignores case and
// surrounding spaces.
func MatchVariation(parent Product, variations []Product, selection map[string]string) (string, bool) {
	attrs := parent.VariationAttributes
	if parent.ProductType != TypeParent || len(attrs) == 0 {
		return "", false
	}

	want := make([]string, len(attrs))
	for i, a := range attrs {
		v := strings.TrimSpace(lookupFold(selection, a.Name))
		if v == "" {
			return "", false
		}
		want[i] = v
	}

	for _, p := range variations {
		matched := true
		for i, a := range attrs {
			got, ok := p.attributeValue(a.Name)
			if !ok || !strings.EqualFold(strings.TrimSpace(got), want[i]) {
				matched = false
				break
			}
		}
		if matched {
			return p.ID, true
		}
	}
	return "", false
}

func (p Product) attributeValue(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, v := range p.Variations {
		if strings.EqualFold(strings.TrimSpace(v.AttributeName), name) {
			return v.AttributeValue, true
		}
	}
	return "", false
}

func lookupFold(m map[string]string, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	key = strings.TrimSpace(key)
	for k, v := range m {
		if strings.EqualFold(strings.TrimSpace(k), key) {
			return v
		}
	}
	return ""
}
