package wishlist

import (
	"time"

	"github.com/shopspring/decimal"

	"rumal.store/web/internal/modules/catalog"
)

type Item struct {
	ID           string              `json:"id"`
	ProductID    string              `json:"productId"`
	ProductName  string              `json:"productName"`
	ProductImage string              `json:"productImage,omitempty"`
	ProductType  catalog.ProductType `json:"productType"`
	Price        decimal.Decimal     `json:"price"`
	InStock      bool                `json:"inStock"`
	CollectionID string              `json:"collectionId,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	AddedAt      *time.Time          `json:"addedAt,omitempty"`
}

// NeedsOptions reports whether the item is a parent product that must be
// narrowed to a variation before it can be bought.
func (i Item) NeedsOptions() bool { return i.ProductType == catalog.TypeParent }

type Collection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ItemCount   int    `json:"itemCount"`
	Public      bool   `json:"isPublic"`
	ShareToken  string `json:"shareToken,omitempty"`
	Items       []Item `json:"items,omitempty"`
}

// SharedView is what a visitor of a share link sees.
type SharedView struct {
	Available  bool
	OwnerName  string
	Collection Collection
}

type sharedPayload struct {
	OwnerName  string     `json:"ownerName"`
	Collection Collection `json:"collection"`
	Items      []Item     `json:"items"`
	Name       string     `json:"name"`
}
