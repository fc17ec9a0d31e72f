package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductType string

const (
	TypeSimple    ProductType = "SIMPLE"
	TypeParent    ProductType = "PARENT"
	TypeVariation ProductType = "VARIATION"
)

// VariationAttribute is an attribute a PARENT product varies on, e.g. Size.
type VariationAttribute struct {
	Name   string   `json:"name"`
	Values []string `json:"values,omitempty"`
}

// VariationValue is one attribute value carried by a VARIATION product.
type VariationValue struct {
	AttributeName  string `json:"attributeName"`
	AttributeValue string `json:"attributeValue"`
}

type Product struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	Slug                string               `json:"slug,omitempty"`
	ShortDescription    string               `json:"shortDescription,omitempty"`
	Description         string               `json:"description,omitempty"`
	ProductType         ProductType          `json:"productType"`
	ParentProductID     string               `json:"parentProductId,omitempty"`
	VendorID            string               `json:"vendorId,omitempty"`
	VendorName          string               `json:"vendorName,omitempty"`
	CategoryIDs         []string             `json:"categoryIds,omitempty"`
	RegularPrice        decimal.Decimal      `json:"regularPrice"`
	DiscountedPrice     decimal.NullDecimal  `json:"discountedPrice"`
	SellingPrice        decimal.Decimal      `json:"sellingPrice"`
	Images              []string             `json:"images,omitempty"`
	SKU                 string               `json:"sku,omitempty"`
	StockQuantity       int                  `json:"stockQuantity"`
	Active              bool                 `json:"active"`
	AverageRating       float64              `json:"averageRating,omitempty"`
	ReviewCount         int                  `json:"reviewCount,omitempty"`
	VariationAttributes []VariationAttribute `json:"variationAttributes,omitempty"`
	Variations          []VariationValue     `json:"variations,omitempty"`
	CreatedAt           *time.Time           `json:"createdAt,omitempty"`
}

// Price is what the customer pays: the discount when present, else the
// selling price, else the regular price.
func (p Product) Price() decimal.Decimal {
	if p.DiscountedPrice.Valid && p.DiscountedPrice.Decimal.IsPositive() {
		return p.DiscountedPrice.Decimal
	}
	if p.SellingPrice.IsPositive() {
		return p.SellingPrice
	}
	return p.RegularPrice
}

func (p Product) OnSale() bool {
	return p.Price().LessThan(p.RegularPrice)
}

func (p Product) InStock() bool { return p.StockQuantity > 0 }

func (p Product) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
	Description string `json:"description,omitempty"`
}

type Promotion struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Code          string          `json:"code,omitempty"`
	Description   string          `json:"description,omitempty"`
	DiscountType  string          `json:"discountType,omitempty"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	StartsAt      *time.Time      `json:"startsAt,omitempty"`
	EndsAt        *time.Time      `json:"endsAt,omitempty"`
	Active        bool            `json:"active"`
}

// ProductInput is the vendor/admin write model.
type ProductInput struct {
	Name             string           `json:"name"`
	Slug             string           `json:"slug,omitempty"`
	ShortDescription string           `json:"shortDescription,omitempty"`
	Description      string           `json:"description,omitempty"`
	ProductType      ProductType      `json:"productType"`
	CategoryIDs      []string         `json:"categoryIds,omitempty"`
	RegularPrice     decimal.Decimal  `json:"regularPrice"`
	DiscountedPrice  *decimal.Decimal `json:"discountedPrice,omitempty"`
	SKU              string           `json:"sku,omitempty"`
	StockQuantity    int              `json:"stockQuantity"`
	Active           bool             `json:"active"`
}
