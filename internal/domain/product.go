package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	SKU           string           `json:"sku"`
	Description   string           `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	ComparePrice  *decimal.Decimal `json:"comparePrice,omitempty"`
	StockQuantity int              `json:"stockQuantity"`
	TrackQuantity bool             `json:"trackQuantity"`
	IsActive      bool             `json:"isActive"`
	IsFeatured    bool             `json:"isFeatured"`
	Weight        string           `json:"weight,omitempty"`
	Dimensions    string           `json:"dimensions,omitempty"`
	Tags          string           `json:"tags,omitempty"`
	CategoryID    *int64           `json:"categoryId,omitempty"`
	Category      *Category        `json:"category,omitempty"`
	Images        []ProductImage   `json:"images,omitempty"`
	Variants      []Variant        `json:"variants,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// ProductImage is one entry of a product's ordered image list.
type ProductImage struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	AltText   string `json:"altText,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
	SortOrder int    `json:"sortOrder"`
}

// PrimaryImage returns the image flagged primary, or nil when none is set.
func (p *Product) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	return nil
}

// ValidatePrimaryImage checks that exactly one image remains primary after the
// images listed in removedIDs are dropped. Edit forms collect removals locally
// before submitting, so the check runs against the surviving set.
func ValidatePrimaryImage(images []ProductImage, removedIDs []int64) error {
	removed := make(map[int64]bool, len(removedIDs))
	for _, id := range removedIDs {
		removed[id] = true
	}
	primaries := 0
	remaining := 0
	for _, img := range images {
		if removed[img.ID] {
			continue
		}
		remaining++
		if img.IsPrimary {
			primaries++
		}
	}
	if remaining == 0 {
		return nil
	}
	if primaries != 1 {
		return ErrPrimaryImage
	}
	return nil
}

type Variant struct {
	ID            int64            `json:"id"`
	ProductID     int64            `json:"productId"`
	SKU           string           `json:"sku"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	StockQuantity int              `json:"stockQuantity"`
	IsActive      bool             `json:"isActive"`
	Color         string           `json:"color,omitempty"`
	Size          string           `json:"size,omitempty"`
}
