package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog entry. Image bytes are held inline and are
// excluded from listings; they are only served through the image endpoint.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       *ProductImage   `json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductImage is an optional binary payload attached to a product.
type ProductImage struct {
	ContentType string
	Data        []byte
}

// HasImage reports whether the product carries image bytes.
func (p *Product) HasImage() bool {
	return p.Image != nil && len(p.Image.Data) > 0
}

// ProductPatch describes a partial update. Nil fields are left untouched;
// non-nil fields overwrite, including zero values such as an empty string or
// a price of 0.
type ProductPatch struct {
	Title       *string
	Description *string
	Category    *string
	Price       *decimal.Decimal
	Image       *ProductImage
}

// Apply copies the supplied fields onto the product.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Image != nil {
		p.Image = patch.Image
	}
	p.UpdatedAt = time.Now()
}
