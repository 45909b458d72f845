package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PriceType string

const (
	PriceTypeFixed    PriceType = "fixed"
	PriceTypeVariable PriceType = "variable"
)

func (p PriceType) Valid() bool {
	return p == PriceTypeFixed || p == PriceTypeVariable
}

// Product owns its stock counter. Stock is only meaningful while
// IsStockTracking is true and must never go negative.
type Product struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Description     string          `gorm:"size:1000" json:"description"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	PriceType       PriceType       `gorm:"size:16;not null;default:fixed" json:"priceType"`
	IsStockTracking bool            `gorm:"not null;default:true" json:"isStockTracking"`
	Stock           int             `gorm:"not null;default:0" json:"stock"`
	IsActive        bool            `gorm:"not null;default:true" json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

type CreateProductRequest struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	PriceType       PriceType        `json:"priceType"`
	IsStockTracking *bool            `json:"isStockTracking"`
	Stock           *int             `json:"stock"`
	IsActive        *bool            `json:"isActive"`
}

type UpdateProductRequest struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	PriceType       *PriceType       `json:"priceType"`
	IsStockTracking *bool            `json:"isStockTracking"`
	Stock           *int             `json:"stock"`
	IsActive        *bool            `json:"isActive"`
}
