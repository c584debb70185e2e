package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a direct cash sale of one inventory unit.
type Sale struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ProductID  uuid.UUID       `json:"product_id" db:"product_id"`
	SellerID   uuid.UUID       `json:"seller_id" db:"seller_id"`
	MagazineID uuid.UUID       `json:"magazine_id" db:"magazine_id"`
	SalePrice  decimal.Decimal `json:"sale_price" db:"sale_price"`
	IMEI       string          `json:"imei,omitempty" db:"imei"`
	SaleDate   time.Time       `json:"sale_date" db:"sale_date"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

type CreateSaleRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	SalePrice decimal.Decimal `json:"sale_price"`
	IMEI      string          `json:"imei,omitempty"`
}

type SaleView struct {
	Sale
	ProductName  string `json:"product_name" db:"product_name"`
	ProductModel string `json:"product_model" db:"product_model"`
	SellerName   string `json:"seller_name" db:"seller_name"`
}

// SaleFilter narrows sale listings. Zero values mean no filtering.
type SaleFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
	Limit    int
	Offset   int
}
