package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable inventory unit. Count is decremented by one per loan
// or sale and may never go below zero at commit time.
type Product struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Model     string          `json:"model" db:"model"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Count     int             `json:"count" db:"count"`
	ManagerID uuid.UUID       `json:"manager_id" db:"manager_id"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// Client is the buyer side of a loan or sale.
type Client struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Phone          string    `json:"phone" db:"phone"`
	PassportSeries string    `json:"passport_series" db:"passport_series"`
	ManagerID      uuid.UUID `json:"manager_id" db:"manager_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
