package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger entry types
const (
	LedgerTypeSale        = "sale"
	LedgerTypeLoan        = "loan"
	LedgerTypeLoanPayment = "loan_payment"
)

// LedgerEntry is the audit record written with every sale, loan creation and
// payment. For a full payoff it is the only surviving summary of the
// schedule rows the payoff deletes.
type LedgerEntry struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Type          string          `json:"type" db:"type"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Description   string          `json:"description" db:"description"`
	SaleID        *uuid.UUID      `json:"sale_id,omitempty" db:"sale_id"`
	LoanID        *uuid.UUID      `json:"loan_id,omitempty" db:"loan_id"`
	InstallmentID *uuid.UUID      `json:"installment_id,omitempty" db:"installment_id"`
	ProductID     *uuid.UUID      `json:"product_id,omitempty" db:"product_id"`
	ClientID      *uuid.UUID      `json:"client_id,omitempty" db:"client_id"`
	SellerID      uuid.UUID       `json:"seller_id" db:"seller_id"`
	MagazineID    uuid.UUID       `json:"magazine_id" db:"magazine_id"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// LedgerEntryView adds the seller name for activity feeds.
type LedgerEntryView struct {
	LedgerEntry
	SellerName string `json:"seller_name" db:"seller_name"`
}
