package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Loan represents one installment-sale agreement: a single inventory unit
// sold to a client against a repayment schedule.
type Loan struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	ProductID       uuid.UUID       `json:"product_id" db:"product_id"`
	ClientID        uuid.UUID       `json:"client_id" db:"client_id"`
	SellerID        uuid.UUID       `json:"seller_id" db:"seller_id"`
	MagazineID      uuid.UUID       `json:"magazine_id" db:"magazine_id"`
	LoanPrice       decimal.Decimal `json:"loan_price" db:"loan_price"`
	InitialPayment  decimal.Decimal `json:"initial_payment" db:"initial_payment"`
	RemainingAmount decimal.Decimal `json:"remaining_amount" db:"remaining_amount"`
	LoanMonths      int             `json:"loan_months" db:"loan_months"`
	InterestRate    decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	MonthlyPayment  decimal.Decimal `json:"monthly_payment" db:"monthly_payment"`
	LoanStartDate   time.Time       `json:"loan_start_date" db:"loan_start_date"`
	IsCompleted     bool            `json:"is_completed" db:"is_completed"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// Attachment kinds
const (
	AttachmentKindVideo     = "video"
	AttachmentKindAgreement = "agreement"
)

// LoanAttachment is one opaque file reference belonging to a loan. The file
// itself lives in an external store; only the path is kept here.
type LoanAttachment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	LoanID    uuid.UUID `json:"loan_id" db:"loan_id"`
	Kind      string    `json:"kind" db:"kind"`
	Path      string    `json:"path" db:"path"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	ProductID       uuid.UUID       `json:"product_id" validate:"required"`
	ClientID        uuid.UUID       `json:"client_id" validate:"required"`
	LoanPrice       decimal.Decimal `json:"loan_price"`
	InitialPayment  decimal.Decimal `json:"initial_payment"`
	LoanMonths      int             `json:"loan_months" validate:"required,gt=0"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	LoanStartDate   time.Time       `json:"loan_start_date"`
	VideoURL        string          `json:"video_url,omitempty"`
	AgreementImages []string        `json:"agreement_images,omitempty"`
}

type CreateLoanResponse struct {
	Loan     *Loan          `json:"loan"`
	Schedule []*Installment `json:"schedule"`
}

// LoanView is the joined list/detail projection. Related names are fetched
// in one query at the repository boundary instead of lazy loading.
type LoanView struct {
	Loan
	ProductName     string   `json:"product_name" db:"product_name"`
	ProductModel    string   `json:"product_model" db:"product_model"`
	ClientName      string   `json:"client_name" db:"client_name"`
	ClientPhone     string   `json:"client_phone" db:"client_phone"`
	SellerName      string   `json:"seller_name" db:"seller_name"`
	VideoURL        string   `json:"video_url,omitempty" db:"-"`
	AgreementImages []string `json:"agreement_images,omitempty" db:"-"`
}

type PayFullResponse struct {
	LoanID            uuid.UUID       `json:"loan_id"`
	AmountPaid        decimal.Decimal `json:"amount_paid"`
	PaymentsSettled   int             `json:"payments_settled"`
	LoanCompleted     bool            `json:"loan_completed"`
	SettlementPayment *Installment    `json:"settlement_payment"`
}
