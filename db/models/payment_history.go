package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// PaymentHistory rows are append only: there is no update path in the
// store and the database rejects UPDATE and DELETE on the table.
type PaymentHistory struct {
	bun.BaseModel `bun:"table:payment_history,alias:payment"`

	ID              int64           `json:"id" bun:",pk,autoincrement"`
	InvoiceID       int64           `json:"invoice_id" bun:",notnull"`
	Amount          decimal.Decimal `json:"amount" bun:"type:numeric,notnull"`
	PaymentType     string          `json:"payment_type" bun:",notnull"`
	PaymentDate     time.Time       `json:"payment_date" bun:",notnull"`
	RemainingAmount decimal.Decimal `json:"remaining_amount" bun:"type:numeric,notnull"`
	PaymentNotes    string          `json:"payment_notes" bun:",nullzero"`
	CreatedAt       time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
