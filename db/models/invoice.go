package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Invoice : Invoice Model
type Invoice struct {
	bun.BaseModel `bun:"table:invoices,alias:invoice"`

	ID              int64            `json:"id" bun:",pk,autoincrement"`
	InvoiceNumber   string           `json:"invoice_number" bun:",notnull"`
	CreatedDate     time.Time        `json:"created_date" bun:"type:date,notnull"`
	DueDate         time.Time        `json:"due_date" bun:"type:date,notnull"`
	BillTo          string           `json:"bill_to" bun:",notnull"`
	Notes           string           `json:"notes" bun:",nullzero"`
	TotalAmount     decimal.Decimal  `json:"total_amount" bun:"type:numeric,notnull"`
	AmountReceived  decimal.Decimal  `json:"amount_received" bun:"type:numeric,notnull"`
	RemainingAmount decimal.Decimal  `json:"remaining_amount" bun:"type:numeric,notnull"`
	Status          string           `json:"status" bun:",notnull,default:'Pending'"`
	CreatedAt       time.Time        `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt       bun.NullTime     `json:"updated_at"`
	Items           []InvoiceItem    `json:"invoice_items,omitempty" bun:"rel:has-many,join:id=invoice_id"`
	Payments        []PaymentHistory `json:"payment_history,omitempty" bun:"rel:has-many,join:id=invoice_id"`
}

func (i *Invoice) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		now := time.Now()
		if i.CreatedAt.IsZero() {
			i.CreatedAt = now
		}
		i.UpdatedAt = bun.NullTime{Time: now}
	case *bun.UpdateQuery:
		i.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Invoice)(nil)
