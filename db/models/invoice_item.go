package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type InvoiceItem struct {
	bun.BaseModel `bun:"table:invoice_items,alias:item"`

	ID          int64           `json:"id" bun:",pk,autoincrement"`
	InvoiceID   int64           `json:"invoice_id" bun:",notnull"`
	ServiceName string          `json:"service_name" bun:",notnull"`
	Description string          `json:"description" bun:",nullzero"`
	Amount      decimal.Decimal `json:"amount" bun:"type:numeric,notnull"`
	CreatedAt   time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
