package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

func init() {
	// amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Transaction : a single row of the accounts ledger
type Transaction struct {
	bun.BaseModel `bun:"table:accounts,alias:account"`

	ID                 int64           `json:"id" bun:",pk,autoincrement"`
	PaymentDate        time.Time       `json:"payment_date" bun:",notnull"`
	PaymentType        string          `json:"payment_type" bun:",notnull"`
	PaymentMode        string          `json:"payment_mode" bun:",notnull"`
	Amount             decimal.Decimal `json:"amount" bun:"type:numeric,notnull"`
	PaymentCreditDebit string          `json:"payment_credit_debit" bun:",notnull"`
	ClientName         string          `json:"client_name" bun:",nullzero"`
	Notes              string          `json:"notes" bun:",nullzero"`
	CreatedAt          time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt          bun.NullTime    `json:"updated_at"`
}

func (t *Transaction) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		now := time.Now()
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		t.UpdatedAt = bun.NullTime{Time: now}
	case *bun.UpdateQuery:
		t.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Transaction)(nil)
