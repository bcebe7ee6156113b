package migrations

import (
	"context"

	"github.com/irazshakir/ArazitCRM-Production/db/models"
	"github.com/uptrace/bun"
)

/* The init migration reflects the latest model fields when run on a fresh db.
Subsequent column changes need IfNotExists/IfExists in their own migration.
*/
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		tables := []interface{}{
			(*models.Transaction)(nil),
			(*models.Invoice)(nil),
			(*models.InvoiceItem)(nil),
			(*models.PaymentHistory)(nil),
		}
		for _, model := range tables {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		indexes := []struct {
			model  interface{}
			name   string
			column string
		}{
			{(*models.Transaction)(nil), "accounts_payment_date_idx", "payment_date"},
			{(*models.Invoice)(nil), "invoices_created_date_idx", "created_date"},
			{(*models.InvoiceItem)(nil), "invoice_items_invoice_id_idx", "invoice_id"},
			{(*models.PaymentHistory)(nil), "payment_history_invoice_id_idx", "invoice_id"},
		}
		for _, idx := range indexes {
			if _, err := db.NewCreateIndex().Model(idx.model).Index(idx.name).Column(idx.column).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		tables := []interface{}{
			(*models.PaymentHistory)(nil),
			(*models.InvoiceItem)(nil),
			(*models.Invoice)(nil),
			(*models.Transaction)(nil),
		}
		for _, model := range tables {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
