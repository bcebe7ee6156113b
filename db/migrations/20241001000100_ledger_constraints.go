package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if db.Dialect().Name().String() != "pg" {
			fmt.Printf("\033[1;31m%s\033[0m", "You are not using PostgreSQL. DB level checks can not be enabled!\n")
			return nil
		}
		sql := `
			-- amounts are never negative
				ALTER TABLE accounts
				ADD CONSTRAINT check_amount_not_negative
				CHECK (amount >= 0);

				ALTER TABLE invoices
				ADD CONSTRAINT check_invoice_amounts_not_negative
				CHECK (total_amount >= 0 AND amount_received >= 0 AND remaining_amount >= 0);

			-- received + remaining always adds up to the total, no overpayment
				ALTER TABLE invoices
				ADD CONSTRAINT check_invoice_balance
				CHECK (amount_received + remaining_amount = total_amount AND amount_received <= total_amount);

			-- children go away with their invoice
				ALTER TABLE invoice_items
				ADD CONSTRAINT invoice_items_invoice_id_fkey
				FOREIGN KEY (invoice_id) REFERENCES invoices (id) ON DELETE CASCADE;

				ALTER TABLE payment_history
				ADD CONSTRAINT payment_history_invoice_id_fkey
				FOREIGN KEY (invoice_id) REFERENCES invoices (id);

			-- payment history is append only
				CREATE OR REPLACE FUNCTION reject_payment_history_change()
					RETURNS TRIGGER AS $$
				BEGIN
					RAISE EXCEPTION 'payment_history is append only [id:%]', OLD.id;
				END;
				$$ LANGUAGE plpgsql;
				CREATE TRIGGER payment_history_append_only
				BEFORE UPDATE OR DELETE ON payment_history
				FOR EACH ROW EXECUTE PROCEDURE reject_payment_history_change();
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	}, nil)
}
