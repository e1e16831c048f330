package models

// All lists every persisted model, ordered so referenced tables are created
// before the tables pointing at them.
func All() []any {
	return []any{
		&User{},
		&Shoe{},
		&Stock{},
		&ExchangeRate{},
		&Sale{},
		&Expense{},
		&Supplier{},
		&Purchase{},
		&SupplierPayment{},
		&ActivityLog{},
	}
}
