package repository

import "context"

// TxRepos agrupa los repositorios atados a una misma transacción.
type TxRepos struct {
	Products  ProductRepository
	Movements StockMovementRepository
	Customers CustomerRepository
	Sessions  CashSessionRepository
	Sales     SaleRepository
	Audit     AuditLogRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn no falla, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
