package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/bibbank/credit-module/internal/domain/port"
	pgutil "github.com/bibbank/credit-module/pkg/postgres"
)

// UnitOfWork implements port.UnitOfWork on one read-committed transaction.
type UnitOfWork struct {
	db pgutil.TxStarter
}

func NewUnitOfWork(db pgutil.TxStarter) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do commits only when fn returns nil.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores port.Stores) error) error {
	return pgutil.WithTransaction(ctx, u.db, func(tx pgx.Tx) error {
		return fn(ctx, NewStores(tx))
	})
}

// NewStores binds every repository to db.
func NewStores(db pgutil.Querier) port.Stores {
	return port.Stores{
		Customers:    NewCustomerRepo(db),
		Loans:        NewLoanRepo(db),
		Installments: NewInstallmentRepo(db),
		Users:        NewUserRepo(db),
		Outbox:       NewOutboxRepo(db),
	}
}
