package port

import (
	"context"

	"github.com/bibbank/credit-module/internal/domain/model"
	"github.com/bibbank/credit-module/pkg/events"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// Find methods return an error wrapping model.ErrNotFound when no row matches.

// CustomerRepository persists and retrieves customers.
type CustomerRepository interface {
	FindByID(ctx context.Context, id string) (model.Customer, error)
	// FindByIDForUpdate locks the customer row until the surrounding unit of work ends.
	FindByIDForUpdate(ctx context.Context, id string) (model.Customer, error)
	Save(ctx context.Context, customer model.Customer) error
}

// LoanRepository persists and retrieves loans.
type LoanRepository interface {
	FindByID(ctx context.Context, id string) (model.Loan, error)
	// FindByIDForUpdate locks the loan row until the surrounding unit of work ends.
	FindByIDForUpdate(ctx context.Context, id string) (model.Loan, error)
	FindByCustomerID(ctx context.Context, customerID string) ([]model.Loan, error)
	Save(ctx context.Context, loan model.Loan) error
}

// InstallmentRepository persists and retrieves loan installments.
type InstallmentRepository interface {
	Save(ctx context.Context, installments ...model.Installment) error
	// FindByLoanID returns the loan's installments ordered by due date.
	FindByLoanID(ctx context.Context, loanID string) ([]model.Installment, error)
}

// UserRepository reads API accounts. Save is used by seeding only.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	Save(ctx context.Context, user model.User) error
}

// OutboxRepository is the shared transactional outbox port.
type OutboxRepository = events.OutboxRepository

// ---------------------------------------------------------------------------
// Unit of work
// ---------------------------------------------------------------------------

// Stores bundles repositories bound to one transaction.
type Stores struct {
	Customers    CustomerRepository
	Loans        LoanRepository
	Installments InstallmentRepository
	Users        UserRepository
	Outbox       OutboxRepository
}

// UnitOfWork runs fn inside a single transaction. The transaction commits
// only when fn returns nil.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}

// ---------------------------------------------------------------------------
// Event publishing and metrics
// ---------------------------------------------------------------------------

// EventPublisher publishes outbox entries to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, entries ...events.OutboxEntry) error
}

// Metrics records business counters.
type Metrics interface {
	LoanCreated(ctx context.Context, loanAmount float64, installments int)
	PaymentApplied(ctx context.Context, installmentsPaid int, loanPaid bool)
}
