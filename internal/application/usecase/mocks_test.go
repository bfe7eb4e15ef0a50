package usecase_test

import (
	"context"
	"fmt"

	"github.com/bibbank/credit-module/internal/domain/model"
	"github.com/bibbank/credit-module/internal/domain/port"
	"github.com/bibbank/credit-module/pkg/auth"
	"github.com/bibbank/credit-module/pkg/events"
)

// ---------------------------------------------------------------------------
// Repository mocks
// ---------------------------------------------------------------------------

type mockCustomerRepository struct {
	findByIDFunc          func(ctx context.Context, id string) (model.Customer, error)
	findByIDForUpdateFunc func(ctx context.Context, id string) (model.Customer, error)
	saveFunc              func(ctx context.Context, c model.Customer) error
	savedCustomers        []model.Customer
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id string) (model.Customer, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Customer{}, fmt.Errorf("customer %s: %w", id, model.ErrNotFound)
}

func (m *mockCustomerRepository) FindByIDForUpdate(ctx context.Context, id string) (model.Customer, error) {
	if m.findByIDForUpdateFunc != nil {
		return m.findByIDForUpdateFunc(ctx, id)
	}
	return m.FindByID(ctx, id)
}

func (m *mockCustomerRepository) Save(ctx context.Context, c model.Customer) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, c); err != nil {
			return err
		}
	}
	m.savedCustomers = append(m.savedCustomers, c)
	return nil
}

type mockLoanRepository struct {
	findByIDFunc          func(ctx context.Context, id string) (model.Loan, error)
	findByIDForUpdateFunc func(ctx context.Context, id string) (model.Loan, error)
	findByCustomerIDFunc  func(ctx context.Context, customerID string) ([]model.Loan, error)
	saveFunc              func(ctx context.Context, l model.Loan) error
	savedLoans            []model.Loan
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id string) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Loan{}, fmt.Errorf("loan %s: %w", id, model.ErrNotFound)
}

func (m *mockLoanRepository) FindByIDForUpdate(ctx context.Context, id string) (model.Loan, error) {
	if m.findByIDForUpdateFunc != nil {
		return m.findByIDForUpdateFunc(ctx, id)
	}
	return m.FindByID(ctx, id)
}

func (m *mockLoanRepository) FindByCustomerID(ctx context.Context, customerID string) ([]model.Loan, error) {
	if m.findByCustomerIDFunc != nil {
		return m.findByCustomerIDFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *mockLoanRepository) Save(ctx context.Context, l model.Loan) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, l); err != nil {
			return err
		}
	}
	m.savedLoans = append(m.savedLoans, l)
	return nil
}

// mockInstallmentRepository keeps an in-memory schedule so that a payment
// can save installments and read them back.
type mockInstallmentRepository struct {
	findByLoanIDFunc  func(ctx context.Context, loanID string) ([]model.Installment, error)
	saveFunc          func(ctx context.Context, insts ...model.Installment) error
	installments      []model.Installment
	savedInstallments []model.Installment
}

func (m *mockInstallmentRepository) Save(ctx context.Context, insts ...model.Installment) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, insts...); err != nil {
			return err
		}
	}
	for _, inst := range insts {
		m.savedInstallments = append(m.savedInstallments, inst)
		replaced := false
		for i := range m.installments {
			if m.installments[i].ID() == inst.ID() {
				m.installments[i] = inst
				replaced = true
			}
		}
		if !replaced {
			m.installments = append(m.installments, inst)
		}
	}
	return nil
}

func (m *mockInstallmentRepository) FindByLoanID(ctx context.Context, loanID string) ([]model.Installment, error) {
	if m.findByLoanIDFunc != nil {
		return m.findByLoanIDFunc(ctx, loanID)
	}
	var out []model.Installment
	for _, inst := range m.installments {
		if inst.LoanID() == loanID {
			out = append(out, inst)
		}
	}
	return out, nil
}

type mockUserRepository struct {
	findByUsernameFunc func(ctx context.Context, username string) (model.User, error)
	savedUsers         []model.User
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return model.User{}, fmt.Errorf("user %s: %w", username, model.ErrNotFound)
}

func (m *mockUserRepository) Save(_ context.Context, u model.User) error {
	m.savedUsers = append(m.savedUsers, u)
	return nil
}

type mockOutboxRepository struct {
	storeFunc     func(ctx context.Context, entries []events.OutboxEntry) error
	storedEntries []events.OutboxEntry
}

func (m *mockOutboxRepository) Store(ctx context.Context, entries []events.OutboxEntry) error {
	if m.storeFunc != nil {
		if err := m.storeFunc(ctx, entries); err != nil {
			return err
		}
	}
	m.storedEntries = append(m.storedEntries, entries...)
	return nil
}

func (m *mockOutboxRepository) FetchUnpublished(context.Context, int) ([]events.OutboxEntry, error) {
	return nil, nil
}

func (m *mockOutboxRepository) MarkPublished(context.Context, []string) error { return nil }

// ---------------------------------------------------------------------------
// Unit of work, metrics and token issuer
// ---------------------------------------------------------------------------

type mockUnitOfWork struct {
	stores port.Stores
	calls  int
}

func (m *mockUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, s port.Stores) error) error {
	m.calls++
	return fn(ctx, m.stores)
}

type mockMetrics struct {
	loansCreated    int
	paymentsApplied int
	lastLoanPaid    bool
}

func (m *mockMetrics) LoanCreated(context.Context, float64, int) { m.loansCreated++ }

func (m *mockMetrics) PaymentApplied(_ context.Context, _ int, loanPaid bool) {
	m.paymentsApplied++
	m.lastLoanPaid = loanPaid
}

type mockTokenIssuer struct {
	generateFunc func(userID, username string, roles []string) (auth.Token, error)
}

func (m *mockTokenIssuer) GenerateToken(userID, username string, roles []string) (auth.Token, error) {
	return m.generateFunc(userID, username, roles)
}

// fixture bundles one set of mocks behind a unit of work.
type fixture struct {
	customers    *mockCustomerRepository
	loans        *mockLoanRepository
	installments *mockInstallmentRepository
	users        *mockUserRepository
	outbox       *mockOutboxRepository
	uow          *mockUnitOfWork
	metrics      *mockMetrics
}

func newFixture() *fixture {
	f := &fixture{
		customers:    &mockCustomerRepository{},
		loans:        &mockLoanRepository{},
		installments: &mockInstallmentRepository{},
		users:        &mockUserRepository{},
		outbox:       &mockOutboxRepository{},
		metrics:      &mockMetrics{},
	}
	f.uow = &mockUnitOfWork{stores: port.Stores{
		Customers:    f.customers,
		Loans:        f.loans,
		Installments: f.installments,
		Users:        f.users,
		Outbox:       f.outbox,
	}}
	return f
}
