package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-module/internal/domain/model"
	pgutil "github.com/bibbank/credit-module/pkg/postgres"
)

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	db pgutil.Querier
}

func NewLoanRepo(db pgutil.Querier) *LoanRepo {
	return &LoanRepo{db: db}
}

const loanColumns = `
	id, customer_id, loan_amount, number_of_installments, create_date,
	is_paid, version, created_at, updated_at`

// Save persists a loan (upsert by ID with optimistic locking). Only the paid
// flag changes after creation.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			is_paid    = EXCLUDED.is_paid,
			version    = loans.version + 1,
			updated_at = EXCLUDED.updated_at
		WHERE loans.version = $7
	`
	tag, err := r.db.Exec(ctx, query,
		loan.ID(), loan.CustomerID(), loan.LoanAmount(),
		loan.NumberOfInstallments(), loan.CreateDate(),
		loan.IsPaid(), loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("loan %s: %w", loan.ID(), ErrConcurrentModification)
	}
	return nil
}

func (r *LoanRepo) FindByID(ctx context.Context, id string) (model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// FindByIDForUpdate locks the row until the enclosing transaction ends.
func (r *LoanRepo) FindByIDForUpdate(ctx context.Context, id string) (model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

// FindByCustomerID lists a customer's loans, oldest first.
func (r *LoanRepo) FindByCustomerID(ctx context.Context, customerID string) ([]model.Loan, error) {
	if !validID(customerID) {
		return nil, nil
	}
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE customer_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var result []model.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, loan)
	}
	return result, rows.Err()
}

func (r *LoanRepo) scanOne(ctx context.Context, query, id string) (model.Loan, error) {
	if !validID(id) {
		return model.Loan{}, fmt.Errorf("loan %s: %w", id, model.ErrNotFound)
	}
	loan, err := scanLoan(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Loan{}, fmt.Errorf("loan %s: %w", id, model.ErrNotFound)
	}
	return loan, err
}

func scanLoan(row pgx.Row) (model.Loan, error) {
	var (
		id, customerID       string
		loanAmount           decimal.Decimal
		installments         int
		createDate           time.Time
		isPaid               bool
		version              int
		createdAt, updatedAt time.Time
	)
	err := row.Scan(
		&id, &customerID, &loanAmount, &installments, &createDate,
		&isPaid, &version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Loan{}, fmt.Errorf("scan loan: %w", err)
	}
	return model.ReconstructLoan(
		id, customerID, loanAmount, installments, model.DateOf(createDate),
		isPaid, version, createdAt, updatedAt,
	), nil
}
