package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-module/internal/domain/model"
	pgutil "github.com/bibbank/credit-module/pkg/postgres"
)

// InstallmentRepo implements port.InstallmentRepository.
type InstallmentRepo struct {
	db pgutil.Querier
}

func NewInstallmentRepo(db pgutil.Querier) *InstallmentRepo {
	return &InstallmentRepo{db: db}
}

// Save upserts installments in a single batch round trip.
func (r *InstallmentRepo) Save(ctx context.Context, installments ...model.Installment) error {
	if len(installments) == 0 {
		return nil
	}
	const query = `
		INSERT INTO loan_installments (
			id, loan_id, amount, paid_amount, due_date, payment_date, is_paid
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET
			paid_amount  = EXCLUDED.paid_amount,
			payment_date = EXCLUDED.payment_date,
			is_paid      = EXCLUDED.is_paid
	`
	batch := &pgx.Batch{}
	for _, inst := range installments {
		batch.Queue(query,
			inst.ID(), inst.LoanID(), inst.Amount(), inst.PaidAmount(),
			inst.DueDate(), inst.PaymentDate(), inst.IsPaid(),
		)
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for _, inst := range installments {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("save installment %s: %w", inst.ID(), err)
		}
	}
	return nil
}

// FindByLoanID returns the schedule ordered by due date.
func (r *InstallmentRepo) FindByLoanID(ctx context.Context, loanID string) ([]model.Installment, error) {
	if !validID(loanID) {
		return nil, nil
	}
	const query = `
		SELECT id, loan_id, amount, paid_amount, due_date, payment_date, is_paid
		FROM loan_installments
		WHERE loan_id = $1
		ORDER BY due_date, id
	`
	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()

	var result []model.Installment
	for rows.Next() {
		var (
			id, lid            string
			amount, paidAmount decimal.Decimal
			dueDate            time.Time
			paymentDate        *time.Time
			isPaid             bool
		)
		if err := rows.Scan(&id, &lid, &amount, &paidAmount, &dueDate, &paymentDate, &isPaid); err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		if paymentDate != nil {
			d := model.DateOf(*paymentDate)
			paymentDate = &d
		}
		result = append(result, model.ReconstructInstallment(
			id, lid, amount, paidAmount, model.DateOf(dueDate), paymentDate, isPaid,
		))
	}
	return result, rows.Err()
}
