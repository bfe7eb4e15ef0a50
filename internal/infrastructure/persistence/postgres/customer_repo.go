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

// ErrConcurrentModification is returned by Save when the stored version no
// longer matches the aggregate's.
var ErrConcurrentModification = errors.New("optimistic locking conflict")

// CustomerRepo implements port.CustomerRepository.
type CustomerRepo struct {
	db pgutil.Querier
}

// NewCustomerRepo creates a repository on a pool or a transaction.
func NewCustomerRepo(db pgutil.Querier) *CustomerRepo {
	return &CustomerRepo{db: db}
}

const selectCustomer = `
	SELECT id, name, surname, credit_limit, used_credit_limit,
	       version, created_at, updated_at
	FROM customers
	WHERE id = $1`

// Save upserts the customer with optimistic locking.
func (r *CustomerRepo) Save(ctx context.Context, c model.Customer) error {
	query := `
		INSERT INTO customers (
			id, name, surname, credit_limit, used_credit_limit,
			version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET
			name              = EXCLUDED.name,
			surname           = EXCLUDED.surname,
			credit_limit      = EXCLUDED.credit_limit,
			used_credit_limit = EXCLUDED.used_credit_limit,
			version           = customers.version + 1,
			updated_at        = EXCLUDED.updated_at
		WHERE customers.version = $6
	`
	tag, err := r.db.Exec(ctx, query,
		c.ID(), c.Name(), c.Surname(),
		c.CreditLimit(), c.UsedCreditLimit(),
		c.Version(), c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %s: %w", c.ID(), ErrConcurrentModification)
	}
	return nil
}

func (r *CustomerRepo) FindByID(ctx context.Context, id string) (model.Customer, error) {
	if !validID(id) {
		return model.Customer{}, fmt.Errorf("customer %s: %w", id, model.ErrNotFound)
	}
	return scanCustomer(r.db.QueryRow(ctx, selectCustomer, id), id)
}

// FindByIDForUpdate locks the row until the enclosing transaction ends.
func (r *CustomerRepo) FindByIDForUpdate(ctx context.Context, id string) (model.Customer, error) {
	if !validID(id) {
		return model.Customer{}, fmt.Errorf("customer %s: %w", id, model.ErrNotFound)
	}
	return scanCustomer(r.db.QueryRow(ctx, selectCustomer+" FOR UPDATE", id), id)
}

func scanCustomer(row pgx.Row, id string) (model.Customer, error) {
	var (
		cid, name, surname   string
		limit, used          decimal.Decimal
		version              int
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&cid, &name, &surname, &limit, &used, &version, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Customer{}, fmt.Errorf("customer %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return model.Customer{}, fmt.Errorf("scan customer: %w", err)
	}
	return model.ReconstructCustomer(cid, name, surname, limit, used, version, createdAt, updatedAt), nil
}
