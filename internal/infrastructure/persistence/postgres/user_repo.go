package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bibbank/credit-module/internal/domain/model"
	"github.com/bibbank/credit-module/internal/domain/valueobject"
	pgutil "github.com/bibbank/credit-module/pkg/postgres"
)

// UserRepo implements port.UserRepository.
type UserRepo struct {
	db pgutil.Querier
}

func NewUserRepo(db pgutil.Querier) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	const query = `
		SELECT id, username, password_hash, role, customer_id
		FROM users
		WHERE username = $1
	`
	var (
		id, name, hash, roleStr string
		customerID              *string
	)
	err := r.db.QueryRow(ctx, query, username).Scan(&id, &name, &hash, &roleStr, &customerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, fmt.Errorf("user %q: %w", username, model.ErrNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("scan user: %w", err)
	}
	role, err := valueobject.NewRole(roleStr)
	if err != nil {
		return model.User{}, fmt.Errorf("parse role: %w", err)
	}
	var cid string
	if customerID != nil {
		cid = *customerID
	}
	return model.ReconstructUser(id, name, hash, role, cid), nil
}

// Save inserts the user. Existing usernames are left untouched.
func (r *UserRepo) Save(ctx context.Context, u model.User) error {
	const query = `
		INSERT INTO users (id, username, password_hash, role, customer_id)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (username) DO NOTHING
	`
	var customerID *string
	if u.CustomerID() != "" {
		cid := u.CustomerID()
		customerID = &cid
	}
	if _, err := r.db.Exec(ctx, query, u.ID(), u.Username(), u.PasswordHash(), u.Role().String(), customerID); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}
