package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/bibbank/credit-module/internal/domain/model"
	"github.com/bibbank/credit-module/internal/domain/port"
	"github.com/bibbank/credit-module/internal/domain/valueobject"
)

const (
	AdminUsername    = "admin"
	CustomerUsername = "customer"
)

// DemoCreditLimit is the credit line of the seeded demo customer.
var DemoCreditLimit = decimal.NewFromInt(50000)

type Config struct {
	AdminPassword    string
	CustomerPassword string
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Seeder creates the admin account and a demo customer with a login on
// first start. Accounts that already exist are left untouched.
type Seeder struct {
	uow    port.UnitOfWork
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

func NewSeeder(uow port.UnitOfWork, cfg Config, logger *slog.Logger) *Seeder {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Seeder{uow: uow, cfg: cfg, logger: logger, now: time.Now}
}

func (s *Seeder) Run(ctx context.Context) error {
	return s.uow.Do(ctx, func(ctx context.Context, stores port.Stores) error {
		if err := s.ensureAdmin(ctx, stores); err != nil {
			return err
		}
		return s.ensureCustomer(ctx, stores)
	})
}

func (s *Seeder) ensureAdmin(ctx context.Context, stores port.Stores) error {
	exists, err := userExists(ctx, stores.Users, AdminUsername)
	if err != nil || exists {
		return err
	}

	hash, err := s.hash(s.cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin, err := model.NewUser(AdminUsername, hash, valueobject.RoleAdmin, "")
	if err != nil {
		return fmt.Errorf("build admin user: %w", err)
	}
	if err := stores.Users.Save(ctx, admin); err != nil {
		return fmt.Errorf("save admin user: %w", err)
	}
	s.logger.InfoContext(ctx, "seeded user", "username", AdminUsername, "role", valueobject.RoleAdmin.String())
	return nil
}

func (s *Seeder) ensureCustomer(ctx context.Context, stores port.Stores) error {
	exists, err := userExists(ctx, stores.Users, CustomerUsername)
	if err != nil || exists {
		return err
	}

	customer, err := model.NewCustomer("John", "Doe", DemoCreditLimit, s.now().UTC())
	if err != nil {
		return fmt.Errorf("build demo customer: %w", err)
	}
	if err := stores.Customers.Save(ctx, customer); err != nil {
		return fmt.Errorf("save demo customer: %w", err)
	}

	hash, err := s.hash(s.cfg.CustomerPassword)
	if err != nil {
		return err
	}
	user, err := model.NewUser(CustomerUsername, hash, valueobject.RoleCustomer, customer.ID())
	if err != nil {
		return fmt.Errorf("build customer user: %w", err)
	}
	if err := stores.Users.Save(ctx, user); err != nil {
		return fmt.Errorf("save customer user: %w", err)
	}
	s.logger.InfoContext(ctx, "seeded user",
		"username", CustomerUsername,
		"role", valueobject.RoleCustomer.String(),
		"customer_id", customer.ID(),
	)
	return nil
}

func (s *Seeder) hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("seed password is empty")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func userExists(ctx context.Context, users port.UserRepository, username string) (bool, error) {
	_, err := users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, model.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("look up user %q: %w", username, err)
	}
}
