package seed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bibbank/credit-module/internal/domain/model"
	"github.com/bibbank/credit-module/internal/domain/port"
)

type memUsers struct {
	users   map[string]model.User
	findErr error
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (model.User, error) {
	if m.findErr != nil {
		return model.User{}, m.findErr
	}
	u, ok := m.users[username]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) Save(_ context.Context, u model.User) error {
	m.users[u.Username()] = u
	return nil
}

type memCustomers struct {
	saved []model.Customer
}

func (m *memCustomers) FindByID(context.Context, string) (model.Customer, error) {
	return model.Customer{}, model.ErrNotFound
}

func (m *memCustomers) FindByIDForUpdate(context.Context, string) (model.Customer, error) {
	return model.Customer{}, model.ErrNotFound
}

func (m *memCustomers) Save(_ context.Context, c model.Customer) error {
	m.saved = append(m.saved, c)
	return nil
}

type memUnitOfWork struct {
	stores port.Stores
}

func (u *memUnitOfWork) Do(ctx context.Context, fn func(context.Context, port.Stores) error) error {
	return fn(ctx, u.stores)
}

func newSeeder(users *memUsers, customers *memCustomers) *Seeder {
	uow := &memUnitOfWork{stores: port.Stores{Users: users, Customers: customers}}
	cfg := Config{AdminPassword: "admin-pw", CustomerPassword: "customer-pw", BcryptCost: bcrypt.MinCost}
	return NewSeeder(uow, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSeeder_Run(t *testing.T) {
	t.Run("creates admin and demo customer", func(t *testing.T) {
		users := &memUsers{users: map[string]model.User{}}
		customers := &memCustomers{}

		require.NoError(t, newSeeder(users, customers).Run(context.Background()))

		admin, ok := users.users[AdminUsername]
		require.True(t, ok)
		assert.True(t, admin.Role().IsAdmin())
		assert.Empty(t, admin.CustomerID())
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash()), []byte("admin-pw")))

		require.Len(t, customers.saved, 1)
		demo := customers.saved[0]
		assert.Equal(t, "John", demo.Name())
		assert.Equal(t, "Doe", demo.Surname())
		assert.True(t, demo.CreditLimit().Equal(DemoCreditLimit))
		assert.True(t, demo.UsedCreditLimit().IsZero())

		cust, ok := users.users[CustomerUsername]
		require.True(t, ok)
		assert.False(t, cust.Role().IsAdmin())
		assert.Equal(t, demo.ID(), cust.CustomerID())
	})

	t.Run("is idempotent", func(t *testing.T) {
		users := &memUsers{users: map[string]model.User{}}
		customers := &memCustomers{}
		s := newSeeder(users, customers)

		require.NoError(t, s.Run(context.Background()))
		adminHash := users.users[AdminUsername].PasswordHash()

		require.NoError(t, s.Run(context.Background()))
		assert.Len(t, customers.saved, 1)
		assert.Equal(t, adminHash, users.users[AdminUsername].PasswordHash())
	})

	t.Run("lookup failure aborts", func(t *testing.T) {
		users := &memUsers{users: map[string]model.User{}, findErr: errors.New("db down")}
		err := newSeeder(users, &memCustomers{}).Run(context.Background())
		assert.ErrorContains(t, err, "db down")
	})

	t.Run("empty password is rejected", func(t *testing.T) {
		users := &memUsers{users: map[string]model.User{}}
		uow := &memUnitOfWork{stores: port.Stores{Users: users, Customers: &memCustomers{}}}
		s := NewSeeder(uow, Config{BcryptCost: bcrypt.MinCost}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		assert.ErrorContains(t, s.Run(context.Background()), "seed password is empty")
	})
}
