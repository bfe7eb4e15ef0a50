package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "credit-test",
		Expiration: 15 * time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_RequiresKey(t *testing.T) {
	_, err := NewJWTService(JWTConfig{Issuer: "x"})
	require.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.GenerateToken("user-1", "customer", []string{RoleCustomer})
	require.NoError(t, err)
	require.NotEmpty(t, token.Value)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), token.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, "customer", claims.Username())
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, []string{RoleCustomer}, claims.Roles)
	assert.Equal(t, "credit-test", claims.Issuer)
}

func TestGenerateAndValidateToken_RSA(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	svc, err := NewJWTService(JWTConfig{PrivateKeyPEM: string(keyPEM), Issuer: "credit-test"})
	require.NoError(t, err)

	token, err := svc.GenerateToken("user-2", "admin", []string{RoleAdmin})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.Value)
	require.NoError(t, err)
	assert.True(t, claims.HasRole(RoleAdmin))

	// An HMAC service must not accept an RS256 token.
	_, err = newTestJWTService(t).ValidateToken(token.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestJWTService(t)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := svc.GenerateToken("user-1", "customer", []string{RoleCustomer})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_InvalidSignature(t *testing.T) {
	other, err := NewJWTService(JWTConfig{Secret: "another-secret", Issuer: "credit-test"})
	require.NoError(t, err)

	token, err := other.GenerateToken("user-1", "customer", nil)
	require.NoError(t, err)

	_, err = newTestJWTService(t).ValidateToken(token.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	other, err := NewJWTService(JWTConfig{Secret: "test-secret-key-for-unit-tests", Issuer: "someone-else"})
	require.NoError(t, err)

	token, err := other.GenerateToken("user-1", "customer", nil)
	require.NoError(t, err)

	_, err = newTestJWTService(t).ValidateToken(token.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHasRole(t *testing.T) {
	claims := Claims{Roles: []string{RoleAdmin}}
	assert.True(t, claims.HasRole(RoleAdmin))
	assert.False(t, claims.HasRole(RoleCustomer))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer abc", want: "abc", ok: true},
		{header: "bearer abc", want: "abc", ok: true},
		{header: "Basic abc", ok: false},
		{header: "Bearer ", ok: false},
		{header: "abc", ok: false},
		{header: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClaimsFromContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	expected := &Claims{UserID: "user-1", Roles: []string{RoleCustomer}}
	got, ok := ClaimsFromContext(ContextWithClaims(context.Background(), expected))
	require.True(t, ok)
	assert.Same(t, expected, got)
}

func TestUnaryAuthInterceptor(t *testing.T) {
	svc := newTestJWTService(t)
	interceptor := UnaryAuthInterceptor(svc, []string{"/grpc.health.v1.Health/Check"})

	var seen *Claims
	handler := func(ctx context.Context, req any) (any, error) {
		seen, _ = ClaimsFromContext(ctx)
		return "ok", nil
	}

	t.Run("skipped method", func(t *testing.T) {
		seen = nil
		resp, err := interceptor(context.Background(), nil,
			&grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
		assert.Nil(t, seen)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil,
			&grpc.UnaryServerInfo{FullMethod: "/credit.v1.CreditService/ListLoans"}, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("invalid token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer garbage"))
		_, err := interceptor(ctx, nil,
			&grpc.UnaryServerInfo{FullMethod: "/credit.v1.CreditService/ListLoans"}, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := svc.GenerateToken("user-1", "admin", []string{RoleAdmin})
		require.NoError(t, err)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token.Value))

		_, err = interceptor(ctx, nil,
			&grpc.UnaryServerInfo{FullMethod: "/credit.v1.CreditService/ListLoans"}, handler)
		require.NoError(t, err)
		require.NotNil(t, seen)
		assert.Equal(t, "admin", seen.Username())
	})
}
