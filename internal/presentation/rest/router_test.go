package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-module/internal/application/dto"
	"github.com/bibbank/credit-module/internal/application/usecase"
	"github.com/bibbank/credit-module/internal/domain/model"
	"github.com/bibbank/credit-module/internal/presentation/transport/transporttest"
	"github.com/bibbank/credit-module/pkg/auth"
	"github.com/bibbank/credit-module/pkg/testutil"
)

const ownedLoan = "00000000-0000-0000-0000-000000000299"

type testServer struct {
	handler http.Handler
	stubs   *transporttest.Stubs
	jwt     *auth.JWTService
	ready   error
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	jwtService, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "credit-test"})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := &testServer{stubs: transporttest.NewStubs(), jwt: jwtService}
	ts.stubs.Authorizer.Owned[testutil.TestCustomerID] = true
	ts.stubs.Authorizer.Owned[ownedLoan] = true

	health := NewHealthHandler("credit-module", func(context.Context) error { return ts.ready }, logger)
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "credit_loans_created_total 1\n")
	})
	ts.handler = NewRouter(ts.stubs.Services(), RouterConfig{
		Validator: jwtService,
		Health:    health,
		Metrics:   metrics,
		Logger:    logger,
	})
	return ts
}

func (ts *testServer) token(t *testing.T, username, role string) string {
	t.Helper()
	tok, err := ts.jwt.GenerateToken(testutil.TestUserID, username, []string{role})
	require.NoError(t, err)
	return tok.Value
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	ts.ready = errors.New("db down")
	rec = ts.do(t, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = ts.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "credit_loans_created_total")
}

func TestAuthentication(t *testing.T) {
	ts := newTestServer(t)
	path := "/api/v1/loans?customerId=" + testutil.TestCustomerID

	t.Run("missing header", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, path, "not-a-jwt", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, ts.stubs.ListLoans.Calls)
	})
}

func TestIssueToken(t *testing.T) {
	ts := newTestServer(t)
	ts.stubs.IssueToken.ExecuteFunc = func(_ context.Context, req dto.IssueTokenRequest) (dto.TokenResponse, error) {
		if req.Username == "admin" && req.Password == "secret" {
			return dto.TokenResponse{AccessToken: "tok", TokenType: "Bearer"}, nil
		}
		return dto.TokenResponse{}, usecase.ErrUnauthenticated
	}

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/token", "", `{"username":"admin","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.TokenResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "tok", resp.AccessToken)

	rec = ts.do(t, http.MethodPost, "/api/v1/auth/token", "", `{"username":"admin","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/auth/token", "", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateLoan(t *testing.T) {
	body := fmt.Sprintf(`{"customerId":%q,"amount":10000,"interestRate":"0.2","numberOfInstallments":12}`, testutil.TestCustomerID)

	t.Run("customer books own loan", func(t *testing.T) {
		ts := newTestServer(t)
		ts.stubs.CreateLoan.ExecuteFunc = func(_ context.Context, req dto.CreateLoanRequest) (dto.CreateLoanResponse, error) {
			return dto.CreateLoanResponse{Loan: dto.LoanResponse{ID: "loan-1", CustomerID: req.CustomerID}}, nil
		}

		rec := ts.do(t, http.MethodPost, "/api/v1/loans", ts.token(t, "customer", auth.RoleCustomer), body)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp dto.CreateLoanResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "loan-1", resp.Loan.ID)

		require.Len(t, ts.stubs.CreateLoan.Calls, 1)
		call := ts.stubs.CreateLoan.Calls[0]
		assert.True(t, call.Amount.Equal(decimal.NewFromInt(10000)))
		assert.True(t, call.InterestRate.Equal(decimal.RequireFromString("0.2")))
		assert.Equal(t, 12, call.NumberOfInstallments)
	})

	t.Run("customer cannot book for someone else", func(t *testing.T) {
		ts := newTestServer(t)
		other := `{"customerId":"someone-else","amount":100,"interestRate":0.2,"numberOfInstallments":6}`
		rec := ts.do(t, http.MethodPost, "/api/v1/loans", ts.token(t, "customer", auth.RoleCustomer), other)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, ts.stubs.CreateLoan.Calls)
	})

	t.Run("admin may book for anyone", func(t *testing.T) {
		ts := newTestServer(t)
		other := `{"customerId":"someone-else","amount":100,"interestRate":0.2,"numberOfInstallments":6}`
		rec := ts.do(t, http.MethodPost, "/api/v1/loans", ts.token(t, "admin", auth.RoleAdmin), other)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("missing customer id", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(t, http.MethodPost, "/api/v1/loans", ts.token(t, "admin", auth.RoleAdmin), `{"amount":100}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(t, http.MethodPost, "/api/v1/loans", ts.token(t, "admin", auth.RoleAdmin), `{"customerId":"c","foo":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	errorCases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("find customer: %w", model.ErrNotFound), http.StatusNotFound},
		{"invalid", fmt.Errorf("validate loan: %w", model.ErrInvalidArgument), http.StatusBadRequest},
		{"insufficient credit", fmt.Errorf("reserve credit: %w", model.ErrInsufficientCredit), http.StatusUnprocessableEntity},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range errorCases {
		t.Run("maps "+tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.stubs.CreateLoan.ExecuteFunc = func(context.Context, dto.CreateLoanRequest) (dto.CreateLoanResponse, error) {
				return dto.CreateLoanResponse{}, tc.err
			}
			rec := ts.do(t, http.MethodPost, "/api/v1/loans", ts.token(t, "admin", auth.RoleAdmin), body)
			assert.Equal(t, tc.want, rec.Code)

			var resp map[string]string
			decodeBody(t, rec, &resp)
			if tc.want == http.StatusInternalServerError {
				assert.Equal(t, "internal error", resp["error"])
			} else {
				assert.Contains(t, resp["error"], tc.err.Error())
			}
		})
	}
}

func TestListLoans(t *testing.T) {
	ts := newTestServer(t)
	tok := ts.token(t, "customer", auth.RoleCustomer)

	rec := ts.do(t, http.MethodGet, "/api/v1/loans?customerId="+testutil.TestCustomerID, tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ListLoansResponse
	decodeBody(t, rec, &resp)
	assert.NotNil(t, resp.Loans)
	require.Len(t, ts.stubs.ListLoans.Calls, 1)
	assert.Equal(t, testutil.TestCustomerID, ts.stubs.ListLoans.Calls[0].CustomerID)

	rec = ts.do(t, http.MethodGet, "/api/v1/loans", tok, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/loans?customerId=other", tok, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListInstallments(t *testing.T) {
	ts := newTestServer(t)
	tok := ts.token(t, "customer", auth.RoleCustomer)

	rec := ts.do(t, http.MethodGet, "/api/v1/loans/"+ownedLoan+"/installments", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ts.stubs.ListInstallments.Calls, 1)
	assert.Equal(t, ownedLoan, ts.stubs.ListInstallments.Calls[0].LoanID)

	rec = ts.do(t, http.MethodGet, "/api/v1/loans/"+testutil.TestLoanID+"/installments", tok, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPayLoan(t *testing.T) {
	ts := newTestServer(t)
	tok := ts.token(t, "customer", auth.RoleCustomer)
	ts.stubs.PayLoan.ExecuteFunc = func(_ context.Context, req dto.PayLoanRequest) (dto.PaymentResponse, error) {
		if !req.Amount.IsPositive() {
			return dto.PaymentResponse{}, fmt.Errorf("validate payment: %w", model.ErrInvalidArgument)
		}
		return dto.PaymentResponse{LoanID: req.LoanID, InstallmentsPaid: 2, Message: "Paid 2 installments"}, nil
	}

	rec := ts.do(t, http.MethodPost, "/api/v1/loans/"+ownedLoan+"/payments", tok, `{"amount":"2000.00"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.PaymentResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, ownedLoan, resp.LoanID)
	assert.Equal(t, 2, resp.InstallmentsPaid)

	rec = ts.do(t, http.MethodPost, "/api/v1/loans/"+ownedLoan+"/payments", tok, `{"amount":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/loans/"+testutil.TestLoanID+"/payments", tok, `{"amount":10}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthorizerFailureIsInternal(t *testing.T) {
	ts := newTestServer(t)
	ts.stubs.Authorizer.Err = errors.New("user lookup failed")

	rec := ts.do(t, http.MethodGet, "/api/v1/loans?customerId=x", ts.token(t, "customer", auth.RoleCustomer), "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
