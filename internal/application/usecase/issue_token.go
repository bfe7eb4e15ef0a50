package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bibbank/credit-module/internal/application/dto"
	"github.com/bibbank/credit-module/internal/domain/model"
	"github.com/bibbank/credit-module/internal/domain/port"
	"github.com/bibbank/credit-module/pkg/auth"
)

// ErrUnauthenticated is returned for unknown users and wrong passwords alike.
var ErrUnauthenticated = errors.New("invalid username or password")

// TokenIssuer signs bearer tokens. Satisfied by *auth.JWTService.
type TokenIssuer interface {
	GenerateToken(userID, username string, roles []string) (auth.Token, error)
}

// IssueTokenUseCase exchanges credentials for a bearer token.
type IssueTokenUseCase struct {
	userRepo port.UserRepository
	issuer   TokenIssuer
}

// NewIssueTokenUseCase wires dependencies.
func NewIssueTokenUseCase(userRepo port.UserRepository, issuer TokenIssuer) *IssueTokenUseCase {
	return &IssueTokenUseCase{userRepo: userRepo, issuer: issuer}
}

// Execute verifies the password against the stored bcrypt hash.
func (uc *IssueTokenUseCase) Execute(ctx context.Context, req dto.IssueTokenRequest) (dto.TokenResponse, error) {
	ctx, span := tracer.Start(ctx, "IssueToken")
	defer span.End()

	// 1. Look up the user.
	user, err := uc.userRepo.FindByUsername(ctx, req.Username)
	if errors.Is(err, model.ErrNotFound) {
		return dto.TokenResponse{}, ErrUnauthenticated
	}
	if err != nil {
		return dto.TokenResponse{}, fmt.Errorf("find user: %w", err)
	}

	// 2. Check the password.
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash()), []byte(req.Password)); err != nil {
		return dto.TokenResponse{}, ErrUnauthenticated
	}

	// 3. Sign the token.
	token, err := uc.issuer.GenerateToken(user.ID(), user.Username(), []string{user.Role().String()})
	if err != nil {
		return dto.TokenResponse{}, fmt.Errorf("generate token: %w", err)
	}

	return dto.TokenResponse{
		AccessToken: token.Value,
		TokenType:   "Bearer",
		ExpiresAt:   token.ExpiresAt,
	}, nil
}
