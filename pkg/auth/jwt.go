package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails validation.
var ErrInvalidToken = errors.New("invalid token")

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	// Secret is the HMAC-SHA256 key. Ignored when PrivateKeyPEM is set.
	Secret string

	// PrivateKeyPEM switches signing to RS256.
	PrivateKeyPEM string

	Issuer     string
	Expiration time.Duration
}

// Token is a signed JWT together with its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// JWTService issues and validates bearer tokens.
type JWTService struct {
	config     JWTConfig
	privateKey *rsa.PrivateKey
	now        func() time.Time
}

// NewJWTService creates a JWTService. Either Secret or PrivateKeyPEM is required.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	svc := &JWTService{config: cfg, now: time.Now}

	switch {
	case cfg.PrivateKeyPEM != "":
		key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.PrivateKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse RSA private key: %w", err)
		}
		svc.privateKey = key
	case cfg.Secret != "":
	default:
		return nil, errors.New("jwt configuration requires Secret or PrivateKeyPEM")
	}

	if svc.config.Expiration <= 0 {
		svc.config.Expiration = time.Hour
	}
	return svc, nil
}

// GenerateToken signs a token for the given user.
func (s *JWTService) GenerateToken(userID, username string, roles []string) (Token, error) {
	now := s.now()
	expiresAt := now.Add(s.config.Expiration)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		UserID: userID,
		Roles:  roles,
	}

	var (
		signed string
		err    error
	)
	if s.privateKey != nil {
		signed, err = jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	} else {
		signed, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	}
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses a token string and checks signature, expiry and issuer.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.now)}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	if s.privateKey != nil {
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	} else {
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		if s.privateKey != nil {
			return &s.privateKey.PublicKey, nil
		}
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// LoadKeyFromFile reads a PEM-encoded key from a file path.
func LoadKeyFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read key file %q: %w", path, err)
	}
	return string(data), nil
}
