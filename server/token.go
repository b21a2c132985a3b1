package server

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-usermgmt"
)

// TokenClaims is the JWT payload issued at login.
type TokenClaims struct {
	jwt.RegisteredClaims
	UID      string            `json:"uid,omitempty"`
	UserRole usermgmt.UserRole `json:"role,omitempty"`
	Username string            `json:"username,omitempty"`
}

// TokenService mints and validates bearer credentials.
type TokenService interface {
	Generate(user *User) (string, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey      []byte
	tokenExpiration int
	issuer          string
	logger          usermgmt.Logger
}

// NewTokenService creates a new TokenService instance. tokenExpiration is in
// hours.
func NewTokenService(signingKey []byte, tokenExpiration int, issuer string, logger usermgmt.Logger) TokenService {
	return &TokenServiceImpl{
		signingKey:      signingKey,
		tokenExpiration: tokenExpiration,
		issuer:          issuer,
		logger:          logger,
	}
}

// Generate creates a signed JWT carrying the user's identity and role.
func (ts *TokenServiceImpl) Generate(user *User) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ts.tokenExpiration) * time.Hour)),
		},
		UID:      user.ID.String(),
		UserRole: user.Role,
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}
	return signed, nil
}

// Validate parses and validates a token string, returning structured claims
func (ts *TokenServiceImpl) Validate(tokenString string) (*TokenClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		category := goerrors.CategoryAuth
		message := "invalid authentication token"
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			message = "token is expired"
		}
		return nil, goerrors.Wrap(err, category, message).
			WithCode(goerrors.CodeUnauthorized)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, goerrors.New("unable to map token claims", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized)
	}

	return claims, nil
}
