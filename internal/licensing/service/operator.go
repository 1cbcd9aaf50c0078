package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/licensing/pkg/jwtx"
	"github.com/aussiebroadwan/licensing/pkg/slogx"
)

// Operator scopes.
const (
	ScopeLicensesRead  = "licenses:read"
	ScopeLicensesWrite = "licenses:write"
)

// OperatorSubject is the token subject for the API-key operator.
const OperatorSubject = "operator"

var (
	ErrInvalidAPIKey        = errors.New("invalid operator api key")
	ErrOperatorAuthDisabled = errors.New("operator authentication is not configured")
)

// OperatorService swaps the shared operator API key for a short-lived
// bearer token. Admin rights are only ever derived from a verified token.
type OperatorService struct {
	APIKey string
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

// OperatorToken is an issued bearer token.
type OperatorToken struct {
	AccessToken string
	ExpiresIn   time.Duration
	Scopes      []string
}

func (s *OperatorService) IssueToken(ctx context.Context, apiKey string) (OperatorToken, error) {
	log := slogx.FromContext(ctx)

	if s.APIKey == "" || s.Signer == nil {
		log.Warn("operator token requested but operator auth is disabled")
		return OperatorToken{}, ErrOperatorAuthDisabled
	}
	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.APIKey)) != 1 {
		log.Warn("operator token rejected: bad api key")
		return OperatorToken{}, ErrInvalidAPIKey
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultOperatorTokenTTL
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	scopes := []string{ScopeLicensesRead, ScopeLicensesWrite}
	token, err := s.Signer.Sign(jwtx.NewClaims(OperatorSubject, s.Issuer, scopes, ttl, now))
	if err != nil {
		log.Error("failed to sign operator token", slog.Any("error", err))
		return OperatorToken{}, err
	}

	log.Info("operator token issued", slog.Duration("ttl", ttl))
	return OperatorToken{AccessToken: token, ExpiresIn: ttl, Scopes: scopes}, nil
}
