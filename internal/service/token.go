package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/muralia/muralia/internal/domain"
)

// TokenValidity is the fixed lifetime of an issued token. Tokens are
// self-contained and cannot be revoked before this window elapses.
const TokenValidity = time.Hour

// TokenType is the authorization scheme advertised to clients.
const TokenType = "Bearer"

// TokenService issues and verifies signed, time-bounded identity tokens.
// Tokens are HS256 JWTs whose subject is the account email; validity is
// entirely self-contained, so the service holds no per-token state.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue returns a signed token asserting the account's identity,
// valid from now until now + TokenValidity.
func (s *TokenService) Issue(account *domain.Account) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   account.Email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenValidity)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ExtractSubject decodes the claims segment without verifying the
// signature and returns the subject. It exists only so the gate can look
// up the candidate account before full verification; the result must not
// be trusted until Verify succeeds.
func (s *TokenService) ExtractSubject(raw string) (string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(raw, &jwt.RegisteredClaims{})
	if err != nil {
		return "", domain.ErrMalformedToken
	}
	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", domain.ErrMalformedToken
	}
	return subject, nil
}

// Verify reports whether raw is a well-formed, unexpired token signed
// with the process secret whose subject matches the given account.
// It fails closed: any parse, signature, or expiry problem yields false.
func (s *TokenService) Verify(raw string, account *domain.Account) bool {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return false
	}
	subject, err := token.Claims.GetSubject()
	return err == nil && subject == account.Email
}

// IsExpired reports whether the token's expiry has passed. Any decode
// failure counts as expired.
func (s *TokenService) IsExpired(raw string) bool {
	token, _, err := jwt.NewParser().ParseUnverified(raw, &jwt.RegisteredClaims{})
	if err != nil {
		return true
	}
	expiry, err := token.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return true
	}
	return expiry.Before(time.Now())
}
