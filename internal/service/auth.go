package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/muralia/muralia/internal/domain"
)

// AuthService handles account registration, login, and token-to-account
// resolution. Unknown email and wrong password collapse into the same
// ErrInvalidCredentials outcome so responses cannot be used as an
// account-existence oracle.
type AuthService struct {
	accounts domain.AccountRepository
	hasher   *PasswordHasher
	tokens   *TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(accounts domain.AccountRepository, hasher *PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{accounts: accounts, hasher: hasher, tokens: tokens}
}

// Register creates a new account after validating inputs and returns it
// together with a freshly issued token.
func (s *AuthService) Register(ctx context.Context, email, username, password, firstName, lastName string) (*domain.Account, string, error) {
	if email == "" || username == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email, username, and password are required", domain.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, "", fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	account := &domain.Account{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, "", fmt.Errorf("create account: %w", err)
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return account, token, nil
}

// Login verifies credentials and returns the account with a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get account: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return account, token, nil
}

// ResolveToken turns a bearer token into the verified account it asserts.
// The untrusted subject is extracted first to load the candidate account,
// then the token is fully verified against it. A token whose subject no
// longer resolves to an account is inert even if cryptographically valid.
func (s *AuthService) ResolveToken(ctx context.Context, raw string) (*domain.Account, error) {
	subject, err := s.tokens.ExtractSubject(raw)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	if !s.tokens.Verify(raw, account) {
		return nil, domain.ErrInvalidCredentials
	}
	return account, nil
}
