package service

import (
	"context"
	"time"

	"github.com/complaint-desk/complaint-service/internal/auth"
	"github.com/complaint-desk/complaint-service/internal/domain"
)

// Session is an account together with a freshly issued access token.
type Session struct {
	Account   *domain.Account
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	accounts *AccountService
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(accounts *AccountService, tokenMgr *auth.TokenManager) *AuthService {
	return &AuthService{accounts: accounts, tokenMgr: tokenMgr}
}

// Register creates a customer account and signs them in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	account, err := s.accounts.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(account)
}

// Login authenticates credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.accounts.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(account)
}

func (s *AuthService) issue(account *domain.Account) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Account: account, Token: token, ExpiresAt: exp}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
