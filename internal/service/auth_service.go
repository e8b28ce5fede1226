package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nurpe/contract-archive/internal/auth"
	"github.com/nurpe/contract-archive/internal/model"
)

const (
	actionLogin  = "تسجيل الدخول"
	actionLogout = "تسجيل الخروج"
)

type AuthService struct {
	collections *CollectionService
	issuer      *auth.Issuer
	log         zerolog.Logger
}

func NewAuthService(collections *CollectionService, issuer *auth.Issuer, log zerolog.Logger) *AuthService {
	return &AuthService{collections: collections, issuer: issuer, log: log}
}

type LoginResult struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Login matches an active user by phone and plaintext password. An empty users
// collection falls back to the seeded administrator.
func (s *AuthService) Login(ctx context.Context, phone, password string) (*LoginResult, error) {
	users, err := s.collections.Users(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		users = model.DefaultUsers()
	}

	var matched *model.User
	for i := range users {
		u := users[i]
		if u.Phone == phone && u.Password == password && u.IsActive() {
			matched = &u
			break
		}
	}
	if matched == nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(matched.ID, matched.Name)
	if err != nil {
		return nil, err
	}
	if err := s.collections.AppendAudit(ctx, matched.Name, actionLogin); err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", matched.ID).Msg("user signed in")
	return &LoginResult{User: matched.Public(), Token: token}, nil
}

func (s *AuthService) Logout(ctx context.Context, actor string) error {
	return s.collections.AppendAudit(ctx, actor, actionLogout)
}

// Actor resolves the display name carried by a bearer token.
func (s *AuthService) Actor(token string) (string, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return "", err
	}
	return claims.Name, nil
}
