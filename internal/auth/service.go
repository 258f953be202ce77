package auth

import (
	"context"
	"errors"
	"fmt"

	"backend-communityhub/internal/config"
	"backend-communityhub/internal/session"
	"backend-communityhub/internal/user"

	"golang.org/x/crypto/bcrypt"
)

// Rejection messages are shown to the user verbatim.
var (
	ErrEmailTaken         = errors.New("Email already registered")
	ErrInvalidCredentials = errors.New("Invalid email or password")
)

type Service struct {
	users    *user.Store
	sessions *session.Store
	scheme   string
}

func NewService(users *user.Store, sessions *session.Store, scheme string) *Service {
	if scheme == "" {
		scheme = config.SchemePlaintext
	}
	return &Service{users: users, sessions: sessions, scheme: scheme}
}

// Register creates an account unless the email is already in use, in
// which case nothing is written.
func (s *Service) Register(ctx context.Context, in NewAccount) (user.User, error) {
	taken, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return user.User{}, err
	}
	if taken {
		return user.User{}, ErrEmailTaken
	}

	credential, err := s.seal(in.Password)
	if err != nil {
		return user.User{}, err
	}
	return s.users.Create(ctx, user.NewUser{
		Username:   in.Username,
		Email:      in.Email,
		Credential: credential,
		Bio:        in.Bio,
		Avatar:     in.Avatar,
	})
}

// Login returns the user owning email when password matches. An unknown
// email and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (user.User, error) {
	if email == "" || password == "" {
		return user.User{}, ErrInvalidCredentials
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, err
	}
	if !s.matches(u.Credential, password) {
		return user.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// StartSession binds u to a new server-side session and returns the
// cookie token.
func (s *Service) StartSession(ctx context.Context, u user.User) (string, error) {
	token, err := s.sessions.Create(ctx, session.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Bio:       u.Bio,
		HasAvatar: u.HasAvatar,
	})
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	return token, nil
}

func (s *Service) EndSession(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

func (s *Service) seal(password string) (string, error) {
	if s.scheme != config.SchemeBcrypt {
		return password, nil
	}
	hash, err := hashPasswordFn([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash credential: %w", err)
	}
	return string(hash), nil
}

func (s *Service) matches(stored, given string) bool {
	if s.scheme == config.SchemeBcrypt {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return stored == given
}

var hashPasswordFn = bcrypt.GenerateFromPassword
