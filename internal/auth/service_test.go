package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend-communityhub/internal/config"
	"backend-communityhub/internal/session"
	"backend-communityhub/internal/user"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

var userColumns = []string{"id", "username", "email", "credential", "bio", "has_avatar", "created_at"}

func newSessions(t *testing.T) *session.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewStore(client, "test-secret", time.Hour)
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestRegisterCreatesAccount(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "alice", "alice@example.com", "secret", user.DefaultBio, []byte(nil), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	svc := NewService(user.NewStore(mock), newSessions(t), config.SchemePlaintext)
	u, err := svc.Register(context.Background(), NewAccount{Username: "alice", Email: "alice@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID == "" || u.Bio != user.DefaultBio || u.HasAvatar {
		t.Fatalf("unexpected user: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterDuplicateEmailWritesNothing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	svc := NewService(user.NewStore(mock), newSessions(t), "")
	_, err := svc.Register(context.Background(), NewAccount{Username: "alice2", Email: "alice@example.com", Password: "other"})
	if !errors.Is(err, ErrEmailTaken) || err.Error() != "Email already registered" {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected store call: %v", err)
	}
}

func TestRegisterStoreError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("a@example.com").
		WillReturnError(errAuth)

	svc := NewService(user.NewStore(mock), newSessions(t), "")
	if _, err := svc.Register(context.Background(), NewAccount{Email: "a@example.com"}); !errors.Is(err, errAuth) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestLoginRejectionsAreIdentical(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("user-1", "alice", "alice@example.com", "secret", user.DefaultBio, false, time.Now()))

	svc := NewService(user.NewStore(mock), newSessions(t), config.SchemePlaintext)
	_, unknown := svc.Login(context.Background(), "ghost@example.com", "secret")
	_, wrong := svc.Login(context.Background(), "alice@example.com", "Secret")
	_, empty := svc.Login(context.Background(), "", "")

	for _, err := range []error{unknown, wrong, empty} {
		if !errors.Is(err, ErrInvalidCredentials) || err.Error() != "Invalid email or password" {
			t.Fatalf("expected identical rejection, got %v", err)
		}
	}
}

func TestLoginSuccess(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("user-1", "alice", "alice@example.com", "secret", "bio", true, time.Now()))

	sessions := newSessions(t)
	svc := NewService(user.NewStore(mock), sessions, config.SchemePlaintext)
	u, err := svc.Login(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	token, err := svc.StartSession(context.Background(), u)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	bound, err := sessions.Lookup(context.Background(), token)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if bound.ID != "user-1" || bound.Username != "alice" || bound.Bio != "bio" || !bound.HasAvatar {
		t.Fatalf("unexpected session user: %+v", bound)
	}

	if err := svc.EndSession(context.Background(), token); err != nil {
		t.Fatalf("end session: %v", err)
	}
	if _, err := sessions.Lookup(context.Background(), token); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected session gone, got %v", err)
	}
}

func TestLoginStoreError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnError(errAuth)

	svc := NewService(user.NewStore(mock), newSessions(t), "")
	_, err := svc.Login(context.Background(), "alice@example.com", "secret")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
}

func TestBcryptScheme(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "alice", "alice@example.com", pgxmock.AnyArg(), user.DefaultBio, []byte(nil), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	svc := NewService(user.NewStore(mock), newSessions(t), config.SchemeBcrypt)
	u, err := svc.Register(context.Background(), NewAccount{Username: "alice", Email: "alice@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Credential == "secret" {
		t.Fatalf("expected hashed credential")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Credential), []byte("secret")) != nil {
		t.Fatalf("stored hash does not match")
	}

	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(u.ID, "alice", "alice@example.com", u.Credential, user.DefaultBio, false, time.Now()))
	if _, err := svc.Login(context.Background(), "alice@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestRegisterHashError(t *testing.T) {
	oldHash := hashPasswordFn
	hashPasswordFn = func([]byte, int) ([]byte, error) { return nil, errAuth }
	defer func() { hashPasswordFn = oldHash }()

	mock := newMock(t)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("a@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	svc := NewService(user.NewStore(mock), newSessions(t), config.SchemeBcrypt)
	if _, err := svc.Register(context.Background(), NewAccount{Email: "a@example.com", Password: "p"}); !errors.Is(err, errAuth) {
		t.Fatalf("expected hash error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected store call: %v", err)
	}
}

func TestStartSessionWithoutBackend(t *testing.T) {
	svc := NewService(user.NewStore(nil), session.NewStore(nil, "s", time.Hour), "")
	if _, err := svc.StartSession(context.Background(), user.User{ID: "user-1"}); !errors.Is(err, session.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

var errAuth = errors.New("auth store error")
