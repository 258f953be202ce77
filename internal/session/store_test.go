package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, "test-secret", time.Hour), mr
}

func TestCreateLookupDestroy(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	token, err := store.Create(ctx, User{ID: "user-1", Username: "alice", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	u, err := store.Lookup(ctx, token)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u.ID != "user-1" || u.Username != "alice" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if len(mr.Keys()) != 1 {
		t.Fatalf("expected one session key, got %v", mr.Keys())
	}
	if ttl := mr.TTL(mr.Keys()[0]); ttl != time.Hour {
		t.Fatalf("unexpected ttl: %v", ttl)
	}

	if err := store.Destroy(ctx, token); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := store.Lookup(ctx, token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after destroy, got %v", err)
	}
}

func TestLookupExpiredEntry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	token, err := store.Create(ctx, User{ID: "user-1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	mr.FastForward(2 * time.Hour)

	if _, err := store.Lookup(ctx, token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestLookupRejectsForeignSignature(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, User{ID: "user-1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	forged, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ID: "anything"}).SignedString([]byte("other"))
	for _, token := range []string{"", "garbage", forged} {
		if _, err := store.Lookup(ctx, token); !errors.Is(err, ErrNoSession) {
			t.Fatalf("token %q: expected ErrNoSession, got %v", token, err)
		}
	}
}

func TestDestroyIgnoresUnparsableToken(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.Destroy(context.Background(), "garbage"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestNilBackend(t *testing.T) {
	store := NewStore(nil, "secret", time.Hour)
	ctx := context.Background()

	if _, err := store.Create(ctx, User{ID: "user-1"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	token, _ := signTokenFn(store, "sid")
	if _, err := store.Lookup(ctx, token); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := store.Destroy(ctx, token); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCreateSignError(t *testing.T) {
	oldSign := signTokenFn
	signTokenFn = func(_ *Store, _ string) (string, error) {
		return "", errSign
	}
	defer func() { signTokenFn = oldSign }()

	store, _ := newTestStore(t)
	if _, err := store.Create(context.Background(), User{ID: "user-1"}); !errors.Is(err, errSign) {
		t.Fatalf("expected sign error, got %v", err)
	}
}

func TestBindAndCurrent(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if _, ok := Current(c); ok {
			return c.SendStatus(http.StatusConflict)
		}
		Bind(c, User{ID: "user-1"})
		u, ok := Current(c)
		if !ok || u.ID != "user-1" {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %v", err)
	}
}

var errSign = errors.New("sign error")
