// Package session keeps server-side login state in Redis. The cookie
// holds only an HS256-signed token whose jti names the Redis entry.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNoSession   = errors.New("no session")
	ErrUnavailable = errors.New("session backend not configured")
)

// User is the snapshot bound into a session at login. It never carries
// the credential.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Bio       string `json:"bio"`
	HasAvatar bool   `json:"has_avatar"`
}

type Store struct {
	rdb    *redis.Client
	secret []byte
	ttl    time.Duration
}

func NewStore(rdb *redis.Client, secret string, ttl time.Duration) *Store {
	return &Store{rdb: rdb, secret: []byte(secret), ttl: ttl}
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create stores u under a fresh session id and returns the signed token
// to hand to the client.
func (s *Store) Create(ctx context.Context, u User) (string, error) {
	if s.rdb == nil {
		return "", ErrUnavailable
	}
	id := uuid.NewString()
	payload, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, redisKey(id), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return signTokenFn(s, id)
}

// Lookup resolves a token to its bound user. Tampered, expired and
// unknown tokens all yield ErrNoSession.
func (s *Store) Lookup(ctx context.Context, token string) (User, error) {
	id, err := s.parseToken(token)
	if err != nil {
		return User{}, ErrNoSession
	}
	if s.rdb == nil {
		return User{}, ErrUnavailable
	}
	raw, err := s.rdb.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return User{}, ErrNoSession
		}
		return User{}, fmt.Errorf("load session: %w", err)
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return User{}, fmt.Errorf("decode session: %w", err)
	}
	return u, nil
}

// Destroy deletes the session named by token. A token that does not parse
// names nothing and is not an error.
func (s *Store) Destroy(ctx context.Context, token string) error {
	id, err := s.parseToken(token)
	if err != nil {
		return nil
	}
	if s.rdb == nil {
		return ErrUnavailable
	}
	if err := s.rdb.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

var signTokenFn = func(s *Store, id string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Store) parseToken(token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.ID == "" {
		return "", ErrNoSession
	}
	return claims.ID, nil
}

func redisKey(id string) string {
	return "session:" + id
}
