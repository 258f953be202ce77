package user

import (
	"context"
	"errors"
	"fmt"

	"backend-communityhub/internal/db"
	"backend-communityhub/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("user not found")

// Store is the credential store backed by the users table.
type Store struct {
	db db.Querier
}

func NewStore(db db.Querier) *Store {
	return &Store{db: db}
}

type NewUser struct {
	Username   string
	Email      string
	Credential string
	Bio        string
	Avatar     *storage.Attachment
}

func (s *Store) Create(ctx context.Context, in NewUser) (User, error) {
	if in.Bio == "" {
		in.Bio = DefaultBio
	}
	u := User{
		ID:         uuid.NewString(),
		Username:   in.Username,
		Email:      in.Email,
		Credential: in.Credential,
		Bio:        in.Bio,
		HasAvatar:  in.Avatar != nil,
	}
	avatarData, avatarType := storage.Columns(in.Avatar)

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, email, credential, bio, avatar_data, avatar_type)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at
	`, u.ID, u.Username, u.Email, u.Credential, u.Bio, avatarData, avatarType)
	if err := row.Scan(&u.CreatedAt); err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// FindByEmail matches email exactly, case included.
func (s *Store) FindByEmail(ctx context.Context, email string) (User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, username, email, credential, bio, avatar_type IS NOT NULL, created_at
		FROM users WHERE email = $1
	`, email)

	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Credential, &u.Bio, &u.HasAvatar, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// Profiles loads the public profiles of ids in one query. Ids that do not
// resolve are absent from the result.
func (s *Store) Profiles(ctx context.Context, ids []string) (map[string]Profile, error) {
	if len(ids) == 0 {
		return map[string]Profile{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, username, bio, avatar_type IS NOT NULL
		FROM users WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	defer rows.Close()

	profiles := make(map[string]Profile, len(ids))
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.Bio, &p.HasAvatar); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	return profiles, nil
}

// Avatar returns the stored avatar, nil when the user has none.
func (s *Store) Avatar(ctx context.Context, id string) (*storage.Attachment, error) {
	row := s.db.QueryRow(ctx, `SELECT avatar_data, avatar_type FROM users WHERE id = $1`, id)

	var data []byte
	var contentType *string
	if err := row.Scan(&data, &contentType); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load avatar: %w", err)
	}
	return storage.FromColumns(data, contentType), nil
}
