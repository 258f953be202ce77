package db

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		credential    TEXT NOT NULL,
		bio           TEXT NOT NULL DEFAULT '',
		avatar_data   BYTEA,
		avatar_type   TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		link          TEXT,
		category      TEXT NOT NULL,
		content       TEXT NOT NULL,
		user_id       TEXT NOT NULL,
		likes         JSONB NOT NULL DEFAULT '[]',
		dislikes      JSONB NOT NULL DEFAULT '[]',
		comments      JSONB NOT NULL DEFAULT '[]',
		image_data    BYTEA,
		image_type    TEXT,
		poster_data   BYTEA,
		poster_type   TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS posts_category_idx ON posts (category)`,
}

// EnsureSchema creates the users and posts tables when missing.
// posts.user_id is not a foreign key; dangling owners are allowed.
func EnsureSchema(ctx context.Context, q Querier) error {
	for i, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
