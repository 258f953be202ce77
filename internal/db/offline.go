package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrOffline = errors.New("postgres not connected")

// Offline stands in for a pool that could not be opened at startup. Every
// call fails with ErrOffline, so reads degrade instead of panicking.
type Offline struct{}

func (Offline) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, ErrOffline
}

func (Offline) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, ErrOffline
}

func (Offline) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{err: ErrOffline}
}
