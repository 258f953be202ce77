package db

import (
	"context"
	"errors"
	"time"

	"backend-communityhub/internal/logging"
	"backend-communityhub/internal/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Breaker wraps a Querier with a two-step circuit breaker. While open,
// every call fails immediately with gobreaker.ErrOpenState.
type Breaker struct {
	q  Querier
	cb *gobreaker.TwoStepCircuitBreaker[struct{}]
}

func NewBreaker(name string, q Querier) *Breaker {
	metrics.BreakerState.WithLabelValues(name).Set(0)
	cb := gobreaker.NewTwoStepCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: reachable,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("store breaker state change")
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
	return &Breaker{q: q, cb: cb}
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	done, err := b.cb.Allow()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	tag, err := b.q.Exec(ctx, sql, args...)
	done(err)
	return tag, err
}

func (b *Breaker) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	done, err := b.cb.Allow()
	if err != nil {
		return nil, err
	}
	rows, err := b.q.Query(ctx, sql, args...)
	done(err)
	return rows, err
}

func (b *Breaker) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	done, err := b.cb.Allow()
	if err != nil {
		return errRow{err: err}
	}
	return breakerRow{row: b.q.QueryRow(ctx, sql, args...), done: done}
}

// reachable reports whether err still proves the server answered.
func reachable(err error) bool {
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr)
}

type breakerRow struct {
	row  pgx.Row
	done func(error)
}

func (r breakerRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	r.done(err)
	return err
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
