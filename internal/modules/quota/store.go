package quota

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store handles generation_quota persistence.
type Store struct {
	db      DB
	monthly int
	now     func() time.Time
}

// NewStore returns a Store granting monthly generations per user and month.
func NewStore(db DB, monthly int) *Store {
	if monthly <= 0 {
		monthly = DefaultMonthlyGenerations
	}
	return &Store{db: db, monthly: monthly, now: time.Now}
}

// UseToken atomically checks the monthly quota and deducts one generation,
// returning what is left. It resets the counter when last_reset_month is
// behind the current month. Returns ErrQuotaExhausted when no row matches
// (quota used up or user absent).
func (s *Store) UseToken(ctx context.Context, uid string) (int, error) {
	month := s.now().UTC().Format(monthLayout)

	var remaining int
	err := s.db.QueryRow(ctx, `
		UPDATE generation_quota SET
			tokens_remaining = CASE WHEN last_reset_month <> $1 THEN $2 - 1 ELSE tokens_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month <> $1 OR tokens_remaining > 0)
		RETURNING tokens_remaining
	`, month, s.monthly, uid).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrQuotaExhausted
	}
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// EnsureUser inserts a row for uid with the full monthly allowance.
// If the row already exists the insert is silently skipped (ON CONFLICT DO NOTHING).
func (s *Store) EnsureUser(ctx context.Context, uid string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO generation_quota (uid, tokens_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, s.monthly, s.now().UTC().Format(monthLayout))
	return err
}
