// README: Quota tests against a real Postgres (lazy monthly reset and exhaustion).
package quota

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestUseTokenCrossMonthReset verifies that a user with 0 generations left from a previous month
// is automatically reset and the request succeeds.
func TestUseTokenCrossMonthReset(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	if _, err := db.Exec(ctx, "INSERT INTO generation_quota VALUES ('user_reset', 0, '2000-01')"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	remaining, err := svc.UseToken(ctx, "user_reset")
	if err != nil {
		t.Fatalf("UseToken after cross-month reset: %v", err)
	}
	if remaining != DefaultMonthlyGenerations-1 {
		t.Fatalf("expected %d remaining, got %d", DefaultMonthlyGenerations-1, remaining)
	}
}

// TestUseTokenFutureMonthResets verifies that a row stamped with a later month
// (clock skew) is reset to this month instead of being stuck exhausted.
func TestUseTokenFutureMonthResets(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	if _, err := db.Exec(ctx, "INSERT INTO generation_quota VALUES ('user_future', 0, '2999-12')"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	remaining, err := svc.UseToken(ctx, "user_future")
	if err != nil {
		t.Fatalf("UseToken for future-stamped row: %v", err)
	}
	if remaining != DefaultMonthlyGenerations-1 {
		t.Fatalf("expected %d remaining, got %d", DefaultMonthlyGenerations-1, remaining)
	}
}

// TestUseTokenExhaustedThisMonth verifies that a user with 0 generations in the current month is blocked.
func TestUseTokenExhaustedThisMonth(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	if _, err := db.Exec(ctx, "INSERT INTO generation_quota (uid, tokens_remaining, last_reset_month) VALUES ('user_zero', 0, TO_CHAR(NOW() AT TIME ZONE 'UTC', 'YYYY-MM'))"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.UseToken(ctx, "user_zero"); err != ErrQuotaExhausted {
		t.Fatalf("expected ErrQuotaExhausted, got %v", err)
	}
}

// TestUseTokenFirstUse verifies that a user absent from the table is initialised on first call.
func TestUseTokenFirstUse(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.UseToken(ctx, "user_new"); err != nil {
		t.Fatalf("UseToken for new user: %v", err)
	}

	var remaining int
	if err := db.QueryRow(ctx, "SELECT tokens_remaining FROM generation_quota WHERE uid = 'user_new'").Scan(&remaining); err != nil {
		t.Fatalf("query: %v", err)
	}
	if remaining != DefaultMonthlyGenerations-1 {
		t.Fatalf("expected %d remaining after first use, got %d", DefaultMonthlyGenerations-1, remaining)
	}
}

// setupTestService creates a real postgres-backed Service for integration tests.
// It skips the test when WAYFARER_TEST_DSN is not set.
func setupTestService(t *testing.T) (*Service, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("WAYFARER_TEST_DSN")
	if dsn == "" {
		t.Skip("WAYFARER_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigrations(ctx, db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE generation_quota"); err != nil {
		t.Fatalf("truncate generation_quota: %v", err)
	}

	return NewService(NewStore(db, DefaultMonthlyGenerations)), db
}

func applyMigrations(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	matches, err := filepath.Glob(filepath.Join(root, "migrations", "*.sql"))
	if err != nil {
		return err
	}
	for _, path := range matches {
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, stmt := range splitSQL(stripSQLComments(string(content))) {
			if _, err := db.Exec(ctx, stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	parts := strings.Split(input, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if stmt := strings.TrimSpace(p); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
