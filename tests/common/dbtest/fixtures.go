//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"library-api/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plain-text password of every user created by CreateTestUser.
const TestPassword = "password123"

var (
	hashOnce   sync.Once
	hashedTest string
)

func testPasswordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := password.HashPasswordWithCost(TestPassword, bcrypt.MinCost)
		require.NoError(t, err)
		hashedTest = h
	})
	return hashedTest
}

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO users (id, name, email, password_hash, role, is_active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (email) DO NOTHING",
		userID, "Test "+strings.ToLower(role), strings.ToLower(email), testPasswordHash(t), role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		err = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", strings.ToLower(email)).Scan(&userID)
		require.NoError(t, err)
	}

	return userID
}

func CreateTestBook(t *testing.T, db DBLike, title string, copies int) uuid.UUID {
	t.Helper()

	bookID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO books (id, title, author, copies, available) VALUES ($1, $2, $3, $4, $4)",
		bookID, title, "Test Author", copies)
	require.NoError(t, err)

	return bookID
}

// BookCounters reads copies and available straight from the table.
func BookCounters(t *testing.T, db DBLike, bookID uuid.UUID) (copies, available int) {
	t.Helper()

	err := db.QueryRow(context.Background(), "SELECT copies, available FROM books WHERE id = $1", bookID).
		Scan(&copies, &available)
	require.NoError(t, err)
	return copies, available
}

func OutstandingLoans(t *testing.T, db DBLike, bookID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM loans WHERE book_id = $1 AND status IN ('ACTIVE', 'OVERDUE')", bookID).Scan(&n)
	require.NoError(t, err)
	return n
}

// BackdateLoan moves a loan into the past so the overdue sweep picks it up.
func BackdateLoan(t *testing.T, db DBLike, loanID uuid.UUID, by time.Duration) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE loans SET borrowed_at = borrowed_at - $2::interval, due_date = due_date - $2::interval WHERE id = $1",
		loanID, fmt.Sprintf("%d seconds", int64(by.Seconds())))
	require.NoError(t, err)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
