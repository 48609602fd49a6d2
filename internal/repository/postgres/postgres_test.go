package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/deppfellow/qa-service/internal/database"
	"github.com/deppfellow/qa-service/internal/repository/postgres"
	"github.com/deppfellow/qa-service/internal/repository/repotest"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestStores runs the shared suite against a real PostgreSQL database.
// Set QA_TEST_DATABASE_URL to a disposable database to enable it; its
// question and answer tables are truncated before every subtest.
func TestStores(t *testing.T) {
	dsn := os.Getenv("QA_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("QA_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, _, err := database.ApplyMigrations(ctx, conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	_ = conn.Close(ctx)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	repotest.Run(t, func(t *testing.T) repotest.Stores {
		if _, err := pool.Exec(ctx, "TRUNCATE answer, question"); err != nil {
			t.Fatalf("truncate: %v", err)
		}

		return repotest.Stores{
			Questions: postgres.NewQuestionRepository(pool),
			Answers:   postgres.NewAnswerRepository(pool),
		}
	})
}
