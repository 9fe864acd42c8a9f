// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"menupress/internal/database"
	"menupress/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "menupress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "menupress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanWebsites removes test websites together with their deployments and
// reservations. Call in t.Cleanup().
func cleanWebsites(t *testing.T, db *sql.DB, ids ...uuid.UUID) {
	t.Helper()
	for _, id := range ids {
		db.Exec("DELETE FROM deployments WHERE website_id = $1", id)
		db.Exec("DELETE FROM subdomain_reservations WHERE website_id = $1", id)
		db.Exec("DELETE FROM websites WHERE id = $1", id)
	}
}

// createTestWebsite inserts a draft website and registers its cleanup.
func createTestWebsite(t *testing.T, db *sql.DB) *models.Website {
	t.Helper()
	w, err := NewWebsiteStore(db).Create(t.Context(), uuid.New(), models.Content{
		WebsiteName: "Store Test Bistro",
		Pages: []models.Page{{
			ID: "home", IsHomepage: true,
			Sections: models.Sections{{Name: "hero", Payload: &models.HeroSection{Headline: "Hi"}}},
		}},
	})
	if err != nil {
		t.Fatalf("create website: %v", err)
	}
	t.Cleanup(func() { cleanWebsites(t, db, w.ID) })
	return w
}
