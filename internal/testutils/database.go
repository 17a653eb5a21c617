package testutils

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"expense-api/db"
	"expense-api/internal/config"

	"github.com/stretchr/testify/require"
)

// TestJWTKey signs every token minted in tests.
var TestJWTKey = []byte("test_jwt_secret_key_for_testing_only")

// SetupTestDatabase migrates a fresh file-backed database under t.TempDir.
// The migrate driver closes its handle, so in-memory databases cannot be used.
func SetupTestDatabase(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	require.NoError(t, db.InitializeSchema(dbPath))

	testDB, err := db.ConnectToSQLite(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		testDB.Close()
	}
	return testDB, cleanup
}

func SetupTestRepositoryFactory(t *testing.T) (*db.RepositoryFactory, func()) {
	t.Helper()
	testDB, cleanup := SetupTestDatabase(t)
	return db.NewRepositoryFactory(testDB), cleanup
}

func GetTestConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		SQLitePath:        "unused.db",
		JwtKey:            TestJWTKey,
		AccessTokenTTL:    5 * time.Minute,
		RefreshTokenTTL:   24 * time.Hour,
		CORSAllowedOrigin: "*",
		LogLevel:          "debug",
		AMQPExchange:      "expenses",
	}
}
