package migrate

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/kurvfo/pkg/config"
	"github.com/angelmondragon/kurvfo/pkg/db"
	"github.com/angelmondragon/kurvfo/pkg/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *db.Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db.Wrap(conn)
}

func tableExists(t *testing.T, sqlDB *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := sqlDB.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestRunEmbeddedUpAndDown(t *testing.T) {
	client := openSQLite(t)
	sqlDB, err := client.SQL()
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, Run(ctx, sqlDB, "", "up"))
	require.True(t, tableExists(t, sqlDB, "cart_states"))

	version, err := Version(ctx, sqlDB)
	require.NoError(t, err)
	require.Equal(t, int64(20260301090000), version)

	require.NoError(t, Run(ctx, sqlDB, "", "down"))
	require.False(t, tableExists(t, sqlDB, "cart_states"))
}

func TestMigrateToVersion(t *testing.T) {
	client := openSQLite(t)
	sqlDB, err := client.SQL()
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, MigrateToVersion(ctx, sqlDB, "", "20260301090000"))
	require.True(t, tableExists(t, sqlDB, "cart_states"))

	require.Error(t, MigrateToVersion(ctx, sqlDB, "", "latest"))
	require.Error(t, MigrateToVersion(ctx, sqlDB, "", ""))
}

func TestMaybeRunRespectsBackendAndFlag(t *testing.T) {
	client := openSQLite(t)
	sqlDB, err := client.SQL()
	require.NoError(t, err)
	ctx := context.Background()

	cfg := &config.Config{Cart: config.CartConfig{Backend: "memory", AutoMigrate: true}}
	require.NoError(t, MaybeRun(ctx, cfg, logger.Nop(), client))
	require.False(t, tableExists(t, sqlDB, "cart_states"))

	cfg.Cart.Backend = "sqlite"
	cfg.Cart.AutoMigrate = false
	require.NoError(t, MaybeRun(ctx, cfg, logger.Nop(), client))
	require.False(t, tableExists(t, sqlDB, "cart_states"))

	cfg.Cart.AutoMigrate = true
	require.NoError(t, MaybeRun(ctx, cfg, logger.Nop(), client))
	require.True(t, tableExists(t, sqlDB, "cart_states"))
}

func TestCartStatesMigrationContainsSchema(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_cart_states.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no cart_states migration file found")

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS cart_states",
		"key        TEXT PRIMARY KEY",
		"DROP TABLE IF EXISTS cart_states",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDir(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
	require.NoError(t, ValidateEmbedded())

	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Cart Notes!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_cart_notes.sql"))
	require.NoError(t, ValidateDir(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.sql"), []byte("-- nothing"), 0o644))
	require.Error(t, ValidateDir(dir))
}

func TestValidateRejectsPostgresOnlySQL(t *testing.T) {
	dir := t.TempDir()
	body := "-- +goose Up\nCREATE TABLE notes (id SERIAL PRIMARY KEY, body JSONB);\n-- +goose Down\nDROP TABLE notes;\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260401000000_notes.sql"), []byte(body), 0o644))

	err := ValidateDir(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "sqlite")
}

func TestCreateSQLMigrationSortsAfterExistingFiles(t *testing.T) {
	dir := t.TempDir()
	future := filepath.Join(dir, "29991231235959_from_the_future.sql")
	require.NoError(t, os.WriteFile(future, []byte("-- +goose Up\n-- +goose Down\n"), 0o644))

	path, err := CreateSQLMigration(dir, "next")
	require.NoError(t, err)
	require.Equal(t, "29991231235960_next.sql", filepath.Base(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "sqlite")
	require.NoError(t, ValidateDir(dir))
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	_, err := CreateSQLMigration(t.TempDir(), " !! ")
	require.Error(t, err)
}
