package migrate_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/angelmondragon/gamewishlist-backend/pkg/config"
	"github.com/angelmondragon/gamewishlist-backend/pkg/db"
	"github.com/angelmondragon/gamewishlist-backend/pkg/logger"
	"github.com/angelmondragon/gamewishlist-backend/pkg/migrate"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *db.Client {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		Driver:       config.DBDriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, migrate.ValidateEmbedded())
}

func TestWishlistMigrationContainsSchema(t *testing.T) {
	for _, dialect := range []string{"sqlite", "postgres"} {
		matches, err := filepath.Glob(filepath.Join("migrations", dialect, "*_create_wishlist_items.sql"))
		require.NoError(t, err)
		require.Len(t, matches, 1, dialect)

		data, err := os.ReadFile(matches[0])
		require.NoError(t, err)
		content := string(data)

		for _, sub := range []string{
			"CREATE TABLE IF NOT EXISTS wishlist_items",
			"CONSTRAINT wishlist_items_game_url_key UNIQUE (game_url)",
			"DROP TABLE IF EXISTS wishlist_items",
		} {
			assert.Contains(t, content, sub, dialect)
		}
	}
}

func TestUpCreatesTableAndIsRepeatable(t *testing.T) {
	client := openSQLite(t)
	sqlDB, err := client.DB().DB()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, migrate.Up(ctx, sqlDB, config.DBDriverSQLite))
	require.NoError(t, migrate.Up(ctx, sqlDB, config.DBDriverSQLite))

	version, err := migrate.Version(ctx, sqlDB, config.DBDriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(20250101000000), version)

	_, err = sqlDB.Exec(`INSERT INTO wishlist_items (title, platform, thumbnail, game_url) VALUES ('a', 'PC', 'https://t/1.jpg', 'https://g/1')`)
	require.NoError(t, err)
	_, err = sqlDB.Exec(`INSERT INTO wishlist_items (title, platform, thumbnail, game_url) VALUES ('b', 'PC', 'https://t/2.jpg', 'https://g/1')`)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, "wishlist_items_game_url_key"))
}

func TestMigrateToVersionRollsBack(t *testing.T) {
	client := openSQLite(t)
	sqlDB, err := client.DB().DB()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, migrate.Up(ctx, sqlDB, config.DBDriverSQLite))
	require.NoError(t, migrate.MigrateToVersion(ctx, sqlDB, config.DBDriverSQLite, "0"))

	_, err = sqlDB.Exec(`SELECT 1 FROM wishlist_items`)
	assert.Error(t, err)

	assert.Error(t, migrate.MigrateToVersion(ctx, sqlDB, config.DBDriverSQLite, "not-a-version"))
}

func TestRunRejectsUnknownDriver(t *testing.T) {
	client := openSQLite(t)
	sqlDB, err := client.DB().DB()
	require.NoError(t, err)

	err = migrate.Run(context.Background(), sqlDB, "mysql", "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported migration driver")
}

func TestRunOnStartupHonoursFlag(t *testing.T) {
	client := openSQLite(t)
	cfg := &config.Config{}
	cfg.FeatureFlags.AutoMigrate = false

	ctx := context.Background()
	require.NoError(t, migrate.RunOnStartup(ctx, cfg, logger.Nop(), client))

	var count int64
	err := client.DB().Raw(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'wishlist_items'`).Scan(&count).Error
	require.NoError(t, err)
	assert.Zero(t, count)

	cfg.FeatureFlags.AutoMigrate = true
	require.NoError(t, migrate.RunOnStartup(ctx, cfg, logger.Nop(), client))
	err = client.DB().Raw(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'wishlist_items'`).Scan(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateSQLMigrationWritesEveryDialect(t *testing.T) {
	root := t.TempDir()

	paths, err := migrate.CreateSQLMigration(root, "Add Platform Index!")
	require.NoError(t, err)
	require.Len(t, paths, 2)

	for _, p := range paths {
		assert.True(t, strings.HasSuffix(p, "_add_platform_index.sql"), p)
	}
	require.NoError(t, migrate.ValidateDir(root))

	_, err = migrate.CreateSQLMigration(root, "!!!")
	assert.Error(t, err)
}

func TestValidateFSDetectsDialectDrift(t *testing.T) {
	body := []byte("-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n")
	fsys := fstest.MapFS{
		"sqlite/20250101000000_one.sql":   {Data: body},
		"sqlite/20250102000000_two.sql":   {Data: body},
		"postgres/20250101000000_one.sql": {Data: body},
	}
	err := migrate.ValidateFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "differ")

	fsys["postgres/20250102000000_two.sql"] = &fstest.MapFile{Data: body}
	require.NoError(t, migrate.ValidateFS(fsys))

	fsys["postgres/bad-name.sql"] = &fstest.MapFile{Data: body}
	assert.Error(t, migrate.ValidateFS(fsys))
}

func TestValidateFSRequiresGooseHeaders(t *testing.T) {
	fsys := fstest.MapFS{
		"sqlite/20250101000000_one.sql":   {Data: []byte("-- +goose Up\nSELECT 1;\n")},
		"postgres/20250101000000_one.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n-- +goose Down\n")},
	}
	err := migrate.ValidateFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "goose Down")
}
