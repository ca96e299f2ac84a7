// Package dbtest opens throwaway SQLite databases with the production schema applied.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/gamewishlist-backend/pkg/config"
	"github.com/angelmondragon/gamewishlist-backend/pkg/db"
	"github.com/angelmondragon/gamewishlist-backend/pkg/migrate"
	"github.com/google/uuid"
)

// Open returns a migrated in-memory client that is closed when the test ends.
// The pool is pinned to one connection, so callers inside WithTx must use tx.
func Open(t testing.TB) *db.Client {
	t.Helper()

	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{
		Driver:       config.DBDriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.DB().DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	if err := migrate.Up(ctx, sqlDB, client.Dialect()); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return client
}
