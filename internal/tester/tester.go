package tester

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/emrgen/docversion/internal/model"
	redis "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const redisAddrEnv = "DOCVERSION_TEST_REDIS_ADDR"

// TestDB opens a migrated sqlite database private to the test.
func TestDB(t testing.TB) *gorm.DB {
	t.Helper()

	_ = os.Setenv("ENV", "test")

	path := filepath.Join(t.TempDir(), "docversion.db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err = model.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// Redis returns a client for the redis named by DOCVERSION_TEST_REDIS_ADDR
// and skips the test when it is unset.
func Redis(t testing.TB) *redis.Client {
	t.Helper()

	addr := os.Getenv(redisAddrEnv)
	if addr == "" {
		t.Skipf("%s not set", redisAddrEnv)
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Protocol: 2})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}
