package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB   *gorm.DB
	once sync.Once
)

// Connect opens the database pointed at by DATABASE_URL. A postgres:// URL
// selects the postgres driver; a sqlite:// URL selects the pure-Go sqlite
// driver, which is handy for local runs without a running postgres.
func Connect() *gorm.DB {
	once.Do(func() {
		dialector, err := dialectorFromEnv()
		if err != nil {
			log.Fatalf("failed to resolve database config: %v", err)
		}

		db, err := gorm.Open(dialector, &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}

		DB = db
	})

	return DB
}

func GetDB() *gorm.DB {
	if DB == nil {
		return Connect()
	}
	return DB
}

func dialectorFromEnv() (gorm.Dialector, error) {
	dbURL := os.Getenv("DATABASE_URL")

	switch {
	case dbURL == "":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			valueOrDefault("DB_HOST", "localhost"),
			valueOrDefault("DB_USER", "postgres"),
			os.Getenv("DB_PASS"),
			valueOrDefault("DB_NAME", "reverb"),
			valueOrDefault("DB_PORT", "5432"),
		)
		return postgres.Open(dsn), nil
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return postgres.Open(dbURL), nil
	case strings.HasPrefix(dbURL, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(dbURL, "sqlite://")), nil
	}

	return nil, fmt.Errorf("DATABASE_URL must start with postgres:// or sqlite://, got %q", dbURL)
}

func valueOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
