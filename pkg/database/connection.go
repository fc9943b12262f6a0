package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	connectAttempts = 30
	retryDelay      = 2 * time.Second
	pingTimeout     = 5 * time.Second
)

// Connect establishes a connection pool for the given driver ("postgres" or
// "sqlite3") with retries.
func Connect(driver, databaseURL string) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error

	for i := 0; i < connectAttempts; i++ {
		db, err = sqlx.Open(driver, databaseURL)
		if err != nil {
			log.Printf("Failed to open %s database: %v, retrying in %s...", driver, err, retryDelay)
			time.Sleep(retryDelay)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		err = db.PingContext(ctx)
		cancel()
		if err == nil {
			if driver == "sqlite3" {
				// SQLite allows a single writer.
				db.SetMaxOpenConns(1)
			}
			log.Printf("Connected to %s", driver)
			return db, nil
		}

		db.Close()
		log.Printf("Failed to ping %s database: %v, retrying in %s...", driver, err, retryDelay)
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("could not connect to %s database after %d attempts: %w", driver, connectAttempts, err)
}
