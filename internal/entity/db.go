package entity

import (
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	uuid "github.com/satori/go.uuid"
)

const (
	SQLite3   = "sqlite3"
	MemoryDsn = ":memory:"
)

// Entities lists all tables managed by this package.
var Entities = []interface{}{
	&Run{},
	&Fold{},
	&Evaluation{},
	&Prediction{},
}

// Open connects to the results database and migrates all tables.
func Open(driver, dsn string) (*gorm.DB, error) {
	if driver == "" {
		driver = SQLite3
	}

	db, err := gorm.Open(driver, dsn)

	if err != nil || db == nil {
		for i := 1; i <= 12; i++ {
			time.Sleep(5 * time.Second)

			db, err = gorm.Open(driver, dsn)

			if db != nil && err == nil {
				break
			}
		}

		if err != nil || db == nil {
			return nil, fmt.Errorf("entity: %s", err)
		}
	}

	// SQLite supports a single writer, an in-memory database exists per connection.
	if driver == SQLite3 {
		db.DB().SetMaxOpenConns(1)
	}

	db.LogMode(false)
	db.SetLogger(log)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Entities...).Error; err != nil {
		return fmt.Errorf("entity: %s (migrate)", err)
	}

	return nil
}

// NewUID returns a new random unique id.
func NewUID() string {
	return uuid.NewV4().String()
}

// Now returns the current time in UTC, truncated to seconds.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
