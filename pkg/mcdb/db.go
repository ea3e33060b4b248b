package mcdb

import (
	"fmt"
	"log"
	"time"

	"github.com/materials-commons/mcrel/pkg/mcdb/mcmodel"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const SqliteInMemoryDSN = "file::memory:?cache=shared"

const maxDBRetries = 5

// Dialector returns the gorm dialector for driver, either "sqlite" or "mysql".
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite", "":
		return sqlite.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}
}

// OpenDB opens the database with gorm's logging silenced. Foreign key
// constraints are not created since a post may have no author. A sqlite
// database is limited to one connection so the in memory database is shared
// and table locks don't fail concurrent requests.
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	dialector, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" || driver == "" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// MustConnectToDB will attempt to connect to the database maxDBRetries times. If it isn't successful
// after that number of retries then it will call log.Fatalf(), which will cause the server to exit.
// Between retry attempts it will sleep for 3 seconds.
func MustConnectToDB(driver, dsn string) *gorm.DB {
	retryCount := 1
	for {
		db, err := OpenDB(driver, dsn)
		switch {
		case err == nil:
			return db
		case retryCount >= maxDBRetries:
			log.Fatalf("Failed to open db (%s): %s", driver, err)
		default:
			retryCount++
			time.Sleep(3 * time.Second)
		}
	}
}

func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(&mcmodel.User{}, &mcmodel.Post{}, &mcmodel.Comment{})
}
