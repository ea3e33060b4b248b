package tutil

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/materials-commons/mcrel/pkg/mcdb"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// IsIntegrationTest is true when MCREL_TEST=integration, which points the test
// database at the mysql server in MCREL_TEST_MYSQL_DSN.
func IsIntegrationTest() bool {
	testType := os.Getenv("MCREL_TEST")
	return strings.ToLower(testType) == "integration"
}

// NewTestDB returns a migrated database private to t. Outside integration runs
// it is an in memory sqlite database named after the test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	driver, dsn := "sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	if IsIntegrationTest() {
		driver, dsn = "mysql", os.Getenv("MCREL_TEST_MYSQL_DSN")
		require.NotEmpty(t, dsn, "MCREL_TEST_MYSQL_DSN must be set for integration tests")
	}

	db, err := mcdb.OpenDB(driver, dsn)
	require.NoErrorf(t, err, "open %s db failed: %s", driver, err)
	require.NoError(t, mcdb.RunMigrations(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
