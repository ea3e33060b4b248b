package stor

import (
	"gorm.io/gorm"
)

const minTxRetry = 3

// WithTxRetry runs fn in a transaction, retrying up to retryCount times (never
// fewer than 3) until it commits.
func WithTxRetry(db *gorm.DB, retryCount int, fn func(tx *gorm.DB) error) error {
	var err error

	if retryCount < minTxRetry {
		retryCount = minTxRetry
	}

	for i := 0; i < retryCount; i++ {
		err = db.Transaction(fn)
		if err == nil {
			break
		}
	}

	return err
}
