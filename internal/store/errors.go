package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/user/streamcat/internal/validation"
	"gorm.io/gorm"
)

// Error kinds returned by the store. Callers match them with errors.Is; the
// wrapped chain keeps the driver error for logging.
var (
	// ErrConstraint covers unique, primary-key and foreign-key violations.
	ErrConstraint = errors.New("constraint violation")
	// ErrNotFound means a referenced identifier does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation means malformed input reached the store.
	ErrValidation = errors.New("validation error")
	// ErrConnectivity means the database could not be reached.
	ErrConnectivity = errors.New("database unreachable")
	// ErrNoResult is the Fail sentinel of reports that must resolve at
	// least one row.
	ErrNoResult = errors.New("no result")
)

// MySQL server error numbers
const (
	erDupEntry              = 1062
	erNoReferencedRow       = 1216
	erRowIsReferenced       = 1217
	erRowIsReferenced2      = 1451
	erNoReferencedRow2      = 1452
	erBadNull               = 1048
	erNoDefaultForField     = 1364
	erWarnDataOutOfRange    = 1264
	erWarnDataTruncated     = 1265
	erTruncatedWrongValue   = 1292
	erTruncatedWrongValueFn = 1366
	erDataTooLong           = 1406
	erCheckConstraint       = 3819
)

// kindOf maps a driver error onto one of the store's error kinds. It returns
// nil when the error does not belong to a known kind.
func kindOf(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case erDupEntry, erNoReferencedRow, erRowIsReferenced, erRowIsReferenced2,
			erNoReferencedRow2, erBadNull, erNoDefaultForField, erCheckConstraint:
			return ErrConstraint
		case erWarnDataOutOfRange, erWarnDataTruncated, erTruncatedWrongValue,
			erTruncatedWrongValueFn, erDataTooLong:
			return ErrValidation
		}
		return nil
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		return ErrValidation
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ErrConnectivity
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrConnectivity
	}
	return nil
}

// classify wraps err with its kind and an operation message, in the form
// "failed to <op>: <kind>: <cause>". Errors that already carry a kind are
// only prefixed.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrConstraint, ErrNotFound, ErrValidation, ErrConnectivity, ErrNoResult} {
		if errors.Is(err, known) {
			return fmt.Errorf("failed to %s: %w", op, err)
		}
	}
	if kind := kindOf(err); kind != nil {
		return fmt.Errorf("failed to %s: %w: %w", op, kind, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
