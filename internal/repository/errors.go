package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"project-service/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// StoreError carries a driver error classified into the domain taxonomy.
// errors.Is matches both Kind and the driver error.
type StoreError struct {
	Kind error
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// translateError maps store errors onto the domain taxonomy. Domain errors and
// anything unrecognised pass through unchanged.
func translateError(err error) error {
	var storeErr *StoreError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &storeErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case isUniqueViolation(err):
		return &StoreError{Kind: domain.ErrConflict, Err: err}
	case isDataException(err):
		return &StoreError{Kind: domain.ErrValidation, Err: err}
	case isTransient(err):
		return &StoreError{Kind: domain.ErrTransientStore, Err: err}
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// sqlite dialector without error translation
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isDataException matches SQLSTATE class 22, such as 22001 for a value too long for its column
func isDataException(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "22")
}

func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"): // connection exception
			return true
		case pgErr.Code == "57P01", pgErr.Code == "40001", pgErr.Code == "40P01":
			return true
		}
		return false
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
