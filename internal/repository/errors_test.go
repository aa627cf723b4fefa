package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"project-service/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, domain.ErrNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, domain.ErrConflict},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, domain.ErrConflict},
		{"pg connection failure", &pgconn.PgError{Code: "08006"}, domain.ErrTransientStore},
		{"pg admin shutdown", &pgconn.PgError{Code: "57P01"}, domain.ErrTransientStore},
		{"pg value too long", &pgconn.PgError{Code: "22001"}, domain.ErrValidation},
		{"pg serialization failure", &pgconn.PgError{Code: "40001"}, domain.ErrTransientStore},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), domain.ErrTransientStore},
		{"domain passthrough", domain.ErrForbidden, domain.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := translateError(tc.in); !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	if translateError(nil) != nil {
		t.Fatal("expected nil to stay nil")
	}
	other := errors.New("syntax error")
	if got := translateError(&pgconn.PgError{Code: "42601", Message: "x"}); errors.Is(got, domain.ErrTransientStore) || errors.Is(got, domain.ErrConflict) {
		t.Fatalf("expected syntax error to pass through, got %v", got)
	}
	if got := translateError(other); got != other {
		t.Fatalf("expected unknown error unchanged, got %v", got)
	}
}
