package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestConstraintClassification(t *testing.T) {
	unique := &pgconn.PgError{Code: pgUniqueViolation}
	fk := &pgconn.PgError{Code: pgForeignKeyViolation}

	testCases := []struct {
		name   string
		err    error
		unique bool
		fk     bool
	}{
		{"unique", unique, true, false},
		{"wrapped unique", fmt.Errorf("insert: %w", unique), true, false},
		{"foreign key", fk, false, true},
		{"plain error mentioning unique", errors.New("unique 23505"), false, false},
		{"nil", nil, false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isUniqueViolation(tc.err); got != tc.unique {
				t.Errorf("isUniqueViolation = %v, want %v", got, tc.unique)
			}
			if got := isForeignKeyViolation(tc.err); got != tc.fk {
				t.Errorf("isForeignKeyViolation = %v, want %v", got, tc.fk)
			}
		})
	}
}

func TestTranslateInvoiceWriteError(t *testing.T) {
	if err := translateInvoiceWriteError("create", &pgconn.PgError{Code: pgUniqueViolation}); !errors.Is(err, ErrInvoiceNumberExists) {
		t.Errorf("expected ErrInvoiceNumberExists, got %v", err)
	}
	if err := translateInvoiceWriteError("create", &pgconn.PgError{Code: pgForeignKeyViolation}); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}

	base := errors.New("connection reset")
	err := translateInvoiceWriteError("update", base)
	if !errors.Is(err, base) {
		t.Errorf("expected wrapped base error, got %v", err)
	}
	if err.Error() != "failed to update invoice: connection reset" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestLikePattern(t *testing.T) {
	testCases := map[string]string{
		"acme":    "%acme%",
		"":        "%%",
		"50%":     `%50\%%`,
		"a_b":     `%a\_b%`,
		`back\sl`: `%back\\sl%`,
	}
	for in, want := range testCases {
		if got := likePattern(in); got != want {
			t.Errorf("likePattern(%q) = %q, want %q", in, got, want)
		}
	}
}
