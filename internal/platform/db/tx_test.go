package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert booking: %w", &pgconn.PgError{
		Code:           UniqueViolation,
		ConstraintName: "bookings_patient_day_uniq",
	})
	name, ok := IsUniqueViolation(err)
	if !ok {
		t.Fatal("expected unique violation to be detected through wrapping")
	}
	if name != "bookings_patient_day_uniq" {
		t.Errorf("expected constraint name, got %q", name)
	}

	if _, ok := IsUniqueViolation(&pgconn.PgError{Code: "23503"}); ok {
		t.Error("foreign key violation must not be reported as unique violation")
	}
	if _, ok := IsUniqueViolation(errors.New("boom")); ok {
		t.Error("plain error must not be reported as unique violation")
	}
	if _, ok := IsUniqueViolation(nil); ok {
		t.Error("nil must not be reported as unique violation")
	}
}

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(fmt.Errorf("get booking: %w", pgx.ErrNoRows)) {
		t.Error("expected wrapped ErrNoRows to match")
	}
	if IsNoRows(errors.New("timeout")) {
		t.Error("unexpected match for unrelated error")
	}
}

func TestTxFromContext_Empty(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Errorf("expected nil tx, got %v", tx)
	}
}
