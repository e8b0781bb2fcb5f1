package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("select match: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to match")
	}
	if isNotFound(fakeErr("pq: relation matches does not exist")) {
		t.Fatalf("expected unrelated error to be ignored")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Run("matches 23503", func(t *testing.T) {
		err := fmt.Errorf("upsert match: %w", &pq.Error{Code: "23503"})
		if !isForeignKeyViolation(err) {
			t.Fatalf("expected true for foreign key violation")
		}
	})

	t.Run("ignores unique violation", func(t *testing.T) {
		if isForeignKeyViolation(&pq.Error{Code: "23505"}) {
			t.Fatalf("expected false for unique violation")
		}
	})
}

func TestNullStringRoundTrip(t *testing.T) {
	blank := "  "
	if nullString(&blank).Valid || nullString(nil).Valid {
		t.Fatalf("blank and nil must be NULL")
	}

	venue := "Anfield"
	got := stringPtr(nullString(&venue))
	if got == nil || *got != venue {
		t.Fatalf("unexpected venue: %v", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
