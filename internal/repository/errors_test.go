package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNotFound)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505"}), ErrDuplicate)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23503"}), ErrReferenced)

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
}

func TestAffected(t *testing.T) {
	assert.ErrorIs(t, affected(0), ErrNotFound)
	assert.NoError(t, affected(1))
}

func TestUpsertMarkSheetSQL_KeepsNewerSubmission(t *testing.T) {
	assert.Contains(t, upsertMarkSheetSQL, "WHERE mark_sheets.updated_at <= EXCLUDED.updated_at")
	assert.Contains(t, upsertMarkSheetSQL, "id                   = EXCLUDED.id")
}
