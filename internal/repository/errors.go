package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/markbook/internal/database"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("record already exists")
	ErrReferenced = errors.New("record is referenced by other records")
)

// translate maps driver errors onto the repository's sentinel errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case database.IsUniqueViolation(err):
		return ErrDuplicate
	case database.IsForeignKeyViolation(err):
		return ErrReferenced
	}
	return err
}

// affected returns ErrNotFound when a write touched no rows.
func affected(rows int64) error {
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
