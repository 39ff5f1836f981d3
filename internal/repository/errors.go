package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aidanjbailey/anidopt/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps driver constraint failures to ConstraintViolationError
// and wraps everything else.
func translateError(err error, entity string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return uniqueViolation(entity, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return foreignKeyViolation(entity, pgErr.ConstraintName)
		}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return uniqueViolation(entity, sqliteConstraint(sqliteErr))
		case sqlite3.ErrConstraintForeignKey:
			return foreignKeyViolation(entity, "")
		}
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return uniqueViolation(entity, "")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return foreignKeyViolation(entity, "")
	}

	return fmt.Errorf("%s store: %w", entity, err)
}

func uniqueViolation(entity, constraint string) *domain.ConstraintViolationError {
	return domain.NewConstraintViolationError(
		domain.ConstraintUnique,
		constraint,
		fmt.Sprintf("%s already exists", entity),
	)
}

func foreignKeyViolation(entity, constraint string) *domain.ConstraintViolationError {
	return domain.NewConstraintViolationError(
		domain.ConstraintForeignKey,
		constraint,
		fmt.Sprintf("%s references a missing row or is still referenced", entity),
	)
}

// sqliteConstraint extracts the column list from messages such as
// "UNIQUE constraint failed: breeds.name, breeds.species_id".
func sqliteConstraint(err sqlite3.Error) string {
	_, cols, ok := strings.Cut(err.Error(), ": ")
	if !ok {
		return ""
	}
	return cols
}

func isUniqueViolation(err error) bool {
	var cv *domain.ConstraintViolationError
	return errors.As(err, &cv) && cv.Kind == domain.ConstraintUnique
}
