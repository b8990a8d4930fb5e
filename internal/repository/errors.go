package repository

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
)

const uniqueViolationCode = "23505"

// detailKey matches the column list of a postgres unique violation detail:
// Key (username)=(alice) already exists.
var detailKey = regexp.MustCompile(`^Key \(([^)]+)\)=`)

// uniqueViolation reports whether err is a uniqueness violation and which
// column (or columns) caused it.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		if m := detailKey.FindStringSubmatch(pgErr.Detail); m != nil {
			return m[1], true
		}
		if pgErr.ColumnName != "" {
			return pgErr.ColumnName, true
		}
		return constraintColumn(pgErr.TableName, pgErr.ConstraintName), true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	return "", false
}

// constraintColumn turns a default constraint name such as
// accounts_username_key back into its column.
func constraintColumn(table, constraint string) string {
	col := strings.TrimPrefix(constraint, table+"_")
	col = strings.TrimSuffix(col, "_key")
	return col
}

// translateError maps a gorm error to an application error. nil stays nil.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if field, ok := uniqueViolation(err); ok {
		return apperrors.NewDuplicateFieldError(field)
	}
	return apperrors.NewDatabaseError(err)
}

// findOne runs a First query and maps a missing row to (nil, nil).
func findOne[T any](db *gorm.DB, query interface{}, args ...interface{}) (*T, error) {
	var out T
	err := db.Where(query, args...).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &out, nil
}
