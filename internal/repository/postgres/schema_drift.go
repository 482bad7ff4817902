package postgres

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes this layer cares about.
const (
	pgUndefinedColumn = "42703"
	pgUniqueViolation = "23505"
)

// Postgres names the offending column in the 42703 message, e.g.
// `column "has_elevator" of relation "inspections" does not exist`.
var columnNameRe = regexp.MustCompile(`column "([^"]+)"`)

// driftColumn classifies err as schema drift (a referenced column does not
// exist yet) and extracts the column name when the message carries one.
func driftColumn(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUndefinedColumn {
		return "", false
	}
	if m := columnNameRe.FindStringSubmatch(pgErr.Message); m != nil {
		return m[1], true
	}
	return "", true
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// insertQuery builds a parameterized INSERT for the given column list.
func insertQuery(table string, cols []string) string {
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
}

// withoutColumn drops one column (and its argument) from an insert payload.
func withoutColumn(cols []string, args []any, drop string) ([]string, []any) {
	outCols := make([]string, 0, len(cols)-1)
	outArgs := make([]any, 0, len(args)-1)
	for i, c := range cols {
		if c == drop {
			continue
		}
		outCols = append(outCols, c)
		outArgs = append(outArgs, args[i])
	}
	return outCols, outArgs
}
