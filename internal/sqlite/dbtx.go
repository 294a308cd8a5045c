package sqlite

import (
	"context"
	"database/sql"
	"strings"
)

// DBTX is the query surface shared by *sql.DB, *sql.Tx and *sql.Conn. The
// managers take a DBTX so the caller decides which transaction or snapshot
// they run in.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tx is one write transaction with the managers bound to it. It is only
// valid inside the Backend.WithTx callback that produced it.
type Tx struct {
	Hierarchy *Hierarchy
	Tags      *TagAssociations
	Reader    *AggregateReader

	nodes nodeRows
	tags  tagRows
}

func newTx(q DBTX) *Tx {
	return &Tx{
		Hierarchy: NewHierarchy(q),
		Tags:      NewTagAssociations(q),
		Reader:    NewAggregateReader(q),
		nodes:     nodeRows{q: q},
		tags:      tagRows{q: q},
	}
}

// placeholders returns "?, ?, ?" for n arguments, or "" for zero.
func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// stringArgs converts ids to a []any for variadic query arguments.
func stringArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// nullString maps a nil pointer to SQL NULL.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// stringPtr maps SQL NULL to a nil pointer.
func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
