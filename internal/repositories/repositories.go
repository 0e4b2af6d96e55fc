// Package repositories implements the data access layer over PostgreSQL.
// Repositories satisfy the storage interfaces declared by the services
// package and keep all SQL in one place.
package repositories

import (
	"context"
	"errors"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinel errors returned by repositories. The service layer maps these to
// caller-facing coded errors; repositories never build transport errors.
var (
	ErrVideoNotFound   = errors.New("video not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrUserNotFound    = errors.New("user not found")
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique constraint
// violations. The toggle path relies on it to detect a concurrent insert.
const pgUniqueViolation = "23505"

// querier abstracts the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so
// every repository method can run either standalone or inside a managed
// transaction session.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// pick returns the transaction bound to the session when one is active,
// falling back to the pool for standalone statements.
func pick(db *pgxpool.Pool, sess txmanager.Session) querier {
	if sess != nil && sess.Tx() != nil {
		return sess.Tx()
	}
	return db
}

// isUniqueViolation reports whether err is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
