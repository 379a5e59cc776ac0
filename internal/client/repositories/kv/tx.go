package kv

import (
	"context"

	"github.com/dmitrijs2005/kodjobs/internal/dbx"
)

// Transactional is implemented by repositories that can apply several writes
// atomically. fn receives a repository bound to the transaction.
type Transactional interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repository) error) error
}

// Atomically runs fn inside a transaction when r supports it, and directly
// against r otherwise.
func Atomically(ctx context.Context, r Repository, fn func(ctx context.Context, r Repository) error) error {
	if t, ok := r.(Transactional); ok {
		return t.WithinTx(ctx, fn)
	}
	return fn(ctx, r)
}

// WithinTx starts a transaction when the underlying handle can begin one.
// A repository already bound to a transaction runs fn directly.
func (r *SQLRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repository) error) error {
	db, ok := r.db.(dbx.TxBeginner)
	if !ok {
		return fn(ctx, r)
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, NewSQLRepository(tx, r.dialect))
	})
}
