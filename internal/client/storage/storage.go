// Package storage opens the persistent key-value backend selected by the
// configuration: memory, sqlite, postgres or redis.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kodjobs/internal/client/migrations"
	"github.com/dmitrijs2005/kodjobs/internal/client/repositories/kv"
	"github.com/dmitrijs2005/kodjobs/internal/common"
	"github.com/dmitrijs2005/kodjobs/internal/filex"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

const (
	defaultSQLitePath = "data/kodjobs.db"
	defaultRedisAddr  = "127.0.0.1:6379"
)

// Options selects and locates a backend. Namespace prefixes redis keys.
type Options struct {
	Backend   string
	DSN       string
	Namespace string
}

// Storage is an opened backend. Close releases its connections.
type Storage struct {
	KV    kv.Repository
	close func() error
}

func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

var openDB = sql.Open

// Open connects to the backend and, for SQL backends, applies migrations.
func Open(ctx context.Context, opts Options) (*Storage, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return &Storage{KV: kv.NewMemoryRepository()}, nil
	case BackendSQLite:
		path := opts.DSN
		if path == "" {
			p, err := filex.DataFile(defaultSQLitePath)
			if err != nil {
				return nil, fmt.Errorf("sqlite data file: %w", err)
			}
			path = p
		}
		return openSQL(ctx, "sqlite", path, kv.DialectSQLite)
	case BackendPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres backend requires a DSN")
		}
		return openSQL(ctx, "pgx", opts.DSN, kv.DialectPostgres)
	case BackendRedis:
		return openRedis(ctx, opts)
	}
	return nil, fmt.Errorf("%w: %q", common.ErrUnknownBackend, opts.Backend)
}

func openSQL(ctx context.Context, driver, dsn string, dialect kv.Dialect) (*Storage, error) {
	db, err := openDB(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if dialect == kv.DialectSQLite {
		// one writer; avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("ping %s: %w", driver, err), db.Close())
	}
	if err := migrations.Run(ctx, db, string(dialect)); err != nil {
		return nil, errors.Join(fmt.Errorf("migrate %s: %w", driver, err), db.Close())
	}

	return &Storage{KV: kv.NewSQLRepository(db, dialect), close: db.Close}, nil
}

func openRedis(ctx context.Context, opts Options) (*Storage, error) {
	var ro *redis.Options
	if opts.DSN == "" {
		ro = &redis.Options{Addr: defaultRedisAddr}
	} else if parsed, err := redis.ParseURL(opts.DSN); err == nil {
		ro = parsed
	} else {
		ro = &redis.Options{Addr: opts.DSN}
	}

	client := redis.NewClient(ro)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(fmt.Errorf("ping redis %s: %w", ro.Addr, err), client.Close())
	}

	prefix := ""
	if opts.Namespace != "" {
		prefix = opts.Namespace + ":"
	}
	return &Storage{KV: kv.NewRedisRepository(client, prefix), close: client.Close}, nil
}
