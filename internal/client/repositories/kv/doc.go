// Package kv implements the persistent key-value surface the session store
// writes its JSON blobs to.
//
// Contract
//
//   - Get returns (nil, nil) when the key is absent.
//   - Set upserts.
//   - Delete is idempotent.
//   - List returns every pair visible to the repository; Clear removes them.
//
// Implementations: MemoryRepository (process-local), SQLRepository (SQLite or
// PostgreSQL via database/sql) and RedisRepository. Errors are wrapped with
// the operation and key, e.g. "failed to get kv[kodjobs_user]: ...".
package kv
