package services

import (
	"time"

	"github.com/dmitrijs2005/kodjobs/internal/client/models"
	"github.com/dmitrijs2005/kodjobs/internal/client/notify"
	"github.com/dmitrijs2005/kodjobs/internal/logging"
	"github.com/google/uuid"
)

// DefaultAuthDelay mirrors the latency of a networked login form.
const DefaultAuthDelay = time.Second

// DefaultNamespace prefixes the persisted keys.
const DefaultNamespace = "kodjobs"

// Option customizes a SessionStore.
type Option func(*SessionStore)

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l logging.Logger) Option {
	return func(s *SessionStore) { s.log = l }
}

// WithNotifier sets the notification sink. Defaults to notify.Nop.
func WithNotifier(n notify.Notifier) Option {
	return func(s *SessionStore) { s.notifier = n }
}

// WithDelay sets the simulated latency of Register and Authenticate.
// Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(s *SessionStore) { s.delay = d }
}

// WithSeed sets the directory written on first use, when the persistent
// store has no directory yet.
func WithSeed(users []models.UserRecord) Option {
	return func(s *SessionStore) {
		s.seed = make([]models.UserRecord, len(users))
		copy(s.seed, users)
	}
}

// WithNamespace changes the key prefix: <ns>_user and <ns>_users.
func WithNamespace(ns string) Option {
	return func(s *SessionStore) {
		s.userKey = ns + "_user"
		s.usersKey = ns + "_users"
	}
}

// WithIDGenerator replaces the id source used by Register.
func WithIDGenerator(gen func() string) Option {
	return func(s *SessionStore) { s.newID = gen }
}

func newUUID() string { return uuid.NewString() }
