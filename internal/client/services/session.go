// Package services contains application services for the KodJobs client.
// This file defines the SessionStore: the registered-user directory, the
// signed-in session user and every operation that mutates them.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/kodjobs/internal/client/completion"
	"github.com/dmitrijs2005/kodjobs/internal/client/models"
	"github.com/dmitrijs2005/kodjobs/internal/client/notify"
	"github.com/dmitrijs2005/kodjobs/internal/client/repositories/kv"
	"github.com/dmitrijs2005/kodjobs/internal/common"
	"github.com/dmitrijs2005/kodjobs/internal/logging"
)

// SessionStore owns the user directory and the current session user and
// persists both as JSON blobs in a kv.Repository.
//
// Invariants:
//   - emails are unique across the directory;
//   - the session user is the directory entry with the same id minus its
//     password;
//   - ProfileCompletion is recomputed on every hydration and mutation,
//     except when UpdateProfile is given an explicit value.
//
// All mutations are serialized. Persistent-store failures are logged and
// never returned: the store falls back to in-memory/default state.
type SessionStore struct {
	repo     kv.Repository
	log      logging.Logger
	notifier notify.Notifier
	delay    time.Duration
	seed     []models.UserRecord
	userKey  string
	usersKey string
	newID    func() string

	mu        sync.Mutex
	current   *models.UserRecord
	directory []models.UserRecord
	ready     bool
	seq       uint64

	loading atomic.Int32

	obsMu      sync.Mutex
	observers  map[int]func(*models.UserRecord)
	nextObs    int
	pending    *change
	delivered  uint64
	delivering bool
}

// change is a committed session user waiting to reach the observers.
type change struct {
	seq  uint64
	user *models.UserRecord
}

// NewSessionStore builds a store over repo. Hydrate is run lazily by the
// first operation if the caller does not run it explicitly.
func NewSessionStore(repo kv.Repository, opts ...Option) *SessionStore {
	s := &SessionStore{
		repo:      repo,
		log:       logging.Discard(),
		notifier:  notify.Nop{},
		delay:     DefaultAuthDelay,
		newID:     newUUID,
		observers: make(map[int]func(*models.UserRecord)),
	}
	WithNamespace(DefaultNamespace)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate loads the directory and session user from the persistent store.
// It runs once; later calls are no-ops.
//
// A missing directory is seeded and written back; an unreadable one is
// replaced by the seed in memory only. A session user that does not decode
// is dropped (logged-out state). A valid session user gets its
// ProfileCompletion recomputed and the session slot rewritten. Its directory
// entry, matched by id and email, is updated too when the directory is
// writable.
func (s *SessionStore) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrateLocked(ctx)
}

func (s *SessionStore) hydrateLocked(ctx context.Context) {
	if s.ready {
		return
	}

	writable := true
	if users, ok := s.readDirectory(ctx); ok {
		s.directory = users
	} else {
		s.directory = cloneUsers(s.seed)
		if writable = s.isAbsent(ctx, s.usersKey); writable {
			s.persist(ctx, false, true)
			s.log.Info(ctx, "seeded user directory", "users", len(s.directory))
		}
	}

	if u := s.readSession(ctx); u != nil {
		safe := u.Redacted()
		safe.ProfileCompletion = completion.Score(&safe)
		s.current = &safe

		syncedDirectory := false
		if i := s.indexByID(safe.ID); writable && i >= 0 && s.directory[i].Email == safe.Email {
			s.directory[i] = withPassword(safe, s.directory[i].Password)
			syncedDirectory = true
		}
		s.persist(ctx, true, syncedDirectory)
		s.log.Debug(ctx, "restored session", "user_id", safe.ID, "profile_completion", safe.ProfileCompletion)
	}

	s.ready = true
}

// Ready reports whether hydration has completed.
func (s *SessionStore) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Loading reports whether a Register or Authenticate call is in flight.
func (s *SessionStore) Loading() bool {
	return s.loading.Load() > 0
}

// CurrentUser returns a copy of the session user, or nil when signed out.
func (s *SessionStore) CurrentUser() *models.UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.current)
}

// IsAuthenticated reports whether a session user is present.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Directory returns redacted copies of every registered user.
func (s *SessionStore) Directory(ctx context.Context) []models.UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrateLocked(ctx)

	out := make([]models.UserRecord, len(s.directory))
	for i, u := range s.directory {
		out[i] = u.Redacted()
	}
	return out
}

// Register creates an account and signs it in.
//
// Errors: common.ErrEmailTaken when the email (exact match) is already
// registered, common.ErrMissingFields when any argument is blank.
func (s *SessionStore) Register(ctx context.Context, name, email, password, dateOfBirth string) (*models.UserRecord, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.hydrateLocked(ctx)
	s.refreshDirectoryLocked(ctx)

	if s.indexByEmail(email) >= 0 {
		s.mu.Unlock()
		s.notifier.Notify(ctx, notify.Failure("Signup failed", "Email already in use"))
		return nil, common.ErrEmailTaken
	}

	if blank(name) || blank(email) || blank(password) || blank(dateOfBirth) {
		s.mu.Unlock()
		s.notifier.Notify(ctx, notify.Failure("Signup failed", "Please fill all required fields"))
		return nil, common.ErrMissingFields
	}

	user := models.UserRecord{
		ID:          s.uniqueIDLocked(),
		Name:        name,
		Email:       email,
		Password:    password,
		DateOfBirth: dateOfBirth,
	}
	user.ProfileCompletion = completion.Score(&user)

	s.directory = append(s.directory, user)
	safe := user.Redacted()
	s.current = &safe
	s.persist(ctx, true, true)
	out, seq := cloneUser(s.current), s.commitLocked()
	s.mu.Unlock()

	s.log.Info(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	s.notifier.Notify(ctx, notify.Success("Account created", "Welcome to KodJobs!"))
	s.emit(seq, out)
	return cloneUser(out), nil
}

// Authenticate signs in the directory user whose email and password both
// match exactly. Unknown emails and wrong passwords both yield
// common.ErrInvalidCredentials and leave all state untouched.
func (s *SessionStore) Authenticate(ctx context.Context, email, password string) (*models.UserRecord, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.hydrateLocked(ctx)
	s.refreshDirectoryLocked(ctx)

	i := -1
	for j, u := range s.directory {
		if u.Email == email && u.Password == password {
			i = j
			break
		}
	}
	if i < 0 {
		s.mu.Unlock()
		s.log.Debug(ctx, "login rejected", "email", email)
		s.notifier.Notify(ctx, notify.Failure("Login failed", "Invalid email or password"))
		return nil, common.ErrInvalidCredentials
	}

	safe := s.directory[i].Redacted()
	safe.ProfileCompletion = completion.Score(&safe)
	s.current = &safe
	s.persist(ctx, true, false)
	out, seq := cloneUser(s.current), s.commitLocked()
	s.mu.Unlock()

	s.log.Info(ctx, "user signed in", "user_id", out.ID)
	s.notifier.Notify(ctx, notify.Success("Login successful", "Welcome back to KodJobs!"))
	s.emit(seq, out)
	return cloneUser(out), nil
}

// SignOut clears the session user and its persisted slot. It always succeeds.
func (s *SessionStore) SignOut(ctx context.Context) {
	s.mu.Lock()
	s.hydrateLocked(ctx)
	var id models.ID
	if s.current != nil {
		id = s.current.ID
	}
	s.current = nil
	s.persist(ctx, true, false)
	seq := s.commitLocked()
	s.mu.Unlock()

	s.log.Info(ctx, "user signed out", "user_id", id)
	s.notifier.Notify(ctx, notify.Success("Logged out", "You have been logged out successfully"))
	s.emit(seq, nil)
}

// UpdateProfile merges patch onto the session user and its directory entry.
//
// ProfileCompletion is recomputed from the merged fields unless the patch
// carries an explicit value, which is then stored as given (clamped to
// 0..100). The directory entry keeps its password. Returns
// common.ErrNotAuthenticated when nobody is signed in.
func (s *SessionStore) UpdateProfile(ctx context.Context, patch models.Patch) (*models.UserRecord, error) {
	s.mu.Lock()
	s.hydrateLocked(ctx)

	if s.current == nil {
		s.mu.Unlock()
		s.notifier.Notify(ctx, notify.Failure("Update failed", "You need to be logged in to update your profile"))
		return nil, common.ErrNotAuthenticated
	}

	oldID := s.current.ID
	updated := *s.current
	patch.Apply(&updated)
	updated.Password = ""
	if patch.ProfileCompletion != nil {
		updated.ProfileCompletion = min(max(*patch.ProfileCompletion, 0), 100)
	} else {
		updated.ProfileCompletion = completion.Score(&updated)
	}

	syncedDirectory := false
	if i := s.indexByID(oldID); i >= 0 {
		s.directory[i] = withPassword(updated, s.directory[i].Password)
		syncedDirectory = true
	}
	s.current = &updated
	s.persist(ctx, true, syncedDirectory)
	out, seq := cloneUser(s.current), s.commitLocked()
	s.mu.Unlock()

	s.log.Info(ctx, "profile updated", "user_id", out.ID, "profile_completion", out.ProfileCompletion)
	s.notifier.Notify(ctx, notify.Success("Profile updated", "Your profile has been updated successfully."))
	s.emit(seq, out)
	return cloneUser(out), nil
}

// AttachAsset marks an uploaded asset on the session user. ref is an opaque
// handle to already-stored bytes; for profile images it becomes
// ProfileImageURL.
func (s *SessionStore) AttachAsset(ctx context.Context, kind models.AssetKind, ref string) (*models.UserRecord, error) {
	var patch models.Patch
	switch kind {
	case models.AssetResume:
		patch.Resume = models.Bool(true)
	case models.AssetProfileImage:
		patch.ProfileImage = models.Bool(true)
		patch.ProfileImageURL = models.String(ref)
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownAssetKind, kind)
	}
	return s.UpdateProfile(ctx, patch)
}

// OnChange registers fn to run after every successful mutation with a copy
// of the new session user (nil after sign-out). Callbacks run outside the
// store lock, so they may call back into the store. Deliveries are
// serialized in commit order; a change superseded before it is delivered
// is skipped, so the last call always sees the latest user. The returned
// function unregisters fn.
func (s *SessionStore) OnChange(fn func(*models.UserRecord)) (unsubscribe func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			defer s.obsMu.Unlock()
			delete(s.observers, id)
		})
	}
}

// commitLocked numbers a mutation for emit. Callers hold s.mu.
func (s *SessionStore) commitLocked() uint64 {
	s.seq++
	return s.seq
}

// emit hands the change committed as seq to the observers. Whichever caller
// finds no delivery running drains the pending change until none is left;
// other callers, including callbacks that mutate the store, only replace it.
func (s *SessionStore) emit(seq uint64, u *models.UserRecord) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	if seq <= s.delivered || (s.pending != nil && seq <= s.pending.seq) {
		return
	}
	s.pending = &change{seq: seq, user: cloneUser(u)}
	if s.delivering {
		return
	}

	s.delivering = true
	defer func() { s.delivering = false }()

	for s.pending != nil {
		c := s.pending
		s.pending = nil
		s.delivered = c.seq

		fns := make([]func(*models.UserRecord), 0, len(s.observers))
		for _, fn := range s.observers {
			fns = append(fns, fn)
		}

		s.deliver(fns, c.user)
	}
}

// deliver runs fns with obsMu released and reacquires it even if one panics.
func (s *SessionStore) deliver(fns []func(*models.UserRecord), u *models.UserRecord) {
	s.obsMu.Unlock()
	defer s.obsMu.Lock()
	for _, fn := range fns {
		fn(cloneUser(u))
	}
}

// simulateLatency waits for the configured delay. The wait is abandoned
// when ctx is done.
func (s *SessionStore) simulateLatency(ctx context.Context) error {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	if s.delay <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(s.delay)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// --- persistence ---

func (s *SessionStore) readDirectory(ctx context.Context) ([]models.UserRecord, bool) {
	raw, err := s.repo.Get(ctx, s.usersKey)
	if err != nil {
		s.log.Warn(ctx, "failed to read user directory", "error", errors.Join(common.ErrStorageUnavailable, err))
		return nil, false
	}
	if raw == nil {
		return nil, false
	}
	users, err := models.DecodeDirectory(raw)
	if err != nil {
		s.log.Warn(ctx, "failed to parse saved users data", "error", errors.Join(common.ErrStorageCorrupt, err))
		return nil, false
	}
	return users, true
}

// isAbsent reports whether key is definitely missing, as opposed to
// unreadable or corrupt, which must not be overwritten by a seed.
func (s *SessionStore) isAbsent(ctx context.Context, key string) bool {
	raw, err := s.repo.Get(ctx, key)
	return err == nil && raw == nil
}

func (s *SessionStore) readSession(ctx context.Context) *models.UserRecord {
	raw, err := s.repo.Get(ctx, s.userKey)
	if err != nil {
		s.log.Warn(ctx, "failed to read saved user", "error", errors.Join(common.ErrStorageUnavailable, err))
		return nil
	}
	if raw == nil {
		return nil
	}
	u, err := models.DecodeUser(raw)
	if err != nil {
		s.log.Warn(ctx, "failed to parse saved user data", "error", errors.Join(common.ErrStorageCorrupt, err))
		if err := s.repo.Delete(ctx, s.userKey); err != nil {
			s.log.Error(ctx, "failed to clear saved user", "error", err)
		}
		return nil
	}
	return u
}

// refreshDirectoryLocked picks up directory changes written by another
// process sharing the persistent store. Unreadable data keeps memory as is.
func (s *SessionStore) refreshDirectoryLocked(ctx context.Context) {
	if users, ok := s.readDirectory(ctx); ok {
		s.directory = users
	}
}

// persist writes the requested slots in one transaction when the repository
// supports it. A nil session user deletes the session slot.
func (s *SessionStore) persist(ctx context.Context, session, directory bool) {
	err := kv.Atomically(ctx, s.repo, func(ctx context.Context, r kv.Repository) error {
		if directory {
			data, err := json.Marshal(s.directory)
			if err != nil {
				return err
			}
			if err := r.Set(ctx, s.usersKey, data); err != nil {
				return err
			}
		}
		if session {
			if s.current == nil {
				return r.Delete(ctx, s.userKey)
			}
			data, err := json.Marshal(s.current)
			if err != nil {
				return err
			}
			if err := r.Set(ctx, s.userKey, data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "failed to persist session state", "error", errors.Join(common.ErrStorageUnavailable, err))
	}
}

// --- helpers ---

func (s *SessionStore) indexByID(id models.ID) int {
	for i, u := range s.directory {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (s *SessionStore) indexByEmail(email string) int {
	for i, u := range s.directory {
		if u.Email == email {
			return i
		}
	}
	return -1
}

func (s *SessionStore) uniqueIDLocked() models.ID {
	for {
		id := models.ID(s.newID())
		if id != "" && s.indexByID(id) < 0 {
			return id
		}
	}
}

func withPassword(u models.UserRecord, password string) models.UserRecord {
	u.Password = password
	return u
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func cloneUser(u *models.UserRecord) *models.UserRecord {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func cloneUsers(users []models.UserRecord) []models.UserRecord {
	out := make([]models.UserRecord, len(users))
	copy(out, users)
	return out
}
