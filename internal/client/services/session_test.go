package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/kodjobs/internal/client/models"
	"github.com/dmitrijs2005/kodjobs/internal/client/notify"
	"github.com/dmitrijs2005/kodjobs/internal/client/repositories/kv"
	"github.com/dmitrijs2005/kodjobs/internal/client/seed"
	"github.com/dmitrijs2005/kodjobs/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ---- helpers ----

func seedUsers(t *testing.T) []models.UserRecord {
	t.Helper()
	users, err := seed.Default()
	require.NoError(t, err)
	return users
}

func newStore(t *testing.T, repo kv.Repository, opts ...Option) (*SessionStore, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	base := []Option{WithDelay(0), WithNotifier(rec), WithSeed(seedUsers(t))}
	s := NewSessionStore(repo, append(base, opts...)...)
	return s, rec
}

func putJSON(t *testing.T, repo kv.Repository, key string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, repo.Set(context.Background(), key, data))
}

func storedDirectory(t *testing.T, repo kv.Repository) []models.UserRecord {
	t.Helper()
	raw, err := repo.Get(context.Background(), "kodjobs_users")
	require.NoError(t, err)
	require.NotNil(t, raw)
	users, err := models.DecodeDirectory(raw)
	require.NoError(t, err)
	return users
}

func storedSession(t *testing.T, repo kv.Repository) *models.UserRecord {
	t.Helper()
	raw, err := repo.Get(context.Background(), "kodjobs_user")
	require.NoError(t, err)
	if raw == nil {
		return nil
	}
	u, err := models.DecodeUser(raw)
	require.NoError(t, err)
	return u
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 100
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprint(n)
	}
}

// failingRepo rejects every call, simulating an unavailable store.
type failingRepo struct{}

var errBroken = errors.New("store is down")

func (failingRepo) Get(context.Context, string) ([]byte, error)     { return nil, errBroken }
func (failingRepo) Set(context.Context, string, []byte) error       { return errBroken }
func (failingRepo) Delete(context.Context, string) error            { return errBroken }
func (failingRepo) List(context.Context) (map[string][]byte, error) { return nil, errBroken }
func (failingRepo) Clear(context.Context) error                     { return errBroken }

// ---- hydration ----

func TestHydrate_EmptyStore_SeedsAndPersistsDirectory(t *testing.T) {
	repo := kv.NewMemoryRepository()
	s, _ := newStore(t, repo)

	require.False(t, s.Ready())
	s.Hydrate(context.Background())
	require.True(t, s.Ready())

	assert.Nil(t, s.CurrentUser())
	assert.False(t, s.IsAuthenticated())

	stored := storedDirectory(t, repo)
	require.Len(t, stored, 3)
	assert.Equal(t, "password123", stored[0].Password, "directory keeps passwords")

	for _, u := range s.Directory(context.Background()) {
		assert.Empty(t, u.Password)
	}
}

func TestHydrate_RunsOnce(t *testing.T) {
	repo := kv.NewMemoryRepository()
	s, _ := newStore(t, repo)
	s.Hydrate(context.Background())

	putJSON(t, repo, "kodjobs_user", models.UserRecord{ID: "1", Email: "john@example.com"})
	s.Hydrate(context.Background())
	assert.Nil(t, s.CurrentUser())
}

func TestHydrate_HealsStaleCompletion(t *testing.T) {
	repo := kv.NewMemoryRepository()
	stale := models.UserRecord{
		ID: "7", Name: "Ada", Email: "ada@example.com", DateOfBirth: "1990-01-01",
		Title: "Engineer", ProfileCompletion: 99,
	}
	entry := stale
	entry.Password = "secret"
	putJSON(t, repo, "kodjobs_users", []models.UserRecord{entry})
	putJSON(t, repo, "kodjobs_user", stale)

	s, _ := newStore(t, repo)
	s.Hydrate(context.Background())

	u := s.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, 30, u.ProfileCompletion)

	assert.Equal(t, 30, storedSession(t, repo).ProfileCompletion)
	dir := storedDirectory(t, repo)
	require.Len(t, dir, 1)
	assert.Equal(t, 30, dir[0].ProfileCompletion)
	assert.Equal(t, "secret", dir[0].Password)
}

func TestHydrate_StripsPasswordFromSessionSlot(t *testing.T) {
	repo := kv.NewMemoryRepository()
	putJSON(t, repo, "kodjobs_user", models.UserRecord{ID: "1", Name: "John", Email: "john@example.com", Password: "leaked"})

	s, _ := newStore(t, repo)
	s.Hydrate(context.Background())

	require.NotNil(t, s.CurrentUser())
	assert.Empty(t, s.CurrentUser().Password)
	assert.Empty(t, storedSession(t, repo).Password)
}

func TestHydrate_CorruptSession_ClearsSlot(t *testing.T) {
	repo := kv.NewMemoryRepository()
	require.NoError(t, repo.Set(context.Background(), "kodjobs_user", []byte("{not json")))

	s, _ := newStore(t, repo)
	s.Hydrate(context.Background())

	assert.Nil(t, s.CurrentUser())
	assert.Nil(t, storedSession(t, repo))
}

func TestHydrate_CorruptDirectory_UsesSeedWithoutOverwriting(t *testing.T) {
	repo := kv.NewMemoryRepository()
	require.NoError(t, repo.Set(context.Background(), "kodjobs_users", []byte(`[{"id":""}]`)))

	s, _ := newStore(t, repo)
	s.Hydrate(context.Background())

	assert.Len(t, s.Directory(context.Background()), 3)
	raw, err := repo.Get(context.Background(), "kodjobs_users")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":""}]`, string(raw))
}

func TestHydrate_CorruptDirectory_KeepsSessionOutOfSeed(t *testing.T) {
	repo := kv.NewMemoryRepository()
	require.NoError(t, repo.Set(context.Background(), "kodjobs_users", []byte(`[{"id":""}]`)))
	putJSON(t, repo, "kodjobs_user", models.UserRecord{ID: "1", Name: "Someone", Email: "someone@x.com"})

	s, _ := newStore(t, repo)
	s.Hydrate(context.Background())

	u := s.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, "someone@x.com", u.Email)

	raw, err := repo.Get(context.Background(), "kodjobs_users")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":""}]`, string(raw))

	dir := s.Directory(context.Background())
	require.Len(t, dir, 3)
	assert.Equal(t, "john@example.com", dir[0].Email)

	_, err = s.Authenticate(context.Background(), "john@example.com", "password123")
	require.NoError(t, err)
	_, err = s.Authenticate(context.Background(), "someone@x.com", "password123")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestHydrate_SessionIDOwnedByOtherEmail_LeavesEntry(t *testing.T) {
	repo := kv.NewMemoryRepository()
	putJSON(t, repo, "kodjobs_users", []models.UserRecord{
		{ID: "1", Name: "John", Email: "john@example.com", Password: "pw"},
	})
	putJSON(t, repo, "kodjobs_user", models.UserRecord{ID: "1", Name: "Someone", Email: "someone@x.com"})

	s, _ := newStore(t, repo)
	s.Hydrate(context.Background())

	dir := storedDirectory(t, repo)
	require.Len(t, dir, 1)
	assert.Equal(t, "john@example.com", dir[0].Email)
	assert.Equal(t, "John", dir[0].Name)
	assert.Equal(t, "someone@x.com", storedSession(t, repo).Email)
}

func TestHydrate_NumericLegacyIDs(t *testing.T) {
	repo := kv.NewMemoryRepository()
	require.NoError(t, repo.Set(context.Background(), "kodjobs_users",
		[]byte(`[{"id":1700000000000,"name":"Old","email":"old@example.com","password":"pw"}]`)))

	s, _ := newStore(t, repo)
	u, err := s.Authenticate(context.Background(), "old@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.ID("1700000000000"), u.ID)
}

func TestHydrate_UnavailableStore_FailsOpen(t *testing.T) {
	s, rec := newStore(t, failingRepo{})
	s.Hydrate(context.Background())

	require.True(t, s.Ready())
	assert.Nil(t, s.CurrentUser())
	assert.Len(t, s.Directory(context.Background()), 3)

	u, err := s.Register(context.Background(), "Sam", "sam@example.com", "pw", "2000-01-01")
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", u.Email)
	assert.True(t, s.IsAuthenticated())

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "Account created", last.Title)
}

func TestNamespace_ChangesKeys(t *testing.T) {
	repo := kv.NewMemoryRepository()
	s, _ := newStore(t, repo, WithNamespace("demo"))
	s.Hydrate(context.Background())

	raw, err := repo.Get(context.Background(), "demo_users")
	require.NoError(t, err)
	assert.NotNil(t, raw)

	raw, err = repo.Get(context.Background(), "kodjobs_users")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

// ---- register ----

func TestRegister_CreatesAndSignsIn(t *testing.T) {
	repo := kv.NewMemoryRepository()
	s, rec := newStore(t, repo, WithIDGenerator(sequentialIDs()))

	u, err := s.Register(context.Background(), "Sam", "sam@example.com", "pw", "2000-01-01")
	require.NoError(t, err)

	assert.Equal(t, models.ID("101"), u.ID)
	assert.Empty(t, u.Password)
	assert.Equal(t, 25, u.ProfileCompletion)

	dir := storedDirectory(t, repo)
	require.Len(t, dir, 4)
	assert.Equal(t, "pw", dir[3].Password)

	sess := storedSession(t, repo)
	require.NotNil(t, sess)
	assert.Empty(t, sess.Password)
	assert.Equal(t, u.ID, sess.ID)

	assert.Equal(t, []notify.Notification{notify.Success("Account created", "Welcome to KodJobs!")}, rec.All())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := kv.NewMemoryRepository()
	s, rec := newStore(t, repo)
	s.Hydrate(context.Background())
	before := storedDirectory(t, repo)

	_, err := s.Register(context.Background(), "John Again", "john@example.com", "x", "1999-01-01")
	require.ErrorIs(t, err, common.ErrEmailTaken)

	assert.Empty(t, cmp.Diff(before, storedDirectory(t, repo)))
	assert.Nil(t, s.CurrentUser())

	last, _ := rec.Last()
	assert.Equal(t, notify.Failure("Signup failed", "Email already in use"), last)
}

func TestRegister_EmailMatchIsCaseSensitive(t *testing.T) {
	s, _ := newStore(t, kv.NewMemoryRepository())

	_, err := s.Register(context.Background(), "John", "John@Example.com", "x", "1999-01-01")
	require.NoError(t, err)
}

func TestRegister_MissingFields(t *testing.T) {
	cases := []struct {
		name, uname, email, pw, dob string
	}{
		{"no name", "", "a@b.c", "pw", "2000-01-01"},
		{"blank name", "   ", "a@b.c", "pw", "2000-01-01"},
		{"no email", "A", "", "pw", "2000-01-01"},
		{"no password", "A", "a@b.c", "", "2000-01-01"},
		{"no dob", "A", "a@b.c", "pw", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := kv.NewMemoryRepository()
			s, rec := newStore(t, repo)

			_, err := s.Register(context.Background(), tc.uname, tc.email, tc.pw, tc.dob)
			require.ErrorIs(t, err, common.ErrMissingFields)
			assert.Nil(t, s.CurrentUser())
			assert.Len(t, storedDirectory(t, repo), 3)

			last, _ := rec.Last()
			assert.Equal(t, "Please fill all required fields", last.Description)
		})
	}
}

func TestRegister_RereadsDirectoryFromStore(t *testing.T) {
	repo := kv.NewMemoryRepository()
	s, _ := newStore(t, repo)
	s.Hydrate(context.Background())

	// another process registers bob
	dir := storedDirectory(t, repo)
	dir = append(dir, models.UserRecord{ID: "x", Name: "Bob", Email: "bob@example.com", Password: "pw"})
	putJSON(t, repo, "kodjobs_users", dir)

	_, err := s.Register(context.Background(), "Bob", "bob@example.com", "pw2", "2000-01-01")
	require.ErrorIs(t, err, common.ErrEmailTaken)
}

func TestRegister_SkipsCollidingIDs(t *testing.T) {
	ids := []string{"1", "", "2", "fresh"}
	gen := func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	s, _ := newStore(t, kv.NewMemoryRepository(), WithIDGenerator(gen))

	u, err := s.Register(context.Background(), "Sam", "sam@example.com", "pw", "2000-01-01")
	require.NoError(t, err)
	assert.Equal(t, models.ID("fresh"), u.ID)
}

func TestRegister_ConcurrentSameEmail_OneWins(t *testing.T) {
	repo := kv.NewMemoryRepository()
	s, _ := newStore(t, repo)

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Register(context.Background(), "Sam", "sam@example.com", "pw", "2000-01-01")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, common.ErrEmailTaken)
	}
	assert.Equal(t, 1, ok)
	assert.Len(t, storedDirectory(t, repo), 4)
}

func TestRegister_ContextCanceledDuringDelay(t *testing.T) {
	repo := kv.NewMemoryRepository()
	s, rec := newStore(t, repo, WithDelay(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Register(ctx, "Sam", "sam@example.com", "pw", "2000-01-01")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, rec.All())
	assert.False(t, s.Loading())

	raw, err := repo.Get(context.Background(), "kodjobs_users")
	require.NoError(t, err)
	assert.Nil(t, raw, "nothing touched the store")
}

// ---- authenticate ----

func TestAuthenticate_Success(t *testing.T) {
	repo := kv.NewMemoryRepository()
	s, rec := newStore(t, repo)

	u, err := s.Authenticate(context.Background(), "john@example.com", "password123")
	require.NoError(t, err)

	assert.Equal(t, models.ID("1"), u.ID)
	assert.Empty(t, u.Password)
	assert.Equal(t, 45, u.ProfileCompletion)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, u, storedSession(t, repo))

	last, _ := rec.Last()
	assert.Equal(t, notify.Success("Login successful", "Welcome back to KodJobs!"), last)
}

func TestAuthenticate_InvalidCredentials_LeavesStateUnchanged(t *testing.T) {
	repo := kv.NewMemoryRepository()
	s, rec := newStore(t, repo)

	_, err := s.Authenticate(context.Background(), "jane@example.com", "password123")
	require.NoError(t, err)
	before := s.CurrentUser()

	for _, tc := range []struct{ email, pw string }{
		{"john@example.com", "wrong"},
		{"nobody@example.com", "password123"},
		{"JOHN@example.com", "password123"},
	} {
		_, err := s.Authenticate(context.Background(), tc.email, tc.pw)
		require.ErrorIs(t, err, common.ErrInvalidCredentials)
	}

	assert.Equal(t, before, s.CurrentUser())
	assert.Equal(t, before, storedSession(t, repo))

	last, _ := rec.Last()
	assert.Equal(t, notify.Failure("Login failed", "Invalid email or password"), last)
}

func TestAuthenticate_ReportsLoadingDuringDelay(t *testing.T) {
	s, _ := newStore(t, kv.NewMemoryRepository(), WithDelay(100*time.Millisecond))
	s.Hydrate(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := s.Authenticate(context.Background(), "demo@kodjobs.com", "demo1234")
		done <- err
	}()

	require.Eventually(t, s.Loading, time.Second, 5*time.Millisecond)
	require.NoError(t, <-done)
	assert.False(t, s.Loading())
}

// ---- sign out ----

func TestSignOut(t *testing.T) {
	repo := kv.NewMemoryRepository()
	s, rec := newStore(t, repo)

	_, err := s.Authenticate(context.Background(), "john@example.com", "password123")
	require.NoError(t, err)

	s.SignOut(context.Background())
	assert.Nil(t, s.CurrentUser())
	assert.Nil(t, storedSession(t, repo))
	assert.Len(t, storedDirectory(t, repo), 3)

	// idempotent
	s.SignOut(context.Background())
	last, _ := rec.Last()
	assert.Equal(t, "Logged out", last.Title)
}

// ---- profile updates ----

func TestUpdateProfile_RecomputesCompletion(t *testing.T) {
	repo := kv.NewMemoryRepository()
	s, rec := newStore(t, repo)

	u, err := s.Register(context.Background(), "Sam", "sam@example.com", "pw", "2000-01-01")
	require.NoError(t, err)
	require.Equal(t, 25, u.ProfileCompletion)

	u, err = s.UpdateProfile(context.Background(), models.Patch{Title: models.String("Engineer")})
	require.NoError(t, err)
	assert.Equal(t, 30, u.ProfileCompletion)
	assert.Equal(t, "Engineer", u.Title)

	dir := storedDirectory(t, repo)
	entry := dir[len(dir)-1]
	assert.Equal(t, "Engineer", entry.Title)
	assert.Equal(t, 30, entry.ProfileCompletion)
	assert.Equal(t, "pw", entry.Password)

	last, _ := rec.Last()
	assert.Equal(t, notify.Success("Profile updated", "Your profile has been updated successfully."), last)
}

func TestUpdateProfile_ClearingFieldLowersScore(t *testing.T) {
	s, _ := newStore(t, kv.NewMemoryRepository())
	_, err := s.Authenticate(context.Background(), "john@example.com", "password123")
	require.NoError(t, err)

	u, err := s.UpdateProfile(context.Background(), models.Patch{Skills: models.String("")})
	require.NoError(t, err)
	assert.Equal(t, 35, u.ProfileCompletion)
}

func TestUpdateProfile_ExplicitCompletion(t *testing.T) {
	repo := kv.NewMemoryRepository()
	s, _ := newStore(t, repo)
	_, err := s.Authenticate(context.Background(), "demo@kodjobs.com", "demo1234")
	require.NoError(t, err)

	u, err := s.UpdateProfile(context.Background(), models.Patch{ProfileCompletion: models.Int(85)})
	require.NoError(t, err)
	assert.Equal(t, 85, u.ProfileCompletion)
	assert.Equal(t, 85, storedSession(t, repo).ProfileCompletion)

	u, err = s.UpdateProfile(context.Background(), models.Patch{ProfileCompletion: models.Int(140)})
	require.NoError(t, err)
	assert.Equal(t, 100, u.ProfileCompletion)

	// the next hydration heals it back
	fresh, _ := newStore(t, repo)
	fresh.Hydrate(context.Background())
	assert.Equal(t, 25, fresh.CurrentUser().ProfileCompletion)
}

func TestUpdateProfile_NotAuthenticated(t *testing.T) {
	repo := kv.NewMemoryRepository()
	s, _ := newStore(t, repo)
	s.Hydrate(context.Background())
	before := storedDirectory(t, repo)

	_, err := s.UpdateProfile(context.Background(), models.Patch{Title: models.String("x")})
	require.ErrorIs(t, err, common.ErrNotAuthenticated)
	assert.Empty(t, cmp.Diff(before, storedDirectory(t, repo)))
}

func TestUpdateProfile_RoundTripsThroughStore(t *testing.T) {
	repo := kv.NewMemoryRepository()
	s, _ := newStore(t, repo)
	_, err := s.Authenticate(context.Background(), "jane@example.com", "password123")
	require.NoError(t, err)

	want, err := s.UpdateProfile(context.Background(), models.Patch{
		Phone:      models.String("+1 555 0100"),
		GitHub:     models.String("github.com/jane"),
		Education:  models.String("MFA"),
		Experience: models.String("8 years"),
	})
	require.NoError(t, err)

	fresh, _ := newStore(t, repo)
	fresh.Hydrate(context.Background())
	assert.Empty(t, cmp.Diff(want, fresh.CurrentUser()))

	again, err := fresh.Authenticate(context.Background(), "jane@example.com", "password123")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, again))
}

// ---- assets ----

func TestAttachAsset(t *testing.T) {
	s, _ := newStore(t, kv.NewMemoryRepository())
	_, err := s.Register(context.Background(), "Sam", "sam@example.com", "pw", "2000-01-01")
	require.NoError(t, err)
	_, err = s.UpdateProfile(context.Background(), models.Patch{Title: models.String("Engineer")})
	require.NoError(t, err)

	u, err := s.AttachAsset(context.Background(), models.AssetResume, "blob:abc")
	require.NoError(t, err)
	assert.True(t, u.Resume)
	assert.Equal(t, 35, u.ProfileCompletion)

	u, err = s.AttachAsset(context.Background(), models.AssetProfileImage, "https://cdn.example/p.png")
	require.NoError(t, err)
	assert.True(t, u.ProfileImage)
	assert.Equal(t, "https://cdn.example/p.png", u.ProfileImageURL)
	assert.Equal(t, 40, u.ProfileCompletion)

	_, err = s.AttachAsset(context.Background(), models.AssetKind("video"), "x")
	require.ErrorIs(t, err, common.ErrUnknownAssetKind)
}

// ---- observers ----

func TestOnChange(t *testing.T) {
	s, _ := newStore(t, kv.NewMemoryRepository())

	var got []*models.UserRecord
	unsubscribe := s.OnChange(func(u *models.UserRecord) {
		// callbacks may read the store
		_ = s.IsAuthenticated()
		got = append(got, u)
	})

	_, err := s.Authenticate(context.Background(), "john@example.com", "password123")
	require.NoError(t, err)
	_, err = s.Authenticate(context.Background(), "john@example.com", "nope")
	require.Error(t, err)
	s.SignOut(context.Background())

	require.Len(t, got, 2)
	assert.Equal(t, "john@example.com", got[0].Email)
	assert.Nil(t, got[1])

	unsubscribe()
	unsubscribe()
	_, err = s.Authenticate(context.Background(), "john@example.com", "password123")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestOnChange_SkipsSupersededChange(t *testing.T) {
	s, _ := newStore(t, kv.NewMemoryRepository())

	var got []string
	s.OnChange(func(u *models.UserRecord) {
		if u == nil {
			got = append(got, "")
			return
		}
		got = append(got, u.Email)
	})

	s.emit(2, &models.UserRecord{Email: "new@example.com"})
	s.emit(1, &models.UserRecord{Email: "old@example.com"})
	s.emit(3, nil)

	assert.Equal(t, []string{"new@example.com", ""}, got)
}

func TestOnChange_MutationFromCallback(t *testing.T) {
	s, _ := newStore(t, kv.NewMemoryRepository())

	var got []*models.UserRecord
	s.OnChange(func(u *models.UserRecord) {
		got = append(got, u)
		if u != nil {
			s.SignOut(context.Background())
		}
	})

	_, err := s.Authenticate(context.Background(), "john@example.com", "password123")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "john@example.com", got[0].Email)
	assert.Nil(t, got[1])
	assert.False(t, s.IsAuthenticated())
}

func TestOnChange_ConcurrentMutations_LastSeenIsCurrent(t *testing.T) {
	s, _ := newStore(t, kv.NewMemoryRepository())
	_, err := s.Authenticate(context.Background(), "john@example.com", "password123")
	require.NoError(t, err)

	var mu sync.Mutex
	var last *models.UserRecord
	s.OnChange(func(u *models.UserRecord) {
		mu.Lock()
		defer mu.Unlock()
		last = u
	})

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpdateProfile(context.Background(), models.Patch{Title: models.String(fmt.Sprint("title-", i))})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, last)
	assert.Equal(t, s.CurrentUser().Title, last.Title)
}

func TestCurrentUser_ReturnsCopy(t *testing.T) {
	s, _ := newStore(t, kv.NewMemoryRepository())
	_, err := s.Authenticate(context.Background(), "john@example.com", "password123")
	require.NoError(t, err)

	u := s.CurrentUser()
	u.Name = "mutated"
	assert.Equal(t, "John Doe", s.CurrentUser().Name)
}
