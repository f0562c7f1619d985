package services

import (
	goctx "context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elementa-lab/elementa_api/model"
)

// fakeBackend is an in-memory progressBackend for exercising the composite
// store without postgres or redis.
type fakeBackend struct {
	records map[string]*model.ProgressRecord
	fail    bool
	saves   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{records: map[string]*model.ProgressRecord{}}
}

func (f *fakeBackend) Load(_ goctx.Context, userKey string) (*model.ProgressRecord, error) {
	if f.fail {
		return nil, errors.New("backend down")
	}
	if r, ok := f.records[userKey]; ok {
		return cloneRecord(r), nil
	}
	r := model.NewProgressRecord(userKey)
	f.records[userKey] = cloneRecord(r)
	return r, nil
}

func (f *fakeBackend) Save(_ goctx.Context, userKey string, update model.ProgressUpdate) error {
	if f.fail {
		return errors.New("backend down")
	}
	f.saves++

	r, ok := f.records[userKey]
	if !ok {
		r = model.NewProgressRecord(userKey)
		f.records[userKey] = r
	}
	if update.XP != nil {
		r.XP = *update.XP
	}
	if update.Level != nil {
		r.Level = *update.Level
	}
	if update.Streak != nil {
		r.Streak = *update.Streak
	}
	if update.CompletedLessons != nil {
		r.CompletedLessons = append([]string{}, update.CompletedLessons...)
	}
	if update.QuizScores != nil {
		r.QuizScores = map[string]int{}
		for k, v := range update.QuizScores {
			r.QuizScores[k] = v
		}
	}
	if update.UnlockedAchievements != nil {
		r.UnlockedAchievements = append([]string{}, update.UnlockedAchievements...)
	}
	if update.DailyChallenges != nil {
		set := *update.DailyChallenges
		set.Challenges = append([]model.ChallengeInstance{}, update.DailyChallenges.Challenges...)
		r.DailyChallenges = set
	}
	return nil
}

func cloneRecord(r *model.ProgressRecord) *model.ProgressRecord {
	out := *r
	out.CompletedLessons = append([]string{}, r.CompletedLessons...)
	out.UnlockedAchievements = append([]string{}, r.UnlockedAchievements...)
	out.QuizScores = map[string]int{}
	for k, v := range r.QuizScores {
		out.QuizScores[k] = v
	}
	out.DailyChallenges.Challenges = append([]model.ChallengeInstance{}, r.DailyChallenges.Challenges...)
	return &out
}

func newTestStore() (*ProgressStoreService, *fakeBackend, *fakeBackend) {
	remote := newFakeBackend()
	local := newFakeBackend()
	return &ProgressStoreService{remote: remote, local: local}, remote, local
}

func authedIdentity() model.Identity {
	return model.Identity{UserID: "User-42"}
}

func guestIdentity() model.Identity {
	return model.Identity{DeviceID: "device-7"}
}

func TestProgressStore_AuthenticatedUsesRemote(t *testing.T) {
	store, remote, local := newTestStore()

	record, backend := store.Load(goctx.Background(), authedIdentity())
	assert.Equal(t, BackendRemote, backend)
	assert.Equal(t, "user-42", record.UserKey)

	xp := 50
	assert.Equal(t, BackendRemote, store.Save(goctx.Background(), authedIdentity(), model.ProgressUpdate{XP: &xp}))
	assert.Equal(t, 1, remote.saves)
	assert.Equal(t, 0, local.saves)
}

func TestProgressStore_GuestUsesLocal(t *testing.T) {
	store, remote, local := newTestStore()

	record, backend := store.Load(goctx.Background(), guestIdentity())
	assert.Equal(t, BackendLocal, backend)
	assert.Equal(t, "guest_device-7", record.UserKey)

	xp := 10
	assert.Equal(t, BackendLocal, store.Save(goctx.Background(), guestIdentity(), model.ProgressUpdate{XP: &xp}))
	assert.Equal(t, 0, remote.saves)
	assert.Equal(t, 1, local.saves)
}

func TestProgressStore_RemoteFailureFallsBackSilently(t *testing.T) {
	store, remote, _ := newTestStore()
	remote.fail = true

	record, backend := store.Load(goctx.Background(), authedIdentity())
	assert.Equal(t, BackendLocal, backend)
	assert.NotNil(t, record)

	xp := 75
	assert.Equal(t, BackendLocal, store.Save(goctx.Background(), authedIdentity(), model.ProgressUpdate{XP: &xp}))

	// the fallback write is retrievable on the next load
	record, backend = store.Load(goctx.Background(), authedIdentity())
	assert.Equal(t, BackendLocal, backend)
	assert.Equal(t, 75, record.XP)
}

func TestProgressStore_BothTiersFailingDropsWrite(t *testing.T) {
	store, remote, local := newTestStore()
	remote.fail = true
	local.fail = true

	xp := 75
	assert.NotPanics(t, func() {
		store.Save(goctx.Background(), authedIdentity(), model.ProgressUpdate{XP: &xp})
	})

	record, _ := store.Load(goctx.Background(), authedIdentity())
	assert.Equal(t, 0, record.XP, "defaults served when every tier is down")
}

func TestProgressStore_EmptyUpdateSkipsBackends(t *testing.T) {
	store, remote, local := newTestStore()

	store.Save(goctx.Background(), authedIdentity(), model.ProgressUpdate{})
	assert.Equal(t, 0, remote.saves)
	assert.Equal(t, 0, local.saves)
}

func TestProgressStore_PartialUpdateTouchesOnlyChangedFields(t *testing.T) {
	store, remote, _ := newTestStore()
	identity := authedIdentity()

	store.Load(goctx.Background(), identity)
	xp := 120
	store.Save(goctx.Background(), identity, model.ProgressUpdate{XP: &xp})
	store.Save(goctx.Background(), identity, model.ProgressUpdate{CompletedLessons: []string{"l1"}})

	record := remote.records["user-42"]
	assert.Equal(t, 120, record.XP, "lesson write must not clobber xp")
	assert.Equal(t, []string{"l1"}, record.CompletedLessons)
}

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "user-42", model.SanitizeKey("User-42"))
	assert.Equal(t, "a_b_c", model.SanitizeKey("a b:c"))
	assert.Equal(t, "auth0_12345", model.SanitizeKey("auth0|12345"))
}
