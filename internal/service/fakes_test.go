package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"mnps-api/internal/auth"
	"mnps-api/internal/model"
)

type fakeUserStore struct {
	mu     sync.Mutex
	users  map[string]model.User
	nextID int64
	err    error
}

func newFakeUserStore(users ...model.User) *fakeUserStore {
	store := &fakeUserStore{users: map[string]model.User{}}
	for _, user := range users {
		store.nextID++
		user.ID = store.nextID
		store.users[strings.ToLower(user.Username)] = user
	}
	return store
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return model.User{}, f.err
	}
	user, ok := f.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) ExistsByUsernameOrEmail(_ context.Context, username string, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return false, f.err
	}
	for _, user := range f.users {
		if strings.EqualFold(user.Username, username) || strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return model.User{}, f.err
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now().UTC()
	f.users[strings.ToLower(user.Username)] = user
	return user, nil
}

type fakeResultStore struct {
	mu         sync.Mutex
	results    []model.StudentResult
	lastFilter model.ResultFilter
}

func (f *fakeResultStore) List(_ context.Context, filter model.ResultFilter) ([]model.StudentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastFilter = filter
	out := []model.StudentResult{}
	for _, result := range f.results {
		if filter.StudentID != "" && result.StudentID != filter.StudentID {
			continue
		}
		if filter.Term != "" && result.Term != filter.Term {
			continue
		}
		out = append(out, result)
	}
	return out, nil
}

func (f *fakeResultStore) Create(_ context.Context, result model.StudentResult) (model.StudentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result.ID = int64(len(f.results) + 1)
	result.CreatedAt = time.Now().UTC()
	f.results = append(f.results, result)
	return result, nil
}

func (f *fakeResultStore) CountByStudent(_ context.Context, studentID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, result := range f.results {
		if result.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

type fakeBroadcastStore struct {
	mu         sync.Mutex
	broadcasts []model.Broadcast
	lastFilter model.BroadcastFilter
}

func (f *fakeBroadcastStore) List(_ context.Context, filter model.BroadcastFilter) ([]model.Broadcast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastFilter = filter
	out := make([]model.Broadcast, 0, len(f.broadcasts))
	out = append(out, f.broadcasts...)
	return out, nil
}

func (f *fakeBroadcastStore) Create(_ context.Context, broadcast model.Broadcast) (model.Broadcast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	broadcast.ID = int64(len(f.broadcasts) + 1)
	broadcast.CreatedAt = time.Now().UTC()
	f.broadcasts = append(f.broadcasts, broadcast)
	return broadcast, nil
}

func (f *fakeBroadcastStore) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.broadcasts), nil
}

// countingHasher records how many verifications were attempted.
type countingHasher struct {
	auth.PasswordHasher
	verifications atomic.Int64
}

func (h *countingHasher) Verify(password string, encodedHash string) bool {
	h.verifications.Add(1)
	return h.PasswordHasher.Verify(password, encodedHash)
}
