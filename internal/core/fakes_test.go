package core

import (
	"context"
	"sync"
	"time"

	"usersvc/internal/models"
)

// In-memory store fakes. Mutations hold a mutex for the whole
// read-modify-write, mirroring the row-level atomicity the real store gets
// from single UPDATE statements.

type fakeUserStore struct {
	mu     sync.Mutex
	byID   map[string]*models.User
	byName map[string]string
	err    error // forced failure for every call when set
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{byID: map[string]*models.User{}, byName: map[string]string{}}
	for _, u := range users {
		s.byID[u.ID] = u
		s.byName[u.Username] = u.ID
	}
	return s
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	id, ok := s.byName[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) RecordFailedAttempt(_ context.Context, userID string, threshold int, lockUntil time.Time) (int, *time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, nil, s.err
	}
	u, ok := s.byID[userID]
	if !ok {
		return 0, nil, ErrUserNotFound
	}
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= threshold {
		until := lockUntil
		u.LockedUntil = &until
	}
	var lockedUntil *time.Time
	if u.LockedUntil != nil {
		cp := *u.LockedUntil
		lockedUntil = &cp
	}
	return u.FailedLoginAttempts, lockedUntil, nil
}

func (s *fakeUserStore) RecordLoginSuccess(_ context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	u, ok := s.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.LastLogin = &at
	return nil
}

func (s *fakeUserStore) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (s *fakeUserStore) get(id string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.byID[id]
}

type fakeSessionStore struct {
	mu      sync.Mutex
	byToken map[string]*models.Session
	err     error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{byToken: map[string]*models.Session{}}
}

func (s *fakeSessionStore) CreateSession(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	cp := *sess
	s.byToken[sess.SessionToken] = &cp
	return nil
}

func (s *fakeSessionStore) FindSessionByToken(_ context.Context, token string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	sess, ok := s.byToken[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *fakeSessionStore) DeleteSessionByToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.byToken[token]; !ok {
		return ErrSessionNotFound
	}
	delete(s.byToken, token)
	return nil
}

type fakeResetStore struct {
	mu      sync.Mutex
	byToken map[string]*models.PasswordResetToken
	hashes  map[string]string // userID → last written hash
	err     error
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{
		byToken: map[string]*models.PasswordResetToken{},
		hashes:  map[string]string{},
	}
}

func (s *fakeResetStore) CreateResetToken(_ context.Context, t *models.PasswordResetToken, invalidatePrior bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if invalidatePrior {
		for _, prev := range s.byToken {
			if prev.UserID == t.UserID && prev.UsedAt == nil {
				at := t.CreatedAt
				prev.UsedAt = &at
			}
		}
	}
	cp := *t
	s.byToken[t.Token] = &cp
	return nil
}

func (s *fakeResetStore) RedeemResetToken(_ context.Context, token, newHash string, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	t, ok := s.byToken[token]
	if !ok {
		return "", ErrResetTokenNotFound
	}
	if t.UsedAt != nil {
		return "", ErrResetTokenUsed
	}
	if !t.ExpiresAt.After(now) {
		return "", ErrResetTokenExpired
	}
	t.UsedAt = &now
	s.hashes[t.UserID] = newHash
	return t.UserID, nil
}

type fakeRoleStore struct {
	mu      sync.Mutex
	users   map[string]bool
	roles   map[int]string
	members map[[2]string]bool // (userID, roleName)
}

func newFakeRoleStore() *fakeRoleStore {
	return &fakeRoleStore{
		users:   map[string]bool{},
		roles:   map[int]string{},
		members: map[[2]string]bool{},
	}
}

func (s *fakeRoleStore) RolesFor(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for k := range s.members {
		if k[0] == userID {
			names = append(names, k[1])
		}
	}
	return names, nil
}

func (s *fakeRoleStore) AssignRole(_ context.Context, userID string, roleID int, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.users[userID] {
		return ErrUserNotFound
	}
	name, ok := s.roles[roleID]
	if !ok {
		return ErrRoleNotFound
	}
	s.members[[2]string{userID, name}] = true
	return nil
}

func (s *fakeRoleStore) RemoveRole(_ context.Context, userID string, roleID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.users[userID] {
		return ErrUserNotFound
	}
	name, ok := s.roles[roleID]
	if !ok {
		return ErrRoleNotFound
	}
	delete(s.members, [2]string{userID, name})
	return nil
}

type fakeAuditor struct {
	mu     sync.Mutex
	events []AuditEvent
}

func (a *fakeAuditor) Record(_ context.Context, e AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *fakeAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}
