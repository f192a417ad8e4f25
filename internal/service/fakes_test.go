package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/esticore/auth-api/internal/models"
)

// ==============================================
// IN-MEMORY FAKES
// ==============================================

// fakeTokenStore mirrors the repository contract in memory: Put supersedes
// then inserts under one lock, MarkConsumed is a compare-and-set.
type fakeTokenStore struct {
	mu     sync.Mutex
	nextID int64
	tokens map[int64]*models.VerificationToken

	putErr error
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[int64]*models.VerificationToken)}
}

func (s *fakeTokenStore) Put(ctx context.Context, token *models.VerificationToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.putErr != nil {
		return s.putErr
	}

	for _, t := range s.tokens {
		if t.UserID == token.UserID && t.Status == models.TokenStatusPending {
			t.Status = models.TokenStatusSuperseded
		}
	}

	s.nextID++
	token.ID = s.nextID
	token.Status = models.TokenStatusPending
	cp := *token
	s.tokens[token.ID] = &cp
	return nil
}

func (s *fakeTokenStore) GetPending(ctx context.Context, userID int) (*models.VerificationToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tokens {
		if t.UserID == userID && t.Status == models.TokenStatusPending {
			cp := *t
			return &cp, nil
		}
	}
	return nil, models.ErrNoPendingToken
}

func (s *fakeTokenStore) GetPendingByValue(ctx context.Context, value string) (*models.VerificationToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tokens {
		if t.Value == value && t.Kind == models.TokenKindLegacyLink && t.Status == models.TokenStatusPending {
			cp := *t
			return &cp, nil
		}
	}
	return nil, models.ErrNoPendingToken
}

func (s *fakeTokenStore) MarkConsumed(ctx context.Context, tokenID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[tokenID]
	if !ok || t.Status != models.TokenStatusPending {
		return models.ErrTokenConflict
	}
	t.Status = models.TokenStatusConsumed
	return nil
}

// get returns the stored token by id, for assertions.
func (s *fakeTokenStore) get(tokenID int64) *models.VerificationToken {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tokens[tokenID]; ok {
		cp := *t
		return &cp
	}
	return nil
}

// pendingCount returns how many pending tokens a user holds.
func (s *fakeTokenStore) pendingCount(userID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.tokens {
		if t.UserID == userID && t.Status == models.TokenStatusPending {
			n++
		}
	}
	return n
}

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int]*models.User)}
}

func (s *fakeUserStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == strings.ToLower(user.Email) {
			return models.ErrEmailAlreadyExists
		}
	}

	s.nextID++
	user.ID = s.nextID
	user.Email = strings.ToLower(user.Email)
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *fakeUserStore) GetUserByID(ctx context.Context, userID int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[userID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, models.ErrUserNotFound
}

func (s *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (s *fakeUserStore) MarkVerified(ctx context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return models.ErrUserNotFound
	}
	u.IsVerified = true
	return nil
}

// fakeEmailSender records every dispatched token and can be told to fail.
type fakeEmailSender struct {
	mu        sync.Mutex
	sent      []*models.VerificationToken
	successTo []int
	failSend  bool
}

func (f *fakeEmailSender) SendVerification(ctx context.Context, user *models.User, token *models.VerificationToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSend {
		return errors.New("smtp unavailable")
	}
	cp := *token
	f.sent = append(f.sent, &cp)
	return nil
}

func (f *fakeEmailSender) SendVerificationSuccess(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.successTo = append(f.successTo, user.ID)
	return nil
}

// lastToken returns the most recently dispatched token.
func (f *fakeEmailSender) lastToken() *models.VerificationToken {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeEmailSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
