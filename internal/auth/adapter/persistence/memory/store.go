package memory

import (
	"context"
	"sync"
	"time"

	"ielts-genai-prep/internal/auth/domain/model"
	"ielts-genai-prep/internal/auth/domain/repository"
)

// Store is an in-memory implementation of the token, session and user
// repositories. It backs tests and local development; the mutex gives the
// same exclusive check-and-set semantics the networked stores provide.
type Store struct {
	mu       sync.Mutex
	tokens   map[string]*model.AuthToken
	sessions map[string]*model.WebSession
	users    map[string]*model.User // keyed by ID
	byEmail  map[string]string      // email -> ID
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		tokens:   make(map[string]*model.AuthToken),
		sessions: make(map[string]*model.WebSession),
		users:    make(map[string]*model.User),
		byEmail:  make(map[string]string),
	}
}

// CreateToken stores a freshly issued token.
func (s *Store) CreateToken(ctx context.Context, token *model.AuthToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *token
	s.tokens[token.ID] = &cp
	return nil
}

// ConsumeToken atomically flips the consumed flag. The whole check-and-set
// runs under the mutex so concurrent callers serialize here.
func (s *Store) ConsumeToken(ctx context.Context, tokenID string, now time.Time) (*model.AuthToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[tokenID]
	if !ok {
		return nil, model.ErrTokenNotFound
	}
	if token.Consumed {
		return nil, model.ErrTokenAlreadyUsed
	}
	if token.IsExpired(now) {
		return nil, model.ErrTokenExpired
	}

	token.Consumed = true
	cp := *token
	return &cp, nil
}

// CreateSession persists a new session.
func (s *Store) CreateSession(ctx context.Context, session *model.WebSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

// GetSessionByID returns the session or model.ErrSessionNotFound.
func (s *Store) GetSessionByID(ctx context.Context, sessionID string) (*model.WebSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

// DeleteSession removes a session. Absent sessions are a no-op.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// CreateUser stores a new account.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return model.ErrUserExists
	}
	cp := *user
	s.users[user.ID] = &cp
	s.byEmail[user.Email] = user.ID
	return nil
}

// GetUserByEmail returns the account for an email or model.ErrUserNotFound.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

// GetUserByID returns the account or model.ErrUserNotFound.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

// Interface guards
var (
	_ repository.TokenRepository   = (*Store)(nil)
	_ repository.SessionRepository = (*Store)(nil)
	_ repository.UserRepository    = (*Store)(nil)
)
