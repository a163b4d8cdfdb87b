package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/complyhq/complybot/internal/models"
)

// SessionStore keeps onboarding sessions in process memory, one per user.
// Sessions are transient: a process restart or TTL expiry drops them and the
// interview restarts from the first phase.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*models.OnboardingSession
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: map[string]*models.OnboardingSession{},
	}
}

// GetOrCreate returns the user's live session, replacing any expired one.
func (s *SessionStore) GetOrCreate(userID string) *models.OnboardingSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()

	if session, ok := s.sessions[userID]; ok {
		return session
	}
	now := time.Now()
	session := &models.OnboardingSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Phase:     models.PhaseInitialGreeting,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[userID] = session
	return session
}

func (s *SessionStore) Get(userID string) (*models.OnboardingSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()

	session, ok := s.sessions[userID]
	return session, ok
}

func (s *SessionStore) Touch(session *models.OnboardingSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.UpdatedAt = time.Now()
}

func (s *SessionStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

func (s *SessionStore) evictLocked() {
	cutoff := time.Now().Add(-s.ttl)
	for userID, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, userID)
		}
	}
}
