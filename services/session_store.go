package services

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Narain-karthick/Prep2Hire/models"
)

// SessionState holds one active interview. The engine mutates it only while
// holding its mutex, so calls against the same session are serialized while
// different sessions proceed independently.
type SessionState struct {
	mu sync.Mutex

	ID     string
	UserID string
	Status string

	ResumeSummary *ResumeSummary
	JDSummary     *JDSummary
	SkillMatch    *SkillMatch
	FocusSkills   []string

	AskedQuestionIDs  []string
	CurrentQuestion   *models.Question
	CurrentDifficulty string
	QuestionNumber    int
	MaxQuestions      int
	ScoreHistory      []Score
	AnswerTimes       []int
	TerminatedEarly   bool
	TerminationReason string
	StartedAt         time.Time
}

// Lock serializes access to the session for one engine call.
func (s *SessionState) Lock() { s.mu.Lock() }

// Unlock releases the session after an engine call.
func (s *SessionState) Unlock() { s.mu.Unlock() }

// Terminal reports whether the session reached a terminal state.
func (s *SessionState) Terminal() bool {
	return s.Status == models.SessionCompleted || s.Status == models.SessionTerminatedEarly
}

// SessionStore is the in-memory mapping from session id to active session,
// injected into the endpoints and the engine. Sessions are independent of one
// another; the store only guards the map itself.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionState
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*SessionState)}
}

func (s *SessionStore) Put(session *SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	slog.Info("Session stored", "session_id", session.ID, "user_id", session.UserID)
}

func (s *SessionStore) Get(sessionID string) (*SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; ok {
		delete(s.sessions, sessionID)
		slog.Info("Session removed from store", "session_id", sessionID)
	}
}

func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
