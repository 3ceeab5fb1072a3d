package services

import "errors"

var (
	// ErrInvalidState is returned when an operation is called on a session in
	// the wrong state, e.g. submitting an answer before the interview started
	// or after it reached a terminal state. Caller programming error.
	ErrInvalidState = errors.New("invalid session state")

	// ErrExhaustedBank is returned when the question bank cannot supply a
	// question at any difficulty for a session. Configuration/data error,
	// distinct from normal interview completion.
	ErrExhaustedBank = errors.New("question bank exhausted")

	// ErrSessionNotFound is returned when no session exists for the given id.
	ErrSessionNotFound = errors.New("session not found")
)
