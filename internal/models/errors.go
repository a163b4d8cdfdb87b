package models

import "errors"

var (
	// ErrNotFound is returned by point reads for documents that do not exist.
	// Callers surface it as an explicit empty result, never as a server fault.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated is returned before any network call when a store
	// operation is attempted without a resolved user id.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNoCandidates means the generative endpoint answered without any
	// usable text candidate. The conversation stays in its current phase.
	ErrNoCandidates = errors.New("model returned no response candidates")

	// ErrMalformedPayload means the structured-extraction payload did not
	// match the expected shape. Terminal for the onboarding run.
	ErrMalformedPayload = errors.New("malformed structured payload")

	ErrMissingBusinessData = errors.New("missing business data")
	ErrInvalidPhase        = errors.New("action not valid in current onboarding phase")
	ErrSessionNotFound     = errors.New("onboarding session not found")
)
