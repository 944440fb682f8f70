package domain

import "errors"

// -----------------------------------------------------------------------------
// Domain Errors
// These errors represent domain-level failures and are used by repositories
// and services to communicate domain-specific error conditions.
// -----------------------------------------------------------------------------

// Learner errors
var (
	ErrLearnerNotFound      = errors.New("learner not found")
	ErrLearnerAlreadyExists = errors.New("learner already exists")
)

// Auth session errors
var (
	ErrAuthSessionNotFound = errors.New("auth session not found")
	ErrAuthSessionExpired  = errors.New("auth session expired")
)

// Catalog errors
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrChapterNotFound  = errors.New("chapter not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrStepNotFound     = errors.New("step not found")
)

// Content contract errors
var (
	ErrInvalidStepKind  = errors.New("invalid step kind")
	ErrInvalidContent   = errors.New("invalid step content")
	ErrMissingReference = errors.New("step has no associated word or sentence")
)

// General errors
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)
