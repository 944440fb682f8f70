package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidID indicates an invalid identifier format
var ErrInvalidID = errors.New("invalid identifier format")

// -----------------------------------------------------------------------------
// LearnerID - Typed identifier for learners
// -----------------------------------------------------------------------------

// LearnerID is a typed identifier for learners. The zero value identifies the
// anonymous learner, which never owns progress records.
type LearnerID struct {
	value uuid.UUID
}

// NewLearnerID creates a LearnerID from a UUID
func NewLearnerID(id uuid.UUID) LearnerID {
	return LearnerID{value: id}
}

// NewLearnerIDFromString creates a LearnerID from a string
func NewLearnerIDFromString(s string) (LearnerID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return LearnerID{}, fmt.Errorf("invalid learner ID: %w", err)
	}
	return LearnerID{value: id}, nil
}

// GenerateLearnerID creates a new random LearnerID
func GenerateLearnerID() LearnerID {
	return LearnerID{value: uuid.New()}
}

// AnonymousLearner returns the zero LearnerID
func AnonymousLearner() LearnerID {
	return LearnerID{}
}

// UUID returns the underlying uuid.UUID
func (id LearnerID) UUID() uuid.UUID {
	return id.value
}

// String returns the string representation
func (id LearnerID) String() string {
	return id.value.String()
}

// IsAnonymous returns true for the zero LearnerID
func (id LearnerID) IsAnonymous() bool {
	return id.value == uuid.Nil
}

// Equal compares two LearnerIDs
func (id LearnerID) Equal(other LearnerID) bool {
	return id.value == other.value
}

// -----------------------------------------------------------------------------
// ActivityID - Typed identifier for activities
// -----------------------------------------------------------------------------

// ActivityID is a typed identifier for activities
type ActivityID struct {
	value uuid.UUID
}

// NewActivityID creates an ActivityID from a UUID
func NewActivityID(id uuid.UUID) ActivityID {
	return ActivityID{value: id}
}

// NewActivityIDFromString creates an ActivityID from a string
func NewActivityIDFromString(s string) (ActivityID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ActivityID{}, fmt.Errorf("invalid activity ID: %w", err)
	}
	return ActivityID{value: id}, nil
}

// GenerateActivityID creates a new random ActivityID
func GenerateActivityID() ActivityID {
	return ActivityID{value: uuid.New()}
}

// UUID returns the underlying uuid.UUID
func (id ActivityID) UUID() uuid.UUID {
	return id.value
}

// String returns the string representation
func (id ActivityID) String() string {
	return id.value.String()
}

// IsZero returns true if this is a zero value
func (id ActivityID) IsZero() bool {
	return id.value == uuid.Nil
}

// Equal compares two ActivityIDs
func (id ActivityID) Equal(other ActivityID) bool {
	return id.value == other.value
}

// -----------------------------------------------------------------------------
// StepID - Typed identifier for steps
// -----------------------------------------------------------------------------

// StepID is a typed identifier for steps
type StepID struct {
	value uuid.UUID
}

// NewStepID creates a StepID from a UUID
func NewStepID(id uuid.UUID) StepID {
	return StepID{value: id}
}

// NewStepIDFromString creates a StepID from a string
func NewStepIDFromString(s string) (StepID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return StepID{}, fmt.Errorf("invalid step ID: %w", err)
	}
	return StepID{value: id}, nil
}

// GenerateStepID creates a new random StepID
func GenerateStepID() StepID {
	return StepID{value: uuid.New()}
}

// UUID returns the underlying uuid.UUID
func (id StepID) UUID() uuid.UUID {
	return id.value
}

// String returns the string representation
func (id StepID) String() string {
	return id.value.String()
}

// IsZero returns true if this is a zero value
func (id StepID) IsZero() bool {
	return id.value == uuid.Nil
}

// Equal compares two StepIDs
func (id StepID) Equal(other StepID) bool {
	return id.value == other.value
}
