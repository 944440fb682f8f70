package domain

import "time"

// Learner is a registered account. BrainPower is the cumulative, monotonically
// non-decreasing gamification currency; Energy the bounded consistency metric.
type Learner struct {
	ID           LearnerID
	Email        string
	Name         string
	PasswordHash string
	BrainPower   int
	Energy       int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthSession is an issued login session token
type AuthSession struct {
	ID        string
	LearnerID LearnerID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry
func (s *AuthSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
