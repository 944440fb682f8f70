package domain

import "time"

// ActivityProgress is the persisted record of one learner's attempts at one
// activity. Completed flips to true on the first successful submission and
// never reverts; replays update the counters only.
type ActivityProgress struct {
	LearnerID    LearnerID
	ActivityID   ActivityID
	Completed    bool
	CorrectCount int
	TotalCount   int
	StartedAt    time.Time
	CompletedAt  *time.Time
}

// StepTiming captures when and how long one step took, for later
// best-day/best-time analytics.
type StepTiming struct {
	AnsweredAt      time.Time `json:"answeredAt"`
	DayOfWeek       int       `json:"dayOfWeek"` // 0 = Sunday
	HourOfDay       int       `json:"hourOfDay"`
	DurationSeconds int       `json:"durationSeconds"`
}

// StepRecord is one graded step of a submission, persisted per learner so
// replays overwrite the previous attempt.
type StepRecord struct {
	LearnerID  LearnerID
	ActivityID ActivityID
	StepID     StepID
	IsCorrect  bool
	Timing     StepTiming
}

// DailyStat is one learner-day of raw counters, the input to the progress
// chart aggregation.
type DailyStat struct {
	LearnerID  LearnerID
	Day        time.Time // midnight UTC
	BrainPower int
	Correct    int
	Incorrect  int
	Energy     int // end-of-day energy
}
