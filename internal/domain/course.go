package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// CourseID is a typed identifier for courses
type CourseID struct {
	value uuid.UUID
}

// NewCourseID creates a CourseID from a UUID
func NewCourseID(id uuid.UUID) CourseID { return CourseID{value: id} }

// NewCourseIDFromString creates a CourseID from a string
func NewCourseIDFromString(s string) (CourseID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return CourseID{}, fmt.Errorf("invalid course ID: %w", err)
	}
	return CourseID{value: id}, nil
}

// GenerateCourseID creates a new random CourseID
func GenerateCourseID() CourseID { return CourseID{value: uuid.New()} }

// UUID returns the underlying uuid.UUID
func (id CourseID) UUID() uuid.UUID { return id.value }

// String returns the string representation
func (id CourseID) String() string { return id.value.String() }

// IsZero returns true if this is a zero value
func (id CourseID) IsZero() bool { return id.value == uuid.Nil }

// ChapterID is a typed identifier for chapters
type ChapterID struct {
	value uuid.UUID
}

// NewChapterID creates a ChapterID from a UUID
func NewChapterID(id uuid.UUID) ChapterID { return ChapterID{value: id} }

// NewChapterIDFromString creates a ChapterID from a string
func NewChapterIDFromString(s string) (ChapterID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ChapterID{}, fmt.Errorf("invalid chapter ID: %w", err)
	}
	return ChapterID{value: id}, nil
}

// GenerateChapterID creates a new random ChapterID
func GenerateChapterID() ChapterID { return ChapterID{value: uuid.New()} }

// UUID returns the underlying uuid.UUID
func (id ChapterID) UUID() uuid.UUID { return id.value }

// String returns the string representation
func (id ChapterID) String() string { return id.value.String() }

// IsZero returns true if this is a zero value
func (id ChapterID) IsZero() bool { return id.value == uuid.Nil }

// LessonID is a typed identifier for lessons
type LessonID struct {
	value uuid.UUID
}

// NewLessonID creates a LessonID from a UUID
func NewLessonID(id uuid.UUID) LessonID { return LessonID{value: id} }

// NewLessonIDFromString creates a LessonID from a string
func NewLessonIDFromString(s string) (LessonID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return LessonID{}, fmt.Errorf("invalid lesson ID: %w", err)
	}
	return LessonID{value: id}, nil
}

// GenerateLessonID creates a new random LessonID
func GenerateLessonID() LessonID { return LessonID{value: uuid.New()} }

// UUID returns the underlying uuid.UUID
func (id LessonID) UUID() uuid.UUID { return id.value }

// String returns the string representation
func (id LessonID) String() string { return id.value.String() }

// IsZero returns true if this is a zero value
func (id LessonID) IsZero() bool { return id.value == uuid.Nil }

// -----------------------------------------------------------------------------
// Content hierarchy: brand -> course -> chapter -> lesson -> activity
// -----------------------------------------------------------------------------

// Course is the top of the learnable hierarchy under a brand
type Course struct {
	ID          CourseID
	BrandSlug   string
	Slug        string
	Title       string
	IsPublished bool
}

// Chapter groups lessons within a course. Position orders chapters within
// their course.
type Chapter struct {
	ID          ChapterID
	CourseID    CourseID
	Slug        string
	Title       string
	Position    int
	IsPublished bool
}

// Lesson groups activities within a chapter. Position orders lessons within
// their chapter.
type Lesson struct {
	ID          LessonID
	ChapterID   ChapterID
	Slug        string
	Title       string
	Position    int
	IsPublished bool
}

// NextActivity is the resolver's pointer to the single activity a learner
// should attempt next. Completed=true means everything in scope is finished
// and this is the first activity again, offered for review - never a
// partial-progress state.
type NextActivity struct {
	ActivityPosition int    `json:"activityPosition"`
	BrandSlug        string `json:"brandSlug"`
	CourseSlug       string `json:"courseSlug"`
	ChapterSlug      string `json:"chapterSlug"`
	LessonSlug       string `json:"lessonSlug"`
	HasStarted       bool   `json:"hasStarted"`
	Completed        bool   `json:"completed"`
}
