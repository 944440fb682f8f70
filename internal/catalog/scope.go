package catalog

import "github.com/obilearn/obi/internal/domain"

// ScopeKind selects which level of the hierarchy a resolution walks
type ScopeKind string

const (
	ScopeLesson  ScopeKind = "lesson"
	ScopeChapter ScopeKind = "chapter"
	ScopeCourse  ScopeKind = "course"
)

// Scope is the resolver's candidate filter: exactly one of the three ids is
// set, according to Kind. The three scope variants differ only in which
// ancestor filters the candidate set; ordering and fallback logic are shared.
type Scope struct {
	Kind    ScopeKind
	Lesson  domain.LessonID
	Chapter domain.ChapterID
	Course  domain.CourseID
}

// LessonScope scopes resolution to one lesson
func LessonScope(id domain.LessonID) Scope {
	return Scope{Kind: ScopeLesson, Lesson: id}
}

// ChapterScope scopes resolution to one chapter
func ChapterScope(id domain.ChapterID) Scope {
	return Scope{Kind: ScopeChapter, Chapter: id}
}

// CourseScope scopes resolution to one course
func CourseScope(id domain.CourseID) Scope {
	return Scope{Kind: ScopeCourse, Course: id}
}

// Candidate is one published activity inside a scope, carrying the full
// positional ordering tuple and the slugs needed to build a next-activity
// pointer.
type Candidate struct {
	ID               domain.ActivityID
	BrandSlug        string
	CourseSlug       string
	ChapterSlug      string
	LessonSlug       string
	ChapterPosition  int
	LessonPosition   int
	ActivityPosition int
}

// Less orders candidates by (chapterPosition, lessonPosition,
// activityPosition) ascending.
func (c Candidate) Less(other Candidate) bool {
	if c.ChapterPosition != other.ChapterPosition {
		return c.ChapterPosition < other.ChapterPosition
	}
	if c.LessonPosition != other.LessonPosition {
		return c.LessonPosition < other.LessonPosition
	}
	return c.ActivityPosition < other.ActivityPosition
}
