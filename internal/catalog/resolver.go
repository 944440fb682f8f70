// Package catalog resolves what a learner should attempt next across the
// course -> chapter -> lesson -> activity hierarchy. Unpublished content is
// invisible at every level: a course whose first chapter is unpublished
// resolves as if that chapter did not exist.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/obilearn/obi/internal/domain"
)

// Repository supplies the persisted candidate set and completion records.
// Implementations must already exclude unpublished activities and activities
// under unpublished lessons or chapters.
type Repository interface {
	// ListCandidates returns every published activity in scope.
	ListCandidates(ctx context.Context, scope Scope) ([]Candidate, error)

	// CompletedActivities returns the in-scope activity ids that have a
	// completed progress record for the learner.
	CompletedActivities(ctx context.Context, learnerID domain.LearnerID, scope Scope) (map[domain.ActivityID]bool, error)

	// HasProgress reports whether the learner has any progress record,
	// completed or not, on any in-scope activity.
	HasProgress(ctx context.Context, learnerID domain.LearnerID, scope Scope) (bool, error)
}

// Resolver computes next-activity pointers. It is a request-scoped pure
// query over persisted data: no shared mutable state, safe for concurrent
// learners.
type Resolver struct {
	repo Repository
}

// NewResolver creates a resolver over a catalog repository
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// NextActivity returns the single next unfinished activity in scope, or the
// first activity with Completed=true when everything is done (review mode),
// or nil when the scope has no published activity at all. The anonymous
// learner never has completion records, so resolution for it is always the
// first published candidate.
func (r *Resolver) NextActivity(ctx context.Context, learnerID domain.LearnerID, scope Scope) (*domain.NextActivity, error) {
	candidates, err := r.repo.ListCandidates(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list scope activities: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Less(candidates[j])
	})

	completed := map[domain.ActivityID]bool{}
	hasStarted := false
	if !learnerID.IsAnonymous() {
		completed, err = r.repo.CompletedActivities(ctx, learnerID, scope)
		if err != nil {
			return nil, fmt.Errorf("load completions: %w", err)
		}
		hasStarted, err = r.repo.HasProgress(ctx, learnerID, scope)
		if err != nil {
			return nil, fmt.Errorf("check progress: %w", err)
		}
	}

	for _, c := range candidates {
		if !completed[c.ID] {
			return pointer(c, hasStarted, false), nil
		}
	}

	// Everything in scope is finished: offer the first activity for review.
	return pointer(candidates[0], true, true), nil
}

func pointer(c Candidate, hasStarted, completedAll bool) *domain.NextActivity {
	return &domain.NextActivity{
		ActivityPosition: c.ActivityPosition,
		BrandSlug:        c.BrandSlug,
		CourseSlug:       c.CourseSlug,
		ChapterSlug:      c.ChapterSlug,
		LessonSlug:       c.LessonSlug,
		HasStarted:       hasStarted,
		Completed:        completedAll,
	}
}
