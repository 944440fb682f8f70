// Package repository implements the persistence interfaces over PostgreSQL
// using pgx. Each repository holds a shared pool and maps pgx.ErrNoRows to
// the domain's not-found sentinels.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obilearn/obi/internal/catalog"
	"github.com/obilearn/obi/internal/content"
	"github.com/obilearn/obi/internal/domain"
)

// CatalogRepository reads the published course hierarchy
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// publishedJoin is the shared traversal for every scope query: activities
// joined up to their course, with unpublished rows filtered at every level.
const publishedJoin = `
	FROM activities a
	JOIN lessons l ON l.id = a.lesson_id
	JOIN chapters ch ON ch.id = l.chapter_id
	JOIN courses c ON c.id = ch.course_id
	WHERE a.is_published AND l.is_published AND ch.is_published AND c.is_published
`

// scopeCondition returns the ancestor filter for the scope, written against
// placeholder $1.
func scopeCondition(scope catalog.Scope) (string, any, error) {
	switch scope.Kind {
	case catalog.ScopeLesson:
		return "l.id = $1", scope.Lesson.UUID(), nil
	case catalog.ScopeChapter:
		return "ch.id = $1", scope.Chapter.UUID(), nil
	case catalog.ScopeCourse:
		return "c.id = $1", scope.Course.UUID(), nil
	}
	return "", nil, fmt.Errorf("%w: scope kind %q", domain.ErrInvalidInput, scope.Kind)
}

// ListCandidates returns every published activity in scope with its ordering
// tuple and pointer slugs.
func (r *CatalogRepository) ListCandidates(ctx context.Context, scope catalog.Scope) ([]catalog.Candidate, error) {
	cond, arg, err := scopeCondition(scope)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT a.id, c.brand_slug, c.slug, ch.slug, l.slug, ch.position, l.position, a.position
	` + publishedJoin + ` AND ` + cond + `
		ORDER BY ch.position, l.position, a.position
	`
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Candidate
	for rows.Next() {
		var (
			c  catalog.Candidate
			id uuid.UUID
		)
		if err := rows.Scan(
			&id, &c.BrandSlug, &c.CourseSlug, &c.ChapterSlug, &c.LessonSlug,
			&c.ChapterPosition, &c.LessonPosition, &c.ActivityPosition,
		); err != nil {
			return nil, err
		}
		c.ID = domain.NewActivityID(id)
		out = append(out, c)
	}
	return out, rows.Err()
}

// CompletedActivities returns the in-scope activity ids the learner has
// completed.
func (r *CatalogRepository) CompletedActivities(ctx context.Context, learnerID domain.LearnerID, scope catalog.Scope) (map[domain.ActivityID]bool, error) {
	cond, arg, err := scopeCondition(scope)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT a.id
	` + publishedJoin + ` AND ` + cond + `
		AND EXISTS (
			SELECT 1 FROM activity_progress p
			WHERE p.activity_id = a.id AND p.learner_id = $2 AND p.completed
		)
	`
	rows, err := r.pool.Query(ctx, query, arg, learnerID.UUID())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completed := map[domain.ActivityID]bool{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		completed[domain.NewActivityID(id)] = true
	}
	return completed, rows.Err()
}

// HasProgress reports whether the learner has any progress record, completed
// or not, on an in-scope activity.
func (r *CatalogRepository) HasProgress(ctx context.Context, learnerID domain.LearnerID, scope catalog.Scope) (bool, error) {
	cond, arg, err := scopeCondition(scope)
	if err != nil {
		return false, err
	}

	query := `
		SELECT EXISTS (
			SELECT 1
	` + publishedJoin + ` AND ` + cond + `
			AND EXISTS (
				SELECT 1 FROM activity_progress p
				WHERE p.activity_id = a.id AND p.learner_id = $2
			)
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, arg, learnerID.UUID()).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// GetActivity retrieves a published activity by id. An activity under an
// unpublished lesson, chapter or course is treated as not found.
func (r *CatalogRepository) GetActivity(ctx context.Context, id domain.ActivityID) (*domain.Activity, error) {
	query := `
		SELECT a.id, a.lesson_id, a.kind, a.title, a.position, a.is_published
	` + publishedJoin + ` AND a.id = $1
	`
	var (
		activity             domain.Activity
		activityID, lessonID uuid.UUID
	)
	err := r.pool.QueryRow(ctx, query, id.UUID()).Scan(
		&activityID, &lessonID, &activity.Kind, &activity.Title,
		&activity.Position, &activity.IsPublished,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	activity.ID = domain.NewActivityID(activityID)
	activity.LessonID = domain.NewLessonID(lessonID)
	return &activity, nil
}

// ListSteps retrieves an activity's steps in position order, parsing each
// stored content payload into its typed form.
func (r *CatalogRepository) ListSteps(ctx context.Context, activityID domain.ActivityID) ([]domain.Step, error) {
	query := `
		SELECT s.id, s.activity_id, s.kind, s.position, s.content,
		       s.visual_kind, s.visual_content,
		       s.word_id, s.word_text, s.word_translation,
		       s.sentence_text, s.sentence_translation
		FROM steps s
		WHERE s.activity_id = $1
		AND EXISTS (
			SELECT 1 ` + publishedJoin + ` AND a.id = s.activity_id
		)
		ORDER BY s.position
	`
	rows, err := r.pool.Query(ctx, query, activityID.UUID())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []domain.Step
	for rows.Next() {
		step, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		steps = append(steps, *step)
	}
	return steps, rows.Err()
}

// scanStep maps one steps row to a domain step
func scanStep(row pgx.Row) (*domain.Step, error) {
	var (
		step                        domain.Step
		stepID, activityID          uuid.UUID
		raw                         []byte
		visualKind, visualContent   *string
		wordID, wordText, wordTrans *string
		sentText, sentTrans         *string
	)
	if err := row.Scan(
		&stepID, &activityID, &step.Kind, &step.Position, &raw,
		&visualKind, &visualContent,
		&wordID, &wordText, &wordTrans,
		&sentText, &sentTrans,
	); err != nil {
		return nil, err
	}
	step.ID = domain.NewStepID(stepID)
	step.ActivityID = domain.NewActivityID(activityID)

	parsed, err := content.Parse(step.Kind, raw)
	if err != nil {
		return nil, fmt.Errorf("step %s: %w", step.ID, err)
	}
	step.Content = parsed

	if visualKind != nil {
		step.VisualKind = *visualKind
	}
	if visualContent != nil {
		step.VisualContent = *visualContent
	}
	if wordID != nil {
		step.Word = &domain.WordRef{ID: *wordID}
		if wordText != nil {
			step.Word.Text = *wordText
		}
		if wordTrans != nil {
			step.Word.Translation = *wordTrans
		}
	}
	if sentText != nil || sentTrans != nil {
		step.Sentence = &domain.SentenceRef{}
		if sentText != nil {
			step.Sentence.Text = *sentText
		}
		if sentTrans != nil {
			step.Sentence.Translation = *sentTrans
		}
	}
	return &step, nil
}
