package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/obilearn/obi/internal/catalog"
	"github.com/obilearn/obi/internal/content"
	"github.com/obilearn/obi/internal/domain"
)

// CatalogStore implements the course hierarchy reads backed by SQLite, plus
// the writes needed to load content.
type CatalogStore struct {
	db *DB
}

// NewCatalogStore creates a new SQLite-backed catalog store.
func NewCatalogStore(db *DB) *CatalogStore {
	return &CatalogStore{db: db}
}

const publishedJoin = `
	FROM activities a
	JOIN lessons l ON l.id = a.lesson_id
	JOIN chapters ch ON ch.id = l.chapter_id
	JOIN courses c ON c.id = ch.course_id
	WHERE a.is_published = 1 AND l.is_published = 1 AND ch.is_published = 1 AND c.is_published = 1
`

func scopeCondition(scope catalog.Scope) (string, any, error) {
	switch scope.Kind {
	case catalog.ScopeLesson:
		return "l.id = ?", scope.Lesson.String(), nil
	case catalog.ScopeChapter:
		return "ch.id = ?", scope.Chapter.String(), nil
	case catalog.ScopeCourse:
		return "c.id = ?", scope.Course.String(), nil
	}
	return "", nil, fmt.Errorf("%w: scope kind %q", domain.ErrInvalidInput, scope.Kind)
}

// ListCandidates returns every published activity in scope.
func (s *CatalogStore) ListCandidates(ctx context.Context, scope catalog.Scope) ([]catalog.Candidate, error) {
	cond, arg, err := scopeCondition(scope)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT a.id, c.brand_slug, c.slug, ch.slug, l.slug, ch.position, l.position, a.position
	` + publishedJoin + ` AND ` + cond + `
		ORDER BY ch.position, l.position, a.position`
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Candidate
	for rows.Next() {
		var (
			c  catalog.Candidate
			id string
		)
		if err := rows.Scan(
			&id, &c.BrandSlug, &c.CourseSlug, &c.ChapterSlug, &c.LessonSlug,
			&c.ChapterPosition, &c.LessonPosition, &c.ActivityPosition,
		); err != nil {
			return nil, err
		}
		c.ID, err = domain.NewActivityIDFromString(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CompletedActivities returns the in-scope activity ids the learner completed.
func (s *CatalogStore) CompletedActivities(ctx context.Context, learnerID domain.LearnerID, scope catalog.Scope) (map[domain.ActivityID]bool, error) {
	cond, arg, err := scopeCondition(scope)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT a.id
	` + publishedJoin + ` AND ` + cond + `
		AND EXISTS (
			SELECT 1 FROM activity_progress p
			WHERE p.activity_id = a.id AND p.learner_id = ? AND p.completed = 1
		)`
	rows, err := s.db.QueryContext(ctx, query, arg, learnerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completed := map[domain.ActivityID]bool{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := domain.NewActivityIDFromString(raw)
		if err != nil {
			return nil, err
		}
		completed[id] = true
	}
	return completed, rows.Err()
}

// HasProgress reports whether the learner has any record on an in-scope
// activity.
func (s *CatalogStore) HasProgress(ctx context.Context, learnerID domain.LearnerID, scope catalog.Scope) (bool, error) {
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
				WHERE p.activity_id = a.id AND p.learner_id = ?
			)
		)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, arg, learnerID.String()).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// GetActivity retrieves a published activity by id. An activity under an
// unpublished lesson, chapter or course is treated as not found.
func (s *CatalogStore) GetActivity(ctx context.Context, id domain.ActivityID) (*domain.Activity, error) {
	query := `
		SELECT a.id, a.lesson_id, a.kind, a.title, a.position, a.is_published
	` + publishedJoin + ` AND a.id = ?`
	var (
		activity             domain.Activity
		activityID, lessonID string
	)
	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(
		&activityID, &lessonID, &activity.Kind, &activity.Title,
		&activity.Position, &activity.IsPublished,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	if activity.ID, err = domain.NewActivityIDFromString(activityID); err != nil {
		return nil, err
	}
	if activity.LessonID, err = domain.NewLessonIDFromString(lessonID); err != nil {
		return nil, err
	}
	return &activity, nil
}

// ListSteps retrieves an activity's steps in position order.
func (s *CatalogStore) ListSteps(ctx context.Context, activityID domain.ActivityID) ([]domain.Step, error) {
	query := `
		SELECT s.id, s.activity_id, s.kind, s.position, s.content,
		       s.visual_kind, s.visual_content,
		       s.word_id, s.word_text, s.word_translation,
		       s.sentence_text, s.sentence_translation
		FROM steps s
		WHERE s.activity_id = ?
		AND EXISTS (
			SELECT 1 ` + publishedJoin + ` AND a.id = s.activity_id
		)
		ORDER BY s.position`
	rows, err := s.db.QueryContext(ctx, query, activityID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []domain.Step
	for rows.Next() {
		var (
			step                        domain.Step
			stepID, actID               string
			raw                         sql.NullString
			visualKind, visualContent   sql.NullString
			wordID, wordText, wordTrans sql.NullString
			sentText, sentTrans         sql.NullString
		)
		if err := rows.Scan(
			&stepID, &actID, &step.Kind, &step.Position, &raw,
			&visualKind, &visualContent,
			&wordID, &wordText, &wordTrans,
			&sentText, &sentTrans,
		); err != nil {
			return nil, err
		}
		if step.ID, err = domain.NewStepIDFromString(stepID); err != nil {
			return nil, err
		}
		if step.ActivityID, err = domain.NewActivityIDFromString(actID); err != nil {
			return nil, err
		}

		var payload []byte
		if raw.Valid {
			payload = []byte(raw.String)
		}
		parsed, err := content.Parse(step.Kind, payload)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", stepID, err)
		}
		step.Content = parsed
		step.VisualKind = visualKind.String
		step.VisualContent = visualContent.String
		if wordID.Valid {
			step.Word = &domain.WordRef{
				ID:          wordID.String,
				Text:        wordText.String,
				Translation: wordTrans.String,
			}
		}
		if sentText.Valid || sentTrans.Valid {
			step.Sentence = &domain.SentenceRef{
				Text:        sentText.String,
				Translation: sentTrans.String,
			}
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

// CreateCourse inserts a course.
func (s *CatalogStore) CreateCourse(ctx context.Context, course *domain.Course) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO courses (id, brand_slug, slug, title, is_published)
		VALUES (?, ?, ?, ?, ?)`,
		course.ID.String(), course.BrandSlug, course.Slug, course.Title, course.IsPublished,
	)
	return err
}

// CreateChapter inserts a chapter.
func (s *CatalogStore) CreateChapter(ctx context.Context, chapter *domain.Chapter) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chapters (id, course_id, slug, title, position, is_published)
		VALUES (?, ?, ?, ?, ?, ?)`,
		chapter.ID.String(), chapter.CourseID.String(), chapter.Slug, chapter.Title,
		chapter.Position, chapter.IsPublished,
	)
	return err
}

// CreateLesson inserts a lesson.
func (s *CatalogStore) CreateLesson(ctx context.Context, lesson *domain.Lesson) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lessons (id, chapter_id, slug, title, position, is_published)
		VALUES (?, ?, ?, ?, ?, ?)`,
		lesson.ID.String(), lesson.ChapterID.String(), lesson.Slug, lesson.Title,
		lesson.Position, lesson.IsPublished,
	)
	return err
}

// CreateActivity inserts an activity.
func (s *CatalogStore) CreateActivity(ctx context.Context, activity *domain.Activity) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (id, lesson_id, kind, title, position, is_published)
		VALUES (?, ?, ?, ?, ?, ?)`,
		activity.ID.String(), activity.LessonID.String(), activity.Kind, activity.Title,
		activity.Position, activity.IsPublished,
	)
	return err
}

// CreateStep inserts a step, serializing its typed content payload.
func (s *CatalogStore) CreateStep(ctx context.Context, step *domain.Step) error {
	var payload any
	if step.Content != nil {
		data, err := content.Marshal(step.Content)
		if err != nil {
			return fmt.Errorf("marshal content: %w", err)
		}
		payload = string(data)
	}

	var wordID, wordText, wordTrans, sentText, sentTrans any
	if step.Word != nil {
		wordID, wordText, wordTrans = step.Word.ID, step.Word.Text, step.Word.Translation
	}
	if step.Sentence != nil {
		sentText, sentTrans = step.Sentence.Text, step.Sentence.Translation
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO steps (id, activity_id, kind, position, content,
			visual_kind, visual_content,
			word_id, word_text, word_translation,
			sentence_text, sentence_translation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		step.ID.String(), step.ActivityID.String(), step.Kind, step.Position, payload,
		step.VisualKind, step.VisualContent,
		wordID, wordText, wordTrans,
		sentText, sentTrans,
	)
	return err
}
