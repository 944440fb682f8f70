package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/obilearn/obi/internal/catalog"
	"github.com/obilearn/obi/internal/domain"
)

// NextActivityHandler resolves the learner's next activity in a scope
type NextActivityHandler struct {
	resolver *catalog.Resolver
}

// NewNextActivityHandler creates a new next-activity handler
func NewNextActivityHandler(resolver *catalog.Resolver) *NextActivityHandler {
	return &NextActivityHandler{resolver: resolver}
}

// Get resolves the next activity. Exactly one of the lesson, chapter or
// course query parameters selects the scope. Anonymous requests resolve to
// the first published activity.
func (h *NextActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.parseScope(w, r)
	if !ok {
		return
	}

	learnerID := domain.AnonymousLearner()
	if learner := LearnerFromContext(r); learner != nil {
		learnerID = learner.ID
	}

	next, err := h.resolver.NextActivity(r.Context(), learnerID, scope)
	if err != nil {
		h.jsonError(w, http.StatusInternalServerError, "failed to resolve next activity")
		return
	}

	// The body is the pointer itself, or null when the scope has no
	// published activity; the client renders null as "nothing here yet".
	h.jsonResponse(w, http.StatusOK, next)
}

func (h *NextActivityHandler) parseScope(w http.ResponseWriter, r *http.Request) (catalog.Scope, bool) {
	q := r.URL.Query()
	lesson, chapter, course := q.Get("lesson"), q.Get("chapter"), q.Get("course")

	set := 0
	for _, v := range []string{lesson, chapter, course} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		h.jsonError(w, http.StatusBadRequest, "exactly one of lesson, chapter or course is required")
		return catalog.Scope{}, false
	}

	switch {
	case lesson != "":
		id, err := domain.NewLessonIDFromString(lesson)
		if err != nil {
			h.jsonError(w, http.StatusBadRequest, "invalid lesson id")
			return catalog.Scope{}, false
		}
		return catalog.LessonScope(id), true
	case chapter != "":
		id, err := domain.NewChapterIDFromString(chapter)
		if err != nil {
			h.jsonError(w, http.StatusBadRequest, "invalid chapter id")
			return catalog.Scope{}, false
		}
		return catalog.ChapterScope(id), true
	default:
		id, err := domain.NewCourseIDFromString(course)
		if err != nil {
			h.jsonError(w, http.StatusBadRequest, "invalid course id")
			return catalog.Scope{}, false
		}
		return catalog.CourseScope(id), true
	}
}

func (h *NextActivityHandler) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *NextActivityHandler) jsonError(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
