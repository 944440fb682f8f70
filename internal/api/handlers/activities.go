package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/obilearn/obi/internal/completion"
	"github.com/obilearn/obi/internal/content"
	"github.com/obilearn/obi/internal/domain"
)

// ActivityHandler serves activity content and accepts completion submissions
type ActivityHandler struct {
	catalog    completion.ActivityRepository
	completion *completion.Service
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(catalog completion.ActivityRepository, completionService *completion.Service) *ActivityHandler {
	return &ActivityHandler{
		catalog:    catalog,
		completion: completionService,
	}
}

// StepResponse is one step as served to the player
type StepResponse struct {
	ID            string              `json:"id"`
	Kind          domain.StepKind     `json:"kind"`
	Position      int                 `json:"position"`
	Content       json.RawMessage     `json:"content,omitempty"`
	VisualKind    string              `json:"visualKind,omitempty"`
	VisualContent string              `json:"visualContent,omitempty"`
	Word          *domain.WordRef     `json:"word,omitempty"`
	Sentence      *domain.SentenceRef `json:"sentence,omitempty"`
}

// ActivityResponse is an activity with its steps
type ActivityResponse struct {
	ID       string              `json:"id"`
	Kind     domain.ActivityKind `json:"kind"`
	Title    string              `json:"title"`
	Position int                 `json:"position"`
	Steps    []StepResponse      `json:"steps"`
}

// Get serves one published activity with its steps
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.NewActivityIDFromString(r.PathValue("id"))
	if err != nil {
		h.jsonError(w, http.StatusBadRequest, "invalid activity id")
		return
	}

	activity, err := h.catalog.GetActivity(r.Context(), id)
	if errors.Is(err, domain.ErrActivityNotFound) {
		h.jsonError(w, http.StatusNotFound, "activity not found")
		return
	}
	if err != nil {
		h.jsonError(w, http.StatusInternalServerError, "failed to load activity")
		return
	}

	steps, err := h.catalog.ListSteps(r.Context(), id)
	if err != nil {
		h.jsonError(w, http.StatusInternalServerError, "failed to load steps")
		return
	}

	resp := ActivityResponse{
		ID:       activity.ID.String(),
		Kind:     activity.Kind,
		Title:    activity.Title,
		Position: activity.Position,
		Steps:    make([]StepResponse, 0, len(steps)),
	}
	for _, step := range steps {
		sr := StepResponse{
			ID:            step.ID.String(),
			Kind:          step.Kind,
			Position:      step.Position,
			VisualKind:    step.VisualKind,
			VisualContent: step.VisualContent,
			Word:          step.Word,
			Sentence:      step.Sentence,
		}
		if step.Content != nil {
			data, err := content.Marshal(step.Content)
			if err != nil {
				h.jsonError(w, http.StatusInternalServerError, "failed to encode step content")
				return
			}
			sr.Content = data
		}
		resp.Steps = append(resp.Steps, sr)
	}

	h.jsonResponse(w, http.StatusOK, resp)
}

// ScoreResponse is the correct/total pair of a graded submission
type ScoreResponse struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// DimensionResponse is one challenge dimension total
type DimensionResponse struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// CompleteResponse is the server-derived outcome of a submission
type CompleteResponse struct {
	Status             string              `json:"status"`
	Score              *ScoreResponse      `json:"score,omitempty"`
	Challenge          bool                `json:"challenge"`
	ChallengeSucceeded bool                `json:"challengeSucceeded,omitempty"`
	Dimensions         []DimensionResponse `json:"dimensions,omitempty"`
	BrainPower         int                 `json:"brainPower"`
	EnergyDelta        int                 `json:"energyDelta"`
	NewTotalBp         int                 `json:"newTotalBp"`
	Energy             int                 `json:"energy"`
	BeltColor          string              `json:"beltColor"`
	BeltLevel          int                 `json:"beltLevel"`
}

// Complete grades a submission and persists the learner's progress. Without a
// valid session the submission is rejected; the client keeps its local state
// and can resubmit after logging in.
func (h *ActivityHandler) Complete(w http.ResponseWriter, r *http.Request) {
	learner := LearnerFromContext(r)
	if learner == nil {
		h.jsonResponse(w, http.StatusUnauthorized, map[string]string{"status": "unauthenticated"})
		return
	}

	var sub completion.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.jsonResponse(w, http.StatusBadRequest, map[string]string{"status": "error", "error": "invalid request body"})
		return
	}
	sub.ActivityID = r.PathValue("id")

	result, err := h.completion.Submit(r.Context(), learner.ID, &sub)
	if errors.Is(err, domain.ErrActivityNotFound) {
		h.jsonResponse(w, http.StatusNotFound, map[string]string{"status": "error", "error": "activity not found"})
		return
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		h.jsonResponse(w, http.StatusBadRequest, map[string]string{"status": "error", "error": "invalid submission"})
		return
	}
	if err != nil {
		h.jsonResponse(w, http.StatusInternalServerError, map[string]string{"status": "error", "error": "submission failed"})
		return
	}

	resp := CompleteResponse{
		Status:             "success",
		Challenge:          result.Challenge,
		ChallengeSucceeded: result.ChallengeSucceeded,
		BrainPower:         result.BrainPowerAwarded,
		EnergyDelta:        result.EnergyDelta,
		NewTotalBp:         result.TotalBrainPower,
		Energy:             result.Energy,
		BeltColor:          result.Belt.Color,
		BeltLevel:          result.Belt.Level,
	}
	if result.Score != nil {
		resp.Score = &ScoreResponse{
			Correct: result.Score.CorrectCount,
			Total:   result.Score.TotalCount,
		}
	}
	for _, d := range result.Dimensions {
		resp.Dimensions = append(resp.Dimensions, DimensionResponse{Name: d.Name, Total: d.Total})
	}

	h.jsonResponse(w, http.StatusOK, resp)
}

func (h *ActivityHandler) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ActivityHandler) jsonError(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
