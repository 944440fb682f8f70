package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/obilearn/obi/internal/api"
	"github.com/obilearn/obi/internal/auth"
	"github.com/obilearn/obi/internal/catalog"
	"github.com/obilearn/obi/internal/completion"
	"github.com/obilearn/obi/internal/config"
	"github.com/obilearn/obi/internal/domain"
)

type memStore struct {
	activity *domain.Activity
	steps    []domain.Step

	learners map[string]*domain.Learner
	sessions map[string]*domain.AuthSession
	progress map[domain.ActivityID]*domain.ActivityProgress
}

func newMemStore() *memStore {
	return &memStore{
		learners: map[string]*domain.Learner{},
		sessions: map[string]*domain.AuthSession{},
		progress: map[domain.ActivityID]*domain.ActivityProgress{},
	}
}

func (m *memStore) GetActivity(_ context.Context, id domain.ActivityID) (*domain.Activity, error) {
	if m.activity == nil || m.activity.ID != id {
		return nil, domain.ErrActivityNotFound
	}
	return m.activity, nil
}

func (m *memStore) ListSteps(_ context.Context, _ domain.ActivityID) ([]domain.Step, error) {
	return m.steps, nil
}

func (m *memStore) ListCandidates(_ context.Context, _ catalog.Scope) ([]catalog.Candidate, error) {
	return nil, nil
}

func (m *memStore) CompletedActivities(_ context.Context, _ domain.LearnerID, _ catalog.Scope) (map[domain.ActivityID]bool, error) {
	return nil, nil
}

func (m *memStore) HasProgress(_ context.Context, _ domain.LearnerID, _ catalog.Scope) (bool, error) {
	return false, nil
}

func (m *memStore) CreateLearner(_ context.Context, learner *domain.Learner) error {
	m.learners[learner.Email] = learner
	return nil
}

func (m *memStore) GetLearnerByEmail(_ context.Context, email string) (*domain.Learner, error) {
	learner, ok := m.learners[email]
	if !ok {
		return nil, domain.ErrLearnerNotFound
	}
	return learner, nil
}

func (m *memStore) GetLearnerByID(_ context.Context, id domain.LearnerID) (*domain.Learner, error) {
	for _, learner := range m.learners {
		if learner.ID == id {
			return learner, nil
		}
	}
	return nil, domain.ErrLearnerNotFound
}

func (m *memStore) GetLearner(ctx context.Context, id domain.LearnerID) (*domain.Learner, error) {
	return m.GetLearnerByID(ctx, id)
}

func (m *memStore) UpdateLearnerTotals(ctx context.Context, id domain.LearnerID, brainPower, energy int) error {
	learner, err := m.GetLearnerByID(ctx, id)
	if err != nil {
		return err
	}
	learner.BrainPower = brainPower
	learner.Energy = energy
	return nil
}

func (m *memStore) CreateSession(_ context.Context, session *domain.AuthSession) error {
	m.sessions[session.Token] = session
	return nil
}

func (m *memStore) GetSessionByToken(_ context.Context, token string) (*domain.AuthSession, error) {
	session, ok := m.sessions[token]
	if !ok {
		return nil, domain.ErrAuthSessionNotFound
	}
	return session, nil
}

func (m *memStore) DeleteSession(_ context.Context, id string) error {
	for token, session := range m.sessions {
		if session.ID == id {
			delete(m.sessions, token)
		}
	}
	return nil
}

func (m *memStore) DeleteLearnerSessions(_ context.Context, _ domain.LearnerID) error { return nil }
func (m *memStore) DeleteExpiredSessions(_ context.Context) error                     { return nil }

func (m *memStore) GetActivityProgress(_ context.Context, _ domain.LearnerID, activityID domain.ActivityID) (*domain.ActivityProgress, error) {
	p, ok := m.progress[activityID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *memStore) UpsertActivityProgress(_ context.Context, p *domain.ActivityProgress) error {
	m.progress[p.ActivityID] = p
	return nil
}

func (m *memStore) SaveStepRecords(_ context.Context, _ []domain.StepRecord) error { return nil }

func (m *memStore) AddDailyStat(_ context.Context, _ *domain.DailyStat) error { return nil }

func (m *memStore) ListDailyStats(_ context.Context, _ domain.LearnerID, _, _ time.Time) ([]domain.DailyStat, error) {
	return nil, nil
}

func newTestServer(t *testing.T) (http.Handler, *memStore) {
	t.Helper()
	store := newMemStore()
	store.activity = &domain.Activity{ID: domain.GenerateActivityID(), Kind: domain.ActivityCore, Title: "T", Position: 1, IsPublished: true}
	step := domain.Step{
		ID:       domain.GenerateStepID(),
		Kind:     domain.KindMultipleChoice,
		Position: 1,
		Content: domain.MultipleChoiceContent{
			Variant:  domain.MCCore,
			Question: "q",
			Options:  []domain.MultipleChoiceOption{{Text: "a", IsCorrect: true}},
		},
	}
	store.steps = []domain.Step{step}

	cfg := &config.Config{Port: 8080, Debug: true, SessionMaxAge: 3600}
	app := &api.App{
		Config:     cfg,
		Auth:       auth.NewService(store, time.Hour),
		Catalog:    store,
		Completion: completion.NewService(store, store, store, store, nil, nil),
		Resolver:   catalog.NewResolver(store),
		Stats:      store,
		Ping:       func(context.Context) error { return nil },
	}
	return api.NewRouter(app), store
}

func TestRouter_Health(t *testing.T) {
	router, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d", rec.Code)
	}
}

func TestRouter_ReadyReportsStorageFailure(t *testing.T) {
	store := newMemStore()
	cfg := &config.Config{Port: 8080, Debug: true, SessionMaxAge: 3600}
	app := &api.App{
		Config:     cfg,
		Auth:       auth.NewService(store, time.Hour),
		Catalog:    store,
		Completion: completion.NewService(store, store, store, store, nil, nil),
		Resolver:   catalog.NewResolver(store),
		Stats:      store,
		Ping:       func(context.Context) error { return errors.New("connection refused") },
	}
	router := api.NewRouter(app)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d, want 503", rec.Code)
	}
}

func TestRouter_GetActivity(t *testing.T) {
	router, store := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/activities/"+store.activity.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestRouter_CompleteFlowWithBearerToken(t *testing.T) {
	router, store := newTestServer(t)

	register := func(body map[string]string) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(raw))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}
	if rec := register(map[string]string{"email": "amy@example.com", "password": "longenough"}); rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", rec.Code, rec.Body)
	}

	raw, _ := json.Marshal(map[string]string{"email": "amy@example.com", "password": "longenough"})
	loginReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(raw))
	loginRec := httptest.NewRecorder()
	router.ServeHTTP(loginRec, loginReq)
	if loginRec.Code != http.StatusOK {
		t.Fatalf("login status = %d", loginRec.Code)
	}
	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(loginRec.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	submission := map[string]any{
		"answers": map[string]any{
			store.steps[0].ID.String(): map[string]any{"kind": "multipleChoice", "selectedIndex": 0},
		},
	}
	raw, _ = json.Marshal(submission)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/activities/"+store.activity.ID.String()+"/complete", bytes.NewReader(raw))
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("complete status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp struct {
		Status     string `json:"status"`
		BrainPower int    `json:"brainPower"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode complete: %v", err)
	}
	if resp.Status != "success" || resp.BrainPower != 30 {
		t.Errorf("response = %+v", resp)
	}

	if p, ok := store.progress[store.activity.ID]; !ok || !p.Completed {
		t.Error("progress not persisted")
	}
}

func TestRouter_CompleteWithoutSession(t *testing.T) {
	router, store := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/activities/"+store.activity.ID.String()+"/complete", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "unauthenticated" {
		t.Errorf("status field = %q", resp["status"])
	}
}

func TestRouter_InvalidSessionIsAnonymous(t *testing.T) {
	router, _ := newTestServer(t)

	// A stale token must not break public endpoints.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/next-activity?lesson="+domain.GenerateLessonID().String(), nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want anonymous resolution to proceed", rec.Code)
	}
}
