package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/obilearn/obi/internal/api/handlers"
	"github.com/obilearn/obi/internal/auth"
	"github.com/obilearn/obi/internal/domain"
)

type memAuthRepo struct {
	learners map[string]*domain.Learner
	sessions map[string]*domain.AuthSession
}

func newMemAuthRepo() *memAuthRepo {
	return &memAuthRepo{
		learners: map[string]*domain.Learner{},
		sessions: map[string]*domain.AuthSession{},
	}
}

func (m *memAuthRepo) CreateLearner(_ context.Context, learner *domain.Learner) error {
	m.learners[learner.Email] = learner
	return nil
}

func (m *memAuthRepo) GetLearnerByEmail(_ context.Context, email string) (*domain.Learner, error) {
	learner, ok := m.learners[email]
	if !ok {
		return nil, domain.ErrLearnerNotFound
	}
	return learner, nil
}

func (m *memAuthRepo) GetLearnerByID(_ context.Context, id domain.LearnerID) (*domain.Learner, error) {
	for _, learner := range m.learners {
		if learner.ID == id {
			return learner, nil
		}
	}
	return nil, domain.ErrLearnerNotFound
}

func (m *memAuthRepo) CreateSession(_ context.Context, session *domain.AuthSession) error {
	m.sessions[session.Token] = session
	return nil
}

func (m *memAuthRepo) GetSessionByToken(_ context.Context, token string) (*domain.AuthSession, error) {
	session, ok := m.sessions[token]
	if !ok {
		return nil, domain.ErrAuthSessionNotFound
	}
	return session, nil
}

func (m *memAuthRepo) DeleteSession(_ context.Context, id string) error {
	for token, session := range m.sessions {
		if session.ID == id {
			delete(m.sessions, token)
		}
	}
	return nil
}

func (m *memAuthRepo) DeleteLearnerSessions(_ context.Context, learnerID domain.LearnerID) error {
	for token, session := range m.sessions {
		if session.LearnerID == learnerID {
			delete(m.sessions, token)
		}
	}
	return nil
}

func (m *memAuthRepo) DeleteExpiredSessions(_ context.Context) error { return nil }

func newAuthHandler() (*handlers.AuthHandler, *memAuthRepo) {
	repo := newMemAuthRepo()
	svc := auth.NewService(repo, time.Hour)
	return handlers.NewAuthHandler(svc, false, 3600), repo
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	h, _ := newAuthHandler()

	rec := postJSON(t, h.Register, "/api/v1/auth/register", map[string]string{
		"email":    "amy@example.com",
		"name":     "Amy",
		"password": "longenough",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp struct {
		Learner handlers.LearnerResponse `json:"learner"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Learner.Email != "amy@example.com" || resp.Learner.Energy != 100 {
		t.Errorf("learner = %+v", resp.Learner)
	}

	// Same email again conflicts.
	rec = postJSON(t, h.Register, "/api/v1/auth/register", map[string]string{
		"email":    "amy@example.com",
		"password": "longenough",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rec.Code)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	h, _ := newAuthHandler()

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "longenough"}},
		{"missing password", map[string]string{"email": "amy@example.com"}},
		{"short password", map[string]string{"email": "amy@example.com", "password": "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.Register, "/api/v1/auth/register", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestAuthHandler_LoginAndMe(t *testing.T) {
	h, _ := newAuthHandler()
	postJSON(t, h.Register, "/api/v1/auth/register", map[string]string{
		"email":    "amy@example.com",
		"password": "longenough",
	})

	rec := postJSON(t, h.Login, "/api/v1/auth/login", map[string]string{
		"email":    "amy@example.com",
		"password": "longenough",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("no session cookie set")
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie flags = %+v", cookie)
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if loginResp.Token != cookie.Value {
		t.Error("body token and cookie value differ")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(cookie)
	meRec := httptest.NewRecorder()
	h.Me(meRec, req)
	if meRec.Code != http.StatusOK {
		t.Fatalf("me status = %d", meRec.Code)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	h, _ := newAuthHandler()
	postJSON(t, h.Register, "/api/v1/auth/register", map[string]string{
		"email":    "amy@example.com",
		"password": "longenough",
	})

	rec := postJSON(t, h.Login, "/api/v1/auth/login", map[string]string{
		"email":    "amy@example.com",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthHandler_Me_WithoutSession(t *testing.T) {
	h, _ := newAuthHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	h.Me(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	h, repo := newAuthHandler()
	postJSON(t, h.Register, "/api/v1/auth/register", map[string]string{
		"email":    "amy@example.com",
		"password": "longenough",
	})
	rec := postJSON(t, h.Login, "/api/v1/auth/login", map[string]string{
		"email":    "amy@example.com",
		"password": "longenough",
	})

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("no session cookie")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(cookie)
	logoutRec := httptest.NewRecorder()
	h.Logout(logoutRec, req)
	if logoutRec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", logoutRec.Code)
	}
	if len(repo.sessions) != 0 {
		t.Error("session survived logout")
	}

	// The cleared cookie expires immediately.
	for _, c := range logoutRec.Result().Cookies() {
		if c.Name == "session" && c.MaxAge >= 0 {
			t.Errorf("cleared cookie MaxAge = %d, want negative", c.MaxAge)
		}
	}
}
