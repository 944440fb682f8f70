package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/obilearn/obi/internal/domain"
	"github.com/obilearn/obi/internal/progression"
)

type fakeRepo struct {
	learnersByEmail map[string]*domain.Learner
	learnersByID    map[domain.LearnerID]*domain.Learner
	sessionsByToken map[string]*domain.AuthSession
	sessionsByID    map[string]*domain.AuthSession
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		learnersByEmail: map[string]*domain.Learner{},
		learnersByID:    map[domain.LearnerID]*domain.Learner{},
		sessionsByToken: map[string]*domain.AuthSession{},
		sessionsByID:    map[string]*domain.AuthSession{},
	}
}

func (f *fakeRepo) CreateLearner(_ context.Context, learner *domain.Learner) error {
	f.learnersByEmail[learner.Email] = learner
	f.learnersByID[learner.ID] = learner
	return nil
}

func (f *fakeRepo) GetLearnerByEmail(_ context.Context, email string) (*domain.Learner, error) {
	learner, ok := f.learnersByEmail[email]
	if !ok {
		return nil, domain.ErrLearnerNotFound
	}
	return learner, nil
}

func (f *fakeRepo) GetLearnerByID(_ context.Context, id domain.LearnerID) (*domain.Learner, error) {
	learner, ok := f.learnersByID[id]
	if !ok {
		return nil, domain.ErrLearnerNotFound
	}
	return learner, nil
}

func (f *fakeRepo) CreateSession(_ context.Context, session *domain.AuthSession) error {
	f.sessionsByToken[session.Token] = session
	f.sessionsByID[session.ID] = session
	return nil
}

func (f *fakeRepo) GetSessionByToken(_ context.Context, token string) (*domain.AuthSession, error) {
	session, ok := f.sessionsByToken[token]
	if !ok {
		return nil, domain.ErrAuthSessionNotFound
	}
	return session, nil
}

func (f *fakeRepo) DeleteSession(_ context.Context, id string) error {
	session, ok := f.sessionsByID[id]
	if !ok {
		return nil
	}
	delete(f.sessionsByID, id)
	delete(f.sessionsByToken, session.Token)
	return nil
}

func (f *fakeRepo) DeleteLearnerSessions(_ context.Context, learnerID domain.LearnerID) error {
	for id, session := range f.sessionsByID {
		if session.LearnerID == learnerID {
			delete(f.sessionsByID, id)
			delete(f.sessionsByToken, session.Token)
		}
	}
	return nil
}

func (f *fakeRepo) DeleteExpiredSessions(_ context.Context) error {
	now := time.Now()
	for id, session := range f.sessionsByID {
		if session.Expired(now) {
			delete(f.sessionsByID, id)
			delete(f.sessionsByToken, session.Token)
		}
	}
	return nil
}

func newTestService(repo *fakeRepo) *Service {
	svc := NewService(repo, time.Hour)
	svc.bcryptCost = bcrypt.MinCost // keep hashing fast in tests
	return svc
}

func TestService_Register(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	learner, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "amy@example.com",
		Name:     "Amy",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if learner.Email != "amy@example.com" || learner.Name != "Amy" {
		t.Errorf("learner = %+v", learner)
	}
	if learner.BrainPower != 0 || learner.Energy != progression.EnergyMax {
		t.Errorf("new learner totals = %d BP, %d energy, want 0 and full energy", learner.BrainPower, learner.Energy)
	}
	if learner.PasswordHash == "correct horse battery" || learner.PasswordHash == "" {
		t.Error("password was not hashed")
	}

	_, err = svc.Register(context.Background(), RegisterRequest{
		Email:    "amy@example.com",
		Password: "another",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("duplicate Register() error = %v, want ErrEmailExists", err)
	}
}

func TestService_Login(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	if _, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "amy@example.com",
		Password: "secret-pass",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "amy@example.com", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.Token == "" || resp.Session == nil || resp.Session.Token != resp.Token {
		t.Errorf("response = %+v", resp)
	}
	if resp.Learner.Email != "amy@example.com" {
		t.Errorf("Learner = %+v", resp.Learner)
	}

	if _, err := svc.Login(context.Background(), LoginRequest{Email: "amy@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestService_ValidateSession(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	if _, err := svc.Register(context.Background(), RegisterRequest{Email: "amy@example.com", Password: "secret-pass"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	resp, err := svc.Login(context.Background(), LoginRequest{Email: "amy@example.com", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	learner, session, err := svc.ValidateSession(context.Background(), resp.Token)
	if err != nil {
		t.Fatalf("ValidateSession() error = %v", err)
	}
	if learner.Email != "amy@example.com" || session.Token != resp.Token {
		t.Errorf("validated = %+v / %+v", learner, session)
	}

	if _, _, err := svc.ValidateSession(context.Background(), "no-such-token"); !errors.Is(err, domain.ErrAuthSessionNotFound) {
		t.Errorf("unknown token error = %v, want ErrAuthSessionNotFound", err)
	}
}

func TestService_ValidateSession_Expired(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	if _, err := svc.Register(context.Background(), RegisterRequest{Email: "amy@example.com", Password: "secret-pass"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	resp, err := svc.Login(context.Background(), LoginRequest{Email: "amy@example.com", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	resp.Session.ExpiresAt = time.Now().Add(-time.Minute)
	if _, _, err := svc.ValidateSession(context.Background(), resp.Token); !errors.Is(err, domain.ErrAuthSessionExpired) {
		t.Errorf("expired token error = %v, want ErrAuthSessionExpired", err)
	}
	// Expired sessions are deleted on sight.
	if _, ok := repo.sessionsByToken[resp.Token]; ok {
		t.Error("expired session was kept")
	}
}

func TestService_LogoutAndLogoutAll(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	if _, err := svc.Register(context.Background(), RegisterRequest{Email: "amy@example.com", Password: "secret-pass"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	first, err := svc.Login(context.Background(), LoginRequest{Email: "amy@example.com", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	second, err := svc.Login(context.Background(), LoginRequest{Email: "amy@example.com", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := svc.Logout(context.Background(), first.Token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, _, err := svc.ValidateSession(context.Background(), first.Token); err == nil {
		t.Error("session still valid after logout")
	}
	if _, _, err := svc.ValidateSession(context.Background(), second.Token); err != nil {
		t.Errorf("other session broken by logout: %v", err)
	}

	if err := svc.Logout(context.Background(), "unknown"); !errors.Is(err, domain.ErrAuthSessionNotFound) {
		t.Errorf("Logout(unknown) error = %v, want ErrAuthSessionNotFound", err)
	}

	if err := svc.LogoutAll(context.Background(), second.Learner.ID); err != nil {
		t.Fatalf("LogoutAll() error = %v", err)
	}
	if len(repo.sessionsByID) != 0 {
		t.Errorf("sessions left after LogoutAll = %d", len(repo.sessionsByID))
	}
}

func TestService_CleanupExpiredSessions(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	learner := domain.GenerateLearnerID()

	live := &domain.AuthSession{ID: "live", LearnerID: learner, Token: "t1", ExpiresAt: time.Now().Add(time.Hour)}
	dead := &domain.AuthSession{ID: "dead", LearnerID: learner, Token: "t2", ExpiresAt: time.Now().Add(-time.Hour)}
	_ = repo.CreateSession(context.Background(), live)
	_ = repo.CreateSession(context.Background(), dead)

	if err := svc.CleanupExpiredSessions(context.Background()); err != nil {
		t.Fatalf("CleanupExpiredSessions() error = %v", err)
	}
	if _, ok := repo.sessionsByID["dead"]; ok {
		t.Error("expired session survived cleanup")
	}
	if _, ok := repo.sessionsByID["live"]; !ok {
		t.Error("live session removed by cleanup")
	}
}
