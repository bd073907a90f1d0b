package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/agrisphere/agrisphere-backend/pkg/auth"
	"github.com/agrisphere/agrisphere-backend/pkg/config"
	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
	"github.com/agrisphere/agrisphere-backend/pkg/security"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	byToken map[string]*models.User
	hashes  map[uuid.UUID]string
	cleared map[uuid.UUID]bool
	tokens  map[uuid.UUID]string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: map[string]*models.User{},
		byToken: map[string]*models.User{},
		hashes:  map[uuid.UUID]string{},
		cleared: map[uuid.UUID]bool{},
		tokens:  map[uuid.UUID]string{},
	}
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByResetToken(_ context.Context, token string) (*models.User, error) {
	if u, ok := s.byToken[token]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) SetResetToken(_ context.Context, id uuid.UUID, token string, expiry time.Time) error {
	s.tokens[id] = token
	return nil
}

func (s *stubUserRepo) ClearResetToken(_ context.Context, id uuid.UUID) error {
	s.cleared[id] = true
	return nil
}

func (s *stubUserRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	s.hashes[id] = hash
	return nil
}

type stubSessionManager struct {
	generated []string
	revoked   []string
}

func (s *stubSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	return "rotated-" + oldAccessID, "refresh-rotated", nil
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "agrisphere",
		ExpirationMinutes: 30,
	}
}

func seedStubUser(t *testing.T, repo *stubUserRepo, email, password string, active, complete bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:              uuid.New(),
		Name:            "Test User",
		Email:           email,
		PasswordHash:    hash,
		Role:            enums.RoleFarmer,
		IsActive:        active,
		ProfileComplete: complete,
	}
	repo.byEmail[email] = user
	return user
}

func newLoginTestService(t *testing.T, repo *stubUserRepo, sessions *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginMintsProfileAwareToken(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	sessions := &stubSessionManager{}
	user := seedStubUser(t, repo, "farmer@example.com", "secret-1", true, true)
	svc := newLoginTestService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Farmer@Example.com", Password: "secret-1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatal("expected user in response")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != enums.RoleFarmer {
		t.Fatalf("unexpected role claim %s", claims.Role)
	}
	if !claims.ProfileComplete {
		t.Fatal("expected profile_complete claim")
	}
	if len(sessions.generated) != 1 || claims.ID != sessions.generated[0] {
		t.Fatal("expected session keyed by jti")
	}
}

func TestLoginRejectsBadCredentialsAndInactive(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	sessions := &stubSessionManager{}
	seedStubUser(t, repo, "farmer@example.com", "secret-1", true, false)
	inactive := seedStubUser(t, repo, "gone@example.com", "secret-2", false, false)
	_ = inactive
	svc := newLoginTestService(t, repo, sessions)
	ctx := context.Background()

	cases := []LoginRequest{
		{Email: "farmer@example.com", Password: "wrong"},
		{Email: "unknown@example.com", Password: "secret-1"},
		{Email: "gone@example.com", Password: "secret-2"},
		{Email: "", Password: "secret-1"},
	}
	for _, req := range cases {
		_, err := svc.Login(ctx, req)
		if err == nil {
			t.Fatalf("expected error for %+v", req)
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("unexpected error for %+v: %v", req, err)
		}
	}
}

func TestResetPasswordFlow(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	sessions := &stubSessionManager{}
	user := seedStubUser(t, repo, "farmer@example.com", "secret-1", true, false)

	expiry := time.Now().UTC().Add(30 * time.Minute)
	token := "reset-token"
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry
	repo.byToken[token] = user

	svc := newLoginTestService(t, repo, sessions)
	ctx := context.Background()

	if err := svc.ResetPassword(ctx, ResetPasswordRequest{Token: token, Password: "new-secret"}); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if _, ok := repo.hashes[user.ID]; !ok {
		t.Fatal("expected password hash updated")
	}
	if !repo.cleared[user.ID] {
		t.Fatal("expected reset token cleared")
	}

	// Expired token is rejected.
	past := time.Now().UTC().Add(-time.Minute)
	user.ResetTokenExpiry = &past
	err := svc.ResetPassword(ctx, ResetPasswordRequest{Token: token, Password: "new-secret"})
	if err == nil {
		t.Fatal("expected error for expired token")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestForgotPasswordIsSilentForUnknownEmail(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	svc := newLoginTestService(t, repo, &stubSessionManager{})

	if err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "nobody@example.com"}); err != nil {
		t.Fatalf("expected silent success, got %v", err)
	}
}
