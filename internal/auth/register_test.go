package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/pkg/config"
	"github.com/agrisphere/agrisphere-backend/pkg/db"
	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func newRegisterTestService(t *testing.T) (RegisterService, *gorm.DB) {
	t.Helper()
	dsn := "file:auth_register_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Consultant{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             db.FromGorm(conn),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return svc, conn
}

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	t.Parallel()

	svc, conn := newRegisterTestService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterRequest{
		Name:     "Amara Diallo",
		Email:    "Amara@Example.com",
		Password: "secret-1",
		Role:     enums.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("register first user: %v", err)
	}
	if first.ID == uuid.Nil {
		t.Fatal("expected a generated user id")
	}
	if first.Role != enums.RoleAdmin {
		t.Fatalf("expected first registrant to be admin, got %s", first.Role)
	}
	if first.Email != "amara@example.com" {
		t.Fatalf("expected lowercased email, got %s", first.Email)
	}

	second, err := svc.Register(ctx, RegisterRequest{
		Name:     "Tomas Riva",
		Email:    "tomas@example.com",
		Password: "secret-2",
		Role:     enums.RoleFarmer,
	})
	if err != nil {
		t.Fatalf("register second user: %v", err)
	}
	if second.Role != enums.RoleFarmer {
		t.Fatalf("expected requested role for second registrant, got %s", second.Role)
	}

	var admins int64
	if err := conn.Model(&models.User{}).Where("role = ?", enums.RoleAdmin).Count(&admins).Error; err != nil {
		t.Fatalf("count admins: %v", err)
	}
	if admins != 1 {
		t.Fatalf("expected exactly one admin, got %d", admins)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newRegisterTestService(t)
	ctx := context.Background()

	req := RegisterRequest{
		Name:     "Dana Voss",
		Email:    "dana@example.com",
		Password: "secret-1",
		Role:     enums.RoleVendor,
	}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(ctx, req)
	if err == nil {
		t.Fatal("expected conflict for duplicate email")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRegisterConsultantCreatesShadowRecord(t *testing.T) {
	t.Parallel()

	svc, conn := newRegisterTestService(t)
	ctx := context.Background()

	// Seed an admin so the consultant keeps their requested role.
	if _, err := svc.Register(ctx, RegisterRequest{
		Name:     "Root Admin",
		Email:    "admin@example.com",
		Password: "secret-0",
		Role:     enums.RoleCustomer,
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	created, err := svc.Register(ctx, RegisterRequest{
		Name:     "Ira Mensah",
		Email:    "ira@example.com",
		Password: "secret-3",
		Role:     enums.RoleConsultant,
	})
	if err != nil {
		t.Fatalf("register consultant: %v", err)
	}
	if created.Role != enums.RoleConsultant {
		t.Fatalf("unexpected role %s", created.Role)
	}

	var consultant models.Consultant
	if err := conn.First(&consultant, "user_id = ?", created.ID).Error; err != nil {
		t.Fatalf("load shadow record: %v", err)
	}
	if consultant.Email != "ira@example.com" {
		t.Fatalf("shadow email mismatch: %s", consultant.Email)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newRegisterTestService(t)
	ctx := context.Background()

	cases := []RegisterRequest{
		{Name: "", Email: "a@example.com", Password: "secret-1", Role: enums.RoleCustomer},
		{Name: "A", Email: "", Password: "secret-1", Role: enums.RoleCustomer},
		{Name: "A", Email: "a@example.com", Password: "short", Role: enums.RoleCustomer},
		{Name: "A", Email: "a@example.com", Password: "secret-1", Role: "gardener"},
		{Name: "A", Email: "a@example.com", Password: "secret-1", Role: enums.RoleAdmin},
	}

	for _, req := range cases {
		_, err := svc.Register(ctx, req)
		if err == nil {
			t.Fatalf("expected validation error for %+v", req)
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("unexpected error for %+v: %v", req, err)
		}
	}
}
