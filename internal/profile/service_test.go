package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/pkg/db"
	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
)

func newProfileTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:profile_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Consultant{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(ServiceParams{DB: db.FromGorm(conn)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func seedUser(t *testing.T, conn *gorm.DB, role enums.Role) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		Role:         role,
		IsActive:     true,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func strPtr(v string) *string { return &v }

func TestRequiredFieldsPerRole(t *testing.T) {
	t.Parallel()

	cases := map[enums.Role][]string{
		enums.RoleCustomer:   {"phone", "address", "bio"},
		enums.RoleFarmer:     {"phone", "address", "bio", "business_name", "crop_types", "farm_size"},
		enums.RoleVendor:     {"phone", "address", "bio", "business_name", "vendor_type", "product_categories"},
		enums.RoleConsultant: {"phone", "address", "bio", "expertise", "qualifications", "experience_years"},
	}

	for role, want := range cases {
		got := RequiredFields(role)
		if len(got) != len(want) {
			t.Fatalf("role %s: expected %v, got %v", role, want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("role %s: expected %v, got %v", role, want, got)
			}
		}
	}
}

func TestCompleteRejectsMissingFields(t *testing.T) {
	t.Parallel()

	svc, conn := newProfileTestService(t)
	user := seedUser(t, conn, enums.RoleFarmer)
	ctx := context.Background()

	_, err := svc.Complete(ctx, user.ID, UpdateRequest{
		Phone:   strPtr("555-0100"),
		Address: strPtr("12 Field Lane"),
		Bio:     strPtr("Maize grower"),
		// farmer fields missing
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}

	var reloaded models.User
	if err := conn.First(&reloaded, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.ProfileComplete {
		t.Fatal("profile_complete must stay false on failed completion")
	}
	if reloaded.Phone != nil {
		t.Fatal("partial writes must roll back")
	}
}

func TestCompleteFarmerProfile(t *testing.T) {
	t.Parallel()

	svc, conn := newProfileTestService(t)
	user := seedUser(t, conn, enums.RoleFarmer)
	ctx := context.Background()

	dto, err := svc.Complete(ctx, user.ID, UpdateRequest{
		Phone:        strPtr("555-0100"),
		Address:      strPtr("12 Field Lane"),
		Bio:          strPtr("Maize grower"),
		BusinessName: strPtr("Okafor Farms"),
		CropTypes:    []string{"maize", "beans"},
		FarmSize:     strPtr("12ha"),
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !dto.ProfileComplete {
		t.Fatal("expected profile_complete=true")
	}
	if len(dto.CropTypes) != 2 {
		t.Fatalf("crop types not persisted: %v", dto.CropTypes)
	}
}

func TestCompleteConsultantSyncsShadow(t *testing.T) {
	t.Parallel()

	svc, conn := newProfileTestService(t)
	user := seedUser(t, conn, enums.RoleConsultant)
	ctx := context.Background()

	years := 8
	if _, err := svc.Complete(ctx, user.ID, UpdateRequest{
		Phone:           strPtr("555-0101"),
		Address:         strPtr("3 Advisory Road"),
		Bio:             strPtr("Soil science"),
		Expertise:       []string{"soil", "irrigation"},
		Qualifications:  strPtr("MSc Agronomy"),
		ExperienceYears: &years,
	}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	var consultant models.Consultant
	if err := conn.First(&consultant, "user_id = ?", user.ID).Error; err != nil {
		t.Fatalf("load shadow: %v", err)
	}
	if consultant.ExperienceYears != 8 {
		t.Fatalf("shadow not synced: %+v", consultant)
	}
	if len(consultant.Expertise) != 2 {
		t.Fatalf("shadow expertise not synced: %v", consultant.Expertise)
	}
}

func TestEditDoesNotToggleCompletion(t *testing.T) {
	t.Parallel()

	svc, conn := newProfileTestService(t)
	user := seedUser(t, conn, enums.RoleCustomer)
	ctx := context.Background()

	dto, err := svc.Edit(ctx, user.ID, UpdateRequest{Phone: strPtr("555-0102")})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if dto.ProfileComplete {
		t.Fatal("edit must not set profile_complete")
	}
	if dto.Phone == nil || *dto.Phone != "555-0102" {
		t.Fatal("phone not persisted")
	}
}

func TestEditRejectsBadDateOfBirth(t *testing.T) {
	t.Parallel()

	svc, conn := newProfileTestService(t)
	user := seedUser(t, conn, enums.RoleCustomer)

	_, err := svc.Edit(context.Background(), user.ID, UpdateRequest{DateOfBirth: strPtr("31-01-1990")})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}
