package service_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ewheels/service-desk/internal/auth"
	"github.com/ewheels/service-desk/internal/config"
	"github.com/ewheels/service-desk/internal/domain"
	"github.com/ewheels/service-desk/internal/repository/memory"
	"github.com/ewheels/service-desk/internal/service"
	apperrors "github.com/ewheels/service-desk/pkg/util"
)

func authConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
	}
}

func seedLoginStaff(t *testing.T, store *memory.Memory, password string, active bool) *domain.StaffMember {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	gt.NoError(t, err).Required()
	return store.PutStaff(&domain.StaffMember{
		Name:         "Dana",
		Email:        "dana@ewheels.example",
		PasswordHash: hash,
		Role:         domain.RoleFrontDeskManager,
		Active:       active,
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := service.NewAuthService(authConfig(), store.Staff(), nil)
	staff := seedLoginStaff(t, store, "opensesame", true)

	result, err := svc.Login(ctx, "Dana@ewheels.example", "opensesame")
	gt.NoError(t, err).Required()
	gt.Value(t, result.Staff.ID).Equal(staff.ID)
	gt.Value(t, result.Token).NotEqual("")

	claims, err := svc.TokenManager().ParseToken(result.Token)
	gt.NoError(t, err).Required()
	gt.Value(t, claims.StaffID).Equal(staff.ID)
	gt.Value(t, claims.Role).Equal(domain.RoleFrontDeskManager)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := service.NewAuthService(authConfig(), store.Staff(), nil)
	seedLoginStaff(t, store, "opensesame", true)

	_, err := svc.Login(ctx, "dana@ewheels.example", "wrong")
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "UNAUTHORIZED")).True()

	_, err = svc.Login(ctx, "nobody@ewheels.example", "opensesame")
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "UNAUTHORIZED")).True()
}

func TestLoginRejectsInactiveStaff(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := service.NewAuthService(authConfig(), store.Staff(), nil)
	seedLoginStaff(t, store, "opensesame", false)

	_, err := svc.Login(ctx, "dana@ewheels.example", "opensesame")
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "UNAUTHORIZED")).True()
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := service.NewAuthService(authConfig(), store.Staff(), nil)
	staff := seedLoginStaff(t, store, "opensesame", true)

	err := svc.ChangePassword(ctx, staff.ID, "opensesame", "short")
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "VALIDATION_FAILED")).True()

	err = svc.ChangePassword(ctx, staff.ID, "wrong", "newpassword")
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "UNAUTHORIZED")).True()

	gt.NoError(t, svc.ChangePassword(ctx, staff.ID, "opensesame", "newpassword")).Required()

	_, err = svc.Login(ctx, "dana@ewheels.example", "newpassword")
	gt.NoError(t, err)
}
