package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgAuth "github.com/webshopkit/webshop-backend/pkg/auth"
	"github.com/webshopkit/webshop-backend/pkg/config"
	"github.com/webshopkit/webshop-backend/pkg/db/models"
	"github.com/webshopkit/webshop-backend/pkg/enums"
	pkgerrors "github.com/webshopkit/webshop-backend/pkg/errors"
	"github.com/webshopkit/webshop-backend/pkg/security"
)

type stubCustomerLookup struct {
	customer *models.Customer
}

func (s *stubCustomerLookup) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	if s.customer == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.customer, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret",
		Issuer:            "webshop-test",
		ExpirationMinutes: 30,
	}
}

func newLoginService(t *testing.T, lookup customerLookup) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Customers: lookup,
		JWTConfig: testJWTConfig(),
		Now:       func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
	})
	require.NoError(t, err)
	return hash
}

func TestLogin_Success(t *testing.T) {
	customerID := uuid.New()
	lookup := &stubCustomerLookup{customer: &models.Customer{
		ID:           customerID,
		Email:        "meier@example.com",
		PasswordHash: hashFor(t, "correct-horse"),
		Roles: []models.CustomerRole{
			{CustomerID: customerID, Role: enums.RoleCustomer},
			{CustomerID: customerID, Role: enums.RoleStaff},
		},
	}}
	svc := newLoginService(t, lookup)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "MEIER@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, customerID, resp.CustomerID)
	assert.ElementsMatch(t, []enums.Role{enums.RoleCustomer, enums.RoleStaff}, resp.Roles)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, customerID, claims.CustomerID)
	assert.ElementsMatch(t, []enums.Role{enums.RoleCustomer, enums.RoleStaff}, claims.Roles)
}

func TestLogin_WrongPassword(t *testing.T) {
	lookup := &stubCustomerLookup{customer: &models.Customer{
		ID:           uuid.New(),
		PasswordHash: hashFor(t, "correct-horse"),
	}}
	svc := newLoginService(t, lookup)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "meier@example.com",
		Password: "wrong",
	})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
	assert.Equal(t, invalidCredentialsMessage, appErr.Message())
}

func TestLogin_UnknownEmailMatchesWrongPassword(t *testing.T) {
	svc := newLoginService(t, &stubCustomerLookup{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
	assert.Equal(t, invalidCredentialsMessage, appErr.Message())
}
