package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/webshopkit/webshop-backend/pkg/auth"
	"github.com/webshopkit/webshop-backend/pkg/config"
	"github.com/webshopkit/webshop-backend/pkg/db/models"
	"github.com/webshopkit/webshop-backend/pkg/enums"
	pkgerrors "github.com/webshopkit/webshop-backend/pkg/errors"
	"github.com/webshopkit/webshop-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// LoginRequest carries the credentials presented by a client.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the successful login payload.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	CustomerID  uuid.UUID    `json:"customer_id"`
	Roles       []enums.Role `json:"roles"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

type customerLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
}

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Customers customerLookup
	JWTConfig config.JWTConfig
	Now       func() time.Time
}

type service struct {
	customers customerLookup
	jwtCfg    config.JWTConfig
	now       func() time.Time
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Customers == nil {
		return nil, fmt.Errorf("customer lookup is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		customers: params.Customers,
		jwtCfg:    params.JWTConfig,
		now:       params.Now,
	}, nil
}

// Login verifies the credentials and mints an access token carrying the
// customer's roles. Unknown emails and wrong passwords fail identically so
// the endpoint cannot be used to probe for accounts.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	customer, err := s.customers.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	ok, err := security.VerifyPassword(req.Password, customer.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	roles := make([]enums.Role, 0, len(customer.Roles))
	for _, role := range customer.Roles {
		roles = append(roles, role.Role)
	}

	now := s.now().UTC()
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		CustomerID: customer.ID,
		Roles:      roles,
		JTI:        uuid.NewString(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &LoginResponse{
		AccessToken: token,
		CustomerID:  customer.ID,
		Roles:       roles,
		ExpiresAt:   now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
	}, nil
}
