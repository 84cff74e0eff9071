package contracts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/webshopkit/webshop-backend/pkg/auth"
	"github.com/webshopkit/webshop-backend/pkg/db/models"
	"github.com/webshopkit/webshop-backend/pkg/enums"
	pkgerrors "github.com/webshopkit/webshop-backend/pkg/errors"
)

type stubContractRepo struct {
	created   *models.MaintenanceContract
	found     *models.MaintenanceContract
	list      []models.MaintenanceContract
	nextIndex int
	createErr error
}

func (s *stubContractRepo) Create(ctx context.Context, contract *models.MaintenanceContract) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = contract
	return nil
}

func (s *stubContractRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceContract, error) {
	if s.found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.found, nil
}

func (s *stubContractRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.MaintenanceContract, error) {
	return s.list, nil
}

func (s *stubContractRepo) NextIndex(ctx context.Context, contractNo int64) (int, error) {
	return s.nextIndex, nil
}

func (s *stubContractRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	return 1, nil
}

func staffAccess() auth.Access {
	return auth.Access{CustomerID: uuid.New(), Roles: []enums.Role{enums.RoleStaff}}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected typed error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestContractCreateAssignsRenewalIndex(t *testing.T) {
	repo := &stubContractRepo{nextIndex: 3}
	svc, err := NewService(repo)
	require.NoError(t, err)

	dto, err := svc.Create(context.Background(), staffAccess(), CreateContractInput{
		CustomerID: uuid.New(),
		ContractNo: 4711,
		Content:    "annual maintenance",
		Renew:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, dto.Index)
	assert.Equal(t, int64(4711), repo.created.ContractNo)
}

func TestContractCreateFirstTermUsesIndexZero(t *testing.T) {
	repo := &stubContractRepo{nextIndex: 9}
	svc, err := NewService(repo)
	require.NoError(t, err)

	dto, err := svc.Create(context.Background(), staffAccess(), CreateContractInput{
		CustomerID: uuid.New(),
		ContractNo: 4711,
		Content:    "annual maintenance",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, dto.Index)
}

func TestContractCreateRequiresStaff(t *testing.T) {
	svc, err := NewService(&stubContractRepo{})
	require.NoError(t, err)

	customer := auth.Access{CustomerID: uuid.New(), Roles: []enums.Role{enums.RoleCustomer}}
	_, err = svc.Create(context.Background(), customer, CreateContractInput{
		CustomerID: customer.CustomerID,
		ContractNo: 4711,
		Content:    "annual maintenance",
	})
	requireCode(t, err, pkgerrors.CodeForbidden)
}

func TestContractCreateRejectsEmptyContent(t *testing.T) {
	svc, err := NewService(&stubContractRepo{})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), staffAccess(), CreateContractInput{
		CustomerID: uuid.New(),
		ContractNo: 4711,
		Content:    "   ",
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestContractListOwnerOnly(t *testing.T) {
	svc, err := NewService(&stubContractRepo{})
	require.NoError(t, err)

	owner := auth.Access{CustomerID: uuid.New(), Roles: []enums.Role{enums.RoleCustomer}}
	_, err = svc.ListByCustomer(context.Background(), owner, uuid.New())
	requireCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.ListByCustomer(context.Background(), owner, owner.CustomerID)
	require.NoError(t, err)
}

func TestContractDeleteUnknown(t *testing.T) {
	svc, err := NewService(&stubContractRepo{})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), staffAccess(), uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}
