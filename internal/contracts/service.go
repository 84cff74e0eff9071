package contracts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/webshopkit/webshop-backend/pkg/auth"
	"github.com/webshopkit/webshop-backend/pkg/db"
	"github.com/webshopkit/webshop-backend/pkg/db/models"
	pkgerrors "github.com/webshopkit/webshop-backend/pkg/errors"
)

type contractRepository interface {
	Create(ctx context.Context, contract *models.MaintenanceContract) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceContract, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.MaintenanceContract, error)
	NextIndex(ctx context.Context, contractNo int64) (int, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// CreateContractInput captures a new maintenance contract. When Renew is set
// the next free renewal index for the contract number is assigned.
type CreateContractInput struct {
	CustomerID uuid.UUID
	ContractNo int64
	Content    string
	Renew      bool
}

// ContractDTO is the outward shape of a maintenance contract.
type ContractDTO struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	ContractNo int64     `json:"contract_no"`
	Index      int       `json:"index"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Service exposes maintenance contract operations.
type Service interface {
	Create(ctx context.Context, access auth.Access, input CreateContractInput) (*ContractDTO, error)
	ListByCustomer(ctx context.Context, access auth.Access, customerID uuid.UUID) ([]ContractDTO, error)
	Delete(ctx context.Context, access auth.Access, id uuid.UUID) error
}

type service struct {
	repo contractRepository
}

// NewService builds the contracts service.
func NewService(repo contractRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contract repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, access auth.Access, input CreateContractInput) (*ContractDTO, error) {
	if !access.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	if input.ContractNo <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract number must be positive")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract content is required")
	}

	index := 0
	if input.Renew {
		next, err := s.repo.NextIndex(ctx, input.ContractNo)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "next contract index")
		}
		index = next
	}

	contract := &models.MaintenanceContract{
		CustomerID: input.CustomerID,
		ContractNo: input.ContractNo,
		Index:      index,
		Content:    input.Content,
	}
	if err := s.repo.Create(ctx, contract); err != nil {
		if db.IsUniqueViolation(err, "uq_contract_no_index") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract number and index already exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contract")
	}
	return toDTO(contract), nil
}

func (s *service) ListByCustomer(ctx context.Context, access auth.Access, customerID uuid.UUID) ([]ContractDTO, error) {
	if !access.CanActFor(customerID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot access these contracts")
	}
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contracts")
	}
	out := make([]ContractDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, access auth.Access, id uuid.UUID) error {
	if !access.IsStaff() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "contract not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contract")
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete contract")
	}
	return nil
}

func toDTO(contract *models.MaintenanceContract) *ContractDTO {
	return &ContractDTO{
		ID:         contract.ID,
		CustomerID: contract.CustomerID,
		ContractNo: contract.ContractNo,
		Index:      contract.Index,
		Content:    contract.Content,
		CreatedAt:  contract.CreatedAt,
	}
}
