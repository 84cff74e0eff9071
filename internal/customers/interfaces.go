package customers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/webshopkit/webshop-backend/pkg/db/models"
	"github.com/webshopkit/webshop-backend/pkg/pagination"
)

// CustomerRepository defines the persistence surface required by the
// customer service.
type CustomerRepository interface {
	WithTx(tx *gorm.DB) CustomerRepository
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Customer, error)
	FindByLastNamePrefix(ctx context.Context, prefix string) ([]models.Customer, error)
	FindWithoutOrders(ctx context.Context) ([]models.Customer, error)
	CountOrders(ctx context.Context, customerID uuid.UUID) (int64, error)
	UpdateVersioned(ctx context.Context, id uuid.UUID, expectedVersion int64, updates map[string]any) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteDependents(ctx context.Context, id uuid.UUID) error
	SaveFile(ctx context.Context, file *models.CustomerFile) error
	FindFile(ctx context.Context, customerID uuid.UUID) (*models.CustomerFile, error)
}
