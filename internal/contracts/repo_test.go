package contracts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/webshopkit/webshop-backend/pkg/db/models"
)

func setupContractsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gdb.Exec(`
CREATE TABLE maintenance_contracts (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  contract_no INTEGER NOT NULL,
  idx INTEGER NOT NULL DEFAULT 0,
  content TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (contract_no, idx)
);`).Error)
	return gdb
}

func TestRepository_NextIndex(t *testing.T) {
	gdb := setupContractsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	next, err := repo.NextIndex(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 0, next)

	customerID := uuid.New()
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(ctx, &models.MaintenanceContract{
			ID:         uuid.New(),
			CustomerID: customerID,
			ContractNo: 42,
			Index:      i,
			Content:    "standard terms",
		}))
	}

	next, err = repo.NextIndex(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 2, next)
}

func TestRepository_UniqueContractNoAndIndex(t *testing.T) {
	gdb := setupContractsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	customerID := uuid.New()
	require.NoError(t, repo.Create(ctx, &models.MaintenanceContract{
		ID:         uuid.New(),
		CustomerID: customerID,
		ContractNo: 7,
		Index:      0,
		Content:    "standard terms",
	}))

	err := repo.Create(ctx, &models.MaintenanceContract{
		ID:         uuid.New(),
		CustomerID: customerID,
		ContractNo: 7,
		Index:      0,
		Content:    "duplicate",
	})
	assert.Error(t, err)
}

func TestRepository_ListByCustomer(t *testing.T) {
	gdb := setupContractsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	customerID := uuid.New()
	require.NoError(t, repo.Create(ctx, &models.MaintenanceContract{
		ID: uuid.New(), CustomerID: customerID, ContractNo: 9, Index: 1, Content: "renewal",
	}))
	require.NoError(t, repo.Create(ctx, &models.MaintenanceContract{
		ID: uuid.New(), CustomerID: customerID, ContractNo: 9, Index: 0, Content: "original",
	}))
	require.NoError(t, repo.Create(ctx, &models.MaintenanceContract{
		ID: uuid.New(), CustomerID: uuid.New(), ContractNo: 10, Index: 0, Content: "other customer",
	}))

	rows, err := repo.ListByCustomer(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Index)
	assert.Equal(t, 1, rows[1].Index)
}
