package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/webshopkit/webshop-backend/pkg/db/models"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{`
CREATE TABLE customers (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL DEFAULT 'individual',
  last_name TEXT NOT NULL DEFAULT '',
  first_name TEXT,
  email TEXT NOT NULL DEFAULT '',
  category INTEGER NOT NULL DEFAULT 0,
  discount NUMERIC NOT NULL DEFAULT 0,
  revenue NUMERIC NOT NULL DEFAULT 0,
  since DATETIME,
  newsletter INTEGER NOT NULL DEFAULT 0,
  terms_agreed INTEGER NOT NULL DEFAULT 0,
  password_hash TEXT NOT NULL DEFAULT '',
  remarks TEXT,
  gender TEXT,
  marital_status TEXT,
  hobbies TEXT,
  version INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  total NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  article_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price NUMERIC NOT NULL DEFAULT 0,
  quantity INTEGER NOT NULL DEFAULT 1,
  line_total NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME
);`, `
CREATE TABLE deliveries (
  id TEXT PRIMARY KEY,
  delivery_number TEXT NOT NULL UNIQUE,
  carrier TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE order_deliveries (
  order_id TEXT NOT NULL,
  delivery_id TEXT NOT NULL,
  PRIMARY KEY (order_id, delivery_id)
);`}

	for _, stmt := range stmts {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func TestRepository_CreateAndFindByID(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	customerID := uuid.New()
	order := &models.Order{
		ID:         uuid.New(),
		CustomerID: customerID,
		Total:      decimal.NewFromInt(60),
		LineItems: []models.OrderLineItem{{
			ID:        uuid.New(),
			ArticleID: uuid.New(),
			Name:      "Kettle",
			UnitPrice: decimal.NewFromInt(20),
			Quantity:  3,
			LineTotal: decimal.NewFromInt(60),
		}},
	}
	require.NoError(t, repo.Create(ctx, order))

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, customerID, loaded.CustomerID)
	assert.True(t, loaded.Total.Equal(decimal.NewFromInt(60)))
	require.Len(t, loaded.LineItems, 1)
	assert.Equal(t, "Kettle", loaded.LineItems[0].Name)
	assert.True(t, loaded.LineItems[0].UnitPrice.Equal(decimal.NewFromInt(20)))
}

func TestRepository_AccrueRevenue(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	customerID := uuid.New()
	require.NoError(t, gdb.Exec(
		`INSERT INTO customers (id, revenue, version) VALUES (?, 100, 3)`, customerID.String(),
	).Error)

	require.NoError(t, repo.AccrueRevenue(ctx, customerID, decimal.NewFromInt(60)))

	var customer models.Customer
	require.NoError(t, gdb.First(&customer, "id = ?", customerID).Error)
	assert.True(t, customer.Revenue.Equal(decimal.NewFromInt(160)))
	// revenue accrual is not a client edit and must not advance the guard
	assert.Equal(t, int64(3), customer.Version)
}

func TestRepository_CreateDeliveryAndLookup(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	orderA := &models.Order{ID: uuid.New(), CustomerID: uuid.New(), Total: decimal.NewFromInt(10)}
	orderB := &models.Order{ID: uuid.New(), CustomerID: uuid.New(), Total: decimal.NewFromInt(20)}
	require.NoError(t, repo.Create(ctx, orderA))
	require.NoError(t, repo.Create(ctx, orderB))

	delivery := &models.Delivery{
		ID:             uuid.New(),
		DeliveryNumber: "D-1001",
		Carrier:        "DHL",
		Orders:         []models.Order{{ID: orderA.ID}, {ID: orderB.ID}},
	}
	require.NoError(t, repo.CreateDelivery(ctx, delivery))

	loaded, err := repo.FindDeliveryByID(ctx, delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, "D-1001", loaded.DeliveryNumber)
	assert.Len(t, loaded.Orders, 2)

	forOrder, err := repo.FindDeliveriesForOrder(ctx, orderA.ID)
	require.NoError(t, err)
	require.Len(t, forOrder, 1)
	assert.Equal(t, delivery.ID, forOrder[0].ID)
}

func TestRepository_SearchDeliveries(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	for _, number := range []string{"D-1001", "D-1002", "X-2001"} {
		require.NoError(t, repo.CreateDelivery(ctx, &models.Delivery{
			ID:             uuid.New(),
			DeliveryNumber: number,
			Carrier:        "DHL",
		}))
	}

	found, err := repo.SearchDeliveries(ctx, "D-10")
	require.NoError(t, err)
	require.Len(t, found, 2)

	// LIKE wildcards in the prefix match literally
	found, err = repo.SearchDeliveries(ctx, "D-%")
	require.NoError(t, err)
	assert.Empty(t, found)
}
