package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/webshopkit/webshop-backend/internal/carts"
	"github.com/webshopkit/webshop-backend/pkg/auth"
	"github.com/webshopkit/webshop-backend/pkg/db"
	"github.com/webshopkit/webshop-backend/pkg/db/models"
	pkgerrors "github.com/webshopkit/webshop-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type articleLoader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Article, error)
}

// Service exposes order and delivery operations.
type Service interface {
	Checkout(ctx context.Context, access auth.Access, customerID uuid.UUID) (*OrderDTO, error)
	GetByID(ctx context.Context, access auth.Access, id uuid.UUID) (*OrderDTO, error)
	ListByCustomer(ctx context.Context, access auth.Access, customerID uuid.UUID) ([]OrderDTO, error)
	CreateDelivery(ctx context.Context, access auth.Access, input CreateDeliveryInput) (*DeliveryDTO, error)
	ListDeliveries(ctx context.Context, access auth.Access, orderID uuid.UUID) ([]DeliveryDTO, error)
	SearchDeliveries(ctx context.Context, access auth.Access, numberPrefix string) ([]DeliveryDTO, error)
}

// ServiceParams wires the orders service dependencies.
type ServiceParams struct {
	Tx       txRunner
	Repo     OrderRepository
	CartRepo carts.CartRepository
	Articles articleLoader
	Notifier Notifier
	Now      func() time.Time
}

type service struct {
	tx       txRunner
	repo     OrderRepository
	cartRepo carts.CartRepository
	articles articleLoader
	notifier Notifier
	now      func() time.Time
}

// NewService builds the orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Articles == nil {
		return nil, fmt.Errorf("article loader required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		tx:       params.Tx,
		repo:     params.Repo,
		cartRepo: params.CartRepo,
		articles: params.Articles,
		notifier: params.Notifier,
		now:      params.Now,
	}, nil
}

// Checkout turns the customer's cart into an order in one transaction: the
// line items snapshot name and price as they are right now, the cart empties,
// and the customer's revenue grows by the order total. Later article edits
// never touch the placed order.
func (s *service) Checkout(ctx context.Context, access auth.Access, customerID uuid.UUID) (*OrderDTO, error) {
	if !access.CanActFor(customerID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot checkout this cart")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		repo := s.repo.WithTx(tx)

		items, err := cartRepo.ListByCustomer(ctx, customerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		ids := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ArticleID)
		}
		articles, err := s.articles.FindByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load articles")
		}

		lineItems := make([]models.OrderLineItem, 0, len(items))
		total := decimal.Zero
		for _, item := range items {
			article, ok := articles[item.ArticleID]
			if !ok || article == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart references an unknown article").
					WithDetails(map[string]any{"article_id": item.ArticleID})
			}
			if article.Discontinued {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart contains a discontinued article").
					WithDetails(map[string]any{"article_id": article.ID, "name": article.Name})
			}
			lineTotal := article.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			lineItems = append(lineItems, models.OrderLineItem{
				ArticleID: article.ID,
				Name:      article.Name,
				UnitPrice: article.Price,
				Quantity:  item.Quantity,
				LineTotal: lineTotal,
			})
			total = total.Add(lineTotal)
		}

		order = &models.Order{
			CustomerID: customerID,
			Total:      total,
			LineItems:  lineItems,
		}
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := repo.AccrueRevenue(ctx, customerID, total); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accrue revenue")
		}
		if err := cartRepo.DeleteByCustomer(ctx, customerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "empty cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.OrderCreated(ctx, order)
	}
	return ToDTO(order), nil
}

// GetByID returns the order; customers only see their own.
func (s *service) GetByID(ctx context.Context, access auth.Access, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if !access.CanActFor(order.CustomerID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot access this order")
	}
	return ToDTO(order), nil
}

// ListByCustomer returns the customer's order history.
func (s *service) ListByCustomer(ctx context.Context, access auth.Access, customerID uuid.UUID) ([]OrderDTO, error) {
	if !access.CanActFor(customerID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot access these orders")
	}
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ToDTO(&rows[i]))
	}
	return out, nil
}

// CreateDelivery registers a shipment bundling one or more orders. Staff
// only; delivery numbers are unique.
func (s *service) CreateDelivery(ctx context.Context, access auth.Access, input CreateDeliveryInput) (*DeliveryDTO, error) {
	if !access.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	if strings.TrimSpace(input.DeliveryNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery number is required")
	}
	if len(input.OrderIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one order is required")
	}

	var delivery *models.Delivery
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		linked := make([]models.Order, 0, len(input.OrderIDs))
		for _, orderID := range input.OrderIDs {
			order, err := repo.FindByID(ctx, orderID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
						WithDetails(map[string]any{"order_id": orderID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
			}
			linked = append(linked, models.Order{ID: order.ID})
		}

		delivery = &models.Delivery{
			DeliveryNumber: input.DeliveryNumber,
			Carrier:        input.Carrier,
			Orders:         linked,
		}
		if err := repo.CreateDelivery(ctx, delivery); err != nil {
			if db.IsUniqueViolation(err, "uq_deliveries_delivery_number") {
				return pkgerrors.New(pkgerrors.CodeValidation, "delivery number is already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create delivery")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := ToDeliveryDTO(delivery)
	dto.OrderIDs = input.OrderIDs
	return dto, nil
}

// ListDeliveries returns the shipments an order is part of.
func (s *service) ListDeliveries(ctx context.Context, access auth.Access, orderID uuid.UUID) ([]DeliveryDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if !access.CanActFor(order.CustomerID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot access this order")
	}

	rows, err := s.repo.FindDeliveriesForOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deliveries")
	}
	out := make([]DeliveryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ToDeliveryDTO(&rows[i]))
	}
	return out, nil
}

// SearchDeliveries finds shipments by delivery-number prefix.
func (s *service) SearchDeliveries(ctx context.Context, access auth.Access, numberPrefix string) ([]DeliveryDTO, error) {
	if !access.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	if strings.TrimSpace(numberPrefix) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery number prefix is required")
	}

	rows, err := s.repo.SearchDeliveries(ctx, strings.TrimSpace(numberPrefix))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search deliveries")
	}
	out := make([]DeliveryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ToDeliveryDTO(&rows[i]))
	}
	return out, nil
}
