package carts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/webshopkit/webshop-backend/pkg/auth"
	"github.com/webshopkit/webshop-backend/pkg/db/models"
	pkgerrors "github.com/webshopkit/webshop-backend/pkg/errors"
)

type articleLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Article, error)
}

// Service exposes cart operations.
type Service interface {
	AddItem(ctx context.Context, access auth.Access, customerID, articleID uuid.UUID, quantity int) (*CartDTO, error)
	Get(ctx context.Context, access auth.Access, customerID uuid.UUID) (*CartDTO, error)
	RemoveItem(ctx context.Context, access auth.Access, customerID, articleID uuid.UUID) error
	Clear(ctx context.Context, access auth.Access, customerID uuid.UUID) error
	SweepStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// ServiceParams wires the cart service dependencies.
type ServiceParams struct {
	Repo     CartRepository
	Articles articleLoader
	Now      func() time.Time
}

type service struct {
	repo     CartRepository
	articles articleLoader
	now      func() time.Time
}

// NewService builds the cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Articles == nil {
		return nil, fmt.Errorf("article loader required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:     params.Repo,
		articles: params.Articles,
		now:      params.Now,
	}, nil
}

// AddItem puts an article into the customer's cart, overwriting the quantity
// when the article is already there. Adding always refreshes the cart's
// activity timestamp.
func (s *service) AddItem(ctx context.Context, access auth.Access, customerID, articleID uuid.UUID, quantity int) (*CartDTO, error) {
	if !access.CanActFor(customerID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify this cart")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "article not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load article")
	}
	if article.Discontinued {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "article is discontinued")
	}

	item := &models.CartItem{
		CustomerID: customerID,
		ArticleID:  articleID,
		Quantity:   quantity,
	}
	if err := s.repo.Upsert(ctx, item, s.now().UTC()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart item")
	}
	return s.loadCart(ctx, customerID)
}

// Get returns the customer's cart.
func (s *service) Get(ctx context.Context, access auth.Access, customerID uuid.UUID) (*CartDTO, error) {
	if !access.CanActFor(customerID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot access this cart")
	}
	return s.loadCart(ctx, customerID)
}

// RemoveItem drops one article from the cart.
func (s *service) RemoveItem(ctx context.Context, access auth.Access, customerID, articleID uuid.UUID) error {
	if !access.CanActFor(customerID) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify this cart")
	}
	affected, err := s.repo.RemoveItem(ctx, customerID, articleID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "article is not in the cart")
	}
	return nil
}

// Clear empties the cart.
func (s *service) Clear(ctx context.Context, access auth.Access, customerID uuid.UUID) error {
	if !access.CanActFor(customerID) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify this cart")
	}
	if err := s.repo.DeleteByCustomer(ctx, customerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// SweepStale removes the carts of every owner without activity since cutoff
// and reports how many items were dropped. Internal callers only; the cron
// worker drives it.
func (s *service) SweepStale(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := s.repo.DeleteForStaleOwners(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sweep stale carts")
	}
	return deleted, nil
}

func (s *service) loadCart(ctx context.Context, customerID uuid.UUID) (*CartDTO, error) {
	items, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ArticleID)
	}
	articles, err := s.articles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart articles")
	}
	return toCartDTO(customerID, items, articles), nil
}
