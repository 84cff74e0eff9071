package carts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/webshopkit/webshop-backend/pkg/auth"
	"github.com/webshopkit/webshop-backend/pkg/db/models"
	pkgerrors "github.com/webshopkit/webshop-backend/pkg/errors"
)

type stubCartRepo struct {
	items      []models.CartItem
	lastUpsert *models.CartItem
	upsertAt   time.Time
	removed    int64
	sweepCount int64
	sweepAt    time.Time
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) CartRepository { return s }

func (s *stubCartRepo) Upsert(ctx context.Context, item *models.CartItem, at time.Time) error {
	s.lastUpsert = item
	s.upsertAt = at
	return nil
}

func (s *stubCartRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.CartItem, error) {
	return s.items, nil
}

func (s *stubCartRepo) RemoveItem(ctx context.Context, customerID, articleID uuid.UUID) (int64, error) {
	return s.removed, nil
}

func (s *stubCartRepo) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) error {
	s.items = nil
	return nil
}

func (s *stubCartRepo) DeleteForStaleOwners(ctx context.Context, cutoff time.Time) (int64, error) {
	s.sweepAt = cutoff
	return s.sweepCount, nil
}

type stubArticleLoader struct {
	articles map[uuid.UUID]*models.Article
}

func (s *stubArticleLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	article, ok := s.articles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return article, nil
}

func (s *stubArticleLoader) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Article, error) {
	return s.articles, nil
}

func newTestCartService(t *testing.T, repo CartRepository, articles articleLoader) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Articles: articles,
		Now:      func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected a typed error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestService_AddItem(t *testing.T) {
	customerID := uuid.New()
	articleID := uuid.New()
	price := decimal.NewFromInt(20)

	repo := &stubCartRepo{
		items: []models.CartItem{{CustomerID: customerID, ArticleID: articleID, Quantity: 3}},
	}
	loader := &stubArticleLoader{articles: map[uuid.UUID]*models.Article{
		articleID: {ID: articleID, Name: "Kettle", Price: price},
	}}
	svc := newTestCartService(t, repo, loader)

	cart, err := svc.AddItem(context.Background(), auth.Access{CustomerID: customerID}, customerID, articleID, 3)
	require.NoError(t, err)
	require.NotNil(t, repo.lastUpsert)
	assert.Equal(t, 3, repo.lastUpsert.Quantity)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), repo.upsertAt)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Kettle", cart.Items[0].ArticleName)
	assert.True(t, cart.Total.Equal(decimal.NewFromInt(60)))
}

func TestService_AddItem_UnknownArticle(t *testing.T) {
	customerID := uuid.New()
	svc := newTestCartService(t, &stubCartRepo{}, &stubArticleLoader{})

	_, err := svc.AddItem(context.Background(), auth.Access{CustomerID: customerID}, customerID, uuid.New(), 1)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestService_AddItem_DiscontinuedArticle(t *testing.T) {
	customerID := uuid.New()
	articleID := uuid.New()
	loader := &stubArticleLoader{articles: map[uuid.UUID]*models.Article{
		articleID: {ID: articleID, Name: "Kettle", Discontinued: true},
	}}
	svc := newTestCartService(t, &stubCartRepo{}, loader)

	_, err := svc.AddItem(context.Background(), auth.Access{CustomerID: customerID}, customerID, articleID, 1)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestService_AddItem_InvalidQuantity(t *testing.T) {
	customerID := uuid.New()
	svc := newTestCartService(t, &stubCartRepo{}, &stubArticleLoader{})

	_, err := svc.AddItem(context.Background(), auth.Access{CustomerID: customerID}, customerID, uuid.New(), 0)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestService_AddItem_ForbiddenForOtherCustomer(t *testing.T) {
	svc := newTestCartService(t, &stubCartRepo{}, &stubArticleLoader{})

	_, err := svc.AddItem(context.Background(), auth.Access{CustomerID: uuid.New()}, uuid.New(), uuid.New(), 1)
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestService_RemoveItem_NotInCart(t *testing.T) {
	customerID := uuid.New()
	svc := newTestCartService(t, &stubCartRepo{removed: 0}, &stubArticleLoader{})

	err := svc.RemoveItem(context.Background(), auth.Access{CustomerID: customerID}, customerID, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestService_SweepStale(t *testing.T) {
	repo := &stubCartRepo{sweepCount: 7}
	svc := newTestCartService(t, repo, &stubArticleLoader{})

	cutoff := time.Date(2025, 5, 2, 12, 0, 0, 0, time.UTC)
	deleted, err := svc.SweepStale(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
	assert.True(t, repo.sweepAt.Equal(cutoff))
}
