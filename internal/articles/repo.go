package articles

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/webshopkit/webshop-backend/pkg/db/models"
)

// Repository handles article persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an articles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new article.
func (r *Repository) Create(ctx context.Context, article *models.Article) error {
	if article == nil {
		return fmt.Errorf("article is required")
	}
	return r.db.WithContext(ctx).Create(article).Error
}

// FindByID loads an article by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).First(&article, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// FindByIDs loads the given articles keyed by ID. Missing IDs are simply
// absent from the result.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Article, error) {
	out := make(map[uuid.UUID]*models.Article, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []models.Article
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

// Search returns live articles matching the optional name prefix and
// category.
func (r *Repository) Search(ctx context.Context, namePrefix, category string) ([]models.Article, error) {
	q := r.db.WithContext(ctx).Where("discontinued = ?", false)
	if strings.TrimSpace(namePrefix) != "" {
		q = q.Where("name LIKE ?", namePrefix+"%")
	}
	if strings.TrimSpace(category) != "" {
		q = q.Where("category = ?", category)
	}

	var rows []models.Article
	if err := q.Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the provided article.
func (r *Repository) Update(ctx context.Context, article *models.Article) error {
	if article == nil {
		return fmt.Errorf("article is required")
	}
	return r.db.WithContext(ctx).Save(article).Error
}

// Discontinue flags the article as no longer orderable without touching
// existing carts or orders.
func (r *Repository) Discontinue(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("id = ? AND discontinued = ?", id, false).
		Update("discontinued", true)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
