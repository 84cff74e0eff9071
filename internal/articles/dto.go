package articles

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/webshopkit/webshop-backend/pkg/db/models"
)

// CreateArticleInput captures a new catalog item.
type CreateArticleInput struct {
	Name     string
	Category string
	Price    decimal.Decimal
}

// UpdateArticleInput is a partial article mutation; nil fields stay as-is.
type UpdateArticleInput struct {
	Name     *string
	Category *string
	Price    *decimal.Decimal
}

// ArticleDTO is the outward shape of a catalog item.
type ArticleDTO struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Discontinued bool            `json:"discontinued"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToDTO maps an article model to its outward shape.
func ToDTO(article *models.Article) *ArticleDTO {
	if article == nil {
		return nil
	}
	return &ArticleDTO{
		ID:           article.ID,
		Name:         article.Name,
		Category:     article.Category,
		Price:        article.Price,
		Discontinued: article.Discontinued,
		CreatedAt:    article.CreatedAt,
		UpdatedAt:    article.UpdatedAt,
	}
}
