package carts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/webshopkit/webshop-backend/pkg/db/models"
)

// CartItemDTO is one cart line enriched with the current article data.
type CartItemDTO struct {
	ArticleID   uuid.UUID       `json:"article_id"`
	ArticleName string          `json:"article_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CartDTO is a customer's full cart with the running total.
type CartDTO struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	Items      []CartItemDTO   `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

func toCartDTO(customerID uuid.UUID, items []models.CartItem, articles map[uuid.UUID]*models.Article) *CartDTO {
	dto := &CartDTO{
		CustomerID: customerID,
		Items:      make([]CartItemDTO, 0, len(items)),
		Total:      decimal.Zero,
	}
	for _, item := range items {
		line := CartItemDTO{
			ArticleID: item.ArticleID,
			Quantity:  item.Quantity,
			UpdatedAt: item.UpdatedAt,
		}
		if article, ok := articles[item.ArticleID]; ok && article != nil {
			line.ArticleName = article.Name
			line.UnitPrice = article.Price
			line.LineTotal = article.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		dto.Items = append(dto.Items, line)
		dto.Total = dto.Total.Add(line.LineTotal)
	}
	return dto
}
