package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/webshopkit/webshop-backend/pkg/db/models"
)

// LineItemDTO is one snapshotted order position.
type LineItemDTO struct {
	ArticleID uuid.UUID       `json:"article_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderDTO is the outward shape of a placed order.
type OrderDTO struct {
	ID         uuid.UUID     `json:"id"`
	CustomerID uuid.UUID     `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
	LineItems  []LineItemDTO `json:"line_items"`
	Deliveries []DeliveryDTO `json:"deliveries,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// CreateDeliveryInput captures a new shipment and the orders it bundles.
type CreateDeliveryInput struct {
	DeliveryNumber string
	Carrier        string
	OrderIDs       []uuid.UUID
}

// DeliveryDTO is the outward shape of a shipment.
type DeliveryDTO struct {
	ID             uuid.UUID   `json:"id"`
	DeliveryNumber string      `json:"delivery_number"`
	Carrier        string      `json:"carrier"`
	OrderIDs       []uuid.UUID `json:"order_ids,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ToDTO maps an order model to its outward shape.
func ToDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		Total:      order.Total,
		LineItems:  make([]LineItemDTO, 0, len(order.LineItems)),
		CreatedAt:  order.CreatedAt,
	}
	for _, item := range order.LineItems {
		dto.LineItems = append(dto.LineItems, LineItemDTO{
			ArticleID: item.ArticleID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		})
	}
	for i := range order.Deliveries {
		dto.Deliveries = append(dto.Deliveries, *ToDeliveryDTO(&order.Deliveries[i]))
	}
	return dto
}

// ToDeliveryDTO maps a delivery model to its outward shape.
func ToDeliveryDTO(delivery *models.Delivery) *DeliveryDTO {
	if delivery == nil {
		return nil
	}
	dto := &DeliveryDTO{
		ID:             delivery.ID,
		DeliveryNumber: delivery.DeliveryNumber,
		Carrier:        delivery.Carrier,
		CreatedAt:      delivery.CreatedAt,
	}
	for _, order := range delivery.Orders {
		dto.OrderIDs = append(dto.OrderIDs, order.ID)
	}
	return dto
}
