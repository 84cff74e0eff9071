package orders

import (
	"context"

	"github.com/webshopkit/webshop-backend/pkg/db/models"
	"github.com/webshopkit/webshop-backend/pkg/logger"
)

// Notifier is told about a placed order after the checkout transaction
// committed. Implementations must not fail checkout: errors are logged, not
// returned.
type Notifier interface {
	OrderCreated(ctx context.Context, order *models.Order)
}

// LogNotifier is the default Notifier. It stands in for the outbound mail
// integration and records the event that would trigger an order confirmation.
type LogNotifier struct {
	logg *logger.Logger
}

// NewLogNotifier builds a log-backed notifier.
func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

func (n *LogNotifier) OrderCreated(ctx context.Context, order *models.Order) {
	if n.logg == nil || order == nil {
		return
	}
	ctx = n.logg.WithFields(ctx, map[string]any{
		"order_id":    order.ID.String(),
		"customer_id": order.CustomerID.String(),
		"total":       order.Total.String(),
		"line_items":  len(order.LineItems),
	})
	n.logg.Info(ctx, "order placed, confirmation mail queued")
}
