package customers

import (
	"context"

	"github.com/webshopkit/webshop-backend/pkg/db/models"
	"github.com/webshopkit/webshop-backend/pkg/logger"
)

// Notifier is told about customer lifecycle events after they are committed.
// Implementations must not fail registration: errors are logged, not returned.
type Notifier interface {
	CustomerRegistered(ctx context.Context, customer *models.Customer)
	CustomerDeleted(ctx context.Context, customer *models.Customer)
}

// LogNotifier is the default Notifier. It stands in for the outbound mail
// integration and records the events that would trigger a welcome or goodbye
// message.
type LogNotifier struct {
	logg *logger.Logger
}

// NewLogNotifier builds a log-backed notifier.
func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

func (n *LogNotifier) CustomerRegistered(ctx context.Context, customer *models.Customer) {
	if n.logg == nil || customer == nil {
		return
	}
	ctx = n.logg.WithFields(ctx, map[string]any{
		"customer_id": customer.ID.String(),
		"email":       customer.Email,
		"kind":        customer.Kind.String(),
	})
	n.logg.Info(ctx, "customer registered, welcome mail queued")
}

func (n *LogNotifier) CustomerDeleted(ctx context.Context, customer *models.Customer) {
	if n.logg == nil || customer == nil {
		return
	}
	ctx = n.logg.WithFields(ctx, map[string]any{
		"customer_id": customer.ID.String(),
		"email":       customer.Email,
	})
	n.logg.Info(ctx, "customer account removed")
}
