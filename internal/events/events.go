package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/beyzasenay/mini-crm/internal/domain"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

type OrderCreatedEvent struct {
	EventID     string             `json:"event_id"`
	Type        string             `json:"type"`
	OrderID     uint               `json:"order_id"`
	CustomerID  *uint              `json:"customer_id"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Items       []domain.OrderItem `json:"items"`
	Status      string             `json:"status"`
	Timestamp   time.Time          `json:"timestamp"`
}

type OrderStatusChangedEvent struct {
	EventID   string    `json:"event_id"`
	Type      string    `json:"type"`
	OrderID   uint      `json:"order_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
