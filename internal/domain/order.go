package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusCompleted  OrderStatus = "completed"
)

// OrderStatuses lists every accepted status, in the order they are reported
// back to callers on validation failures.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusCancelled,
	OrderStatusCompleted,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Order references Customer by id; a nil CustomerID marks a guest order
// identified by the guest contact fields. TotalAmount and the line items are
// a snapshot taken at creation time and are never recomputed.
type Order struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	CustomerID     *uint           `json:"customerId"`
	Customer       *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	GuestFirstName string          `gorm:"size:100" json:"guestFirstName"`
	GuestLastName  string          `gorm:"size:100" json:"guestLastName"`
	GuestPhone     string          `gorm:"size:32" json:"guestPhone"`
	GuestEmail     string          `gorm:"size:255" json:"guestEmail"`
	Status         OrderStatus     `gorm:"size:16;not null;default:pending" json:"status"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	Notes          string          `gorm:"size:1000" json:"notes"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is a line item priced at order-creation time. ProductName and
// UnitPrice are snapshots; later product changes do not touch them.
type OrderItem struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	OrderID     uint            `gorm:"index;not null" json:"orderId"`
	ProductID   uint            `gorm:"not null" json:"productId"`
	ProductName string          `gorm:"size:255" json:"productName"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

type OrderItemRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// CreateOrderRequest accepts either a CustomerID or guest contact fields.
// TotalAmount is validated for sign when supplied but the stored total is
// always recomputed from the items. Status is ignored; new orders are pending.
type CreateOrderRequest struct {
	CustomerID     *uint              `json:"customerId"`
	GuestFirstName string             `json:"guestFirstName"`
	GuestLastName  string             `json:"guestLastName"`
	GuestPhone     string             `json:"guestPhone"`
	GuestEmail     string             `json:"guestEmail"`
	Items          []OrderItemRequest `json:"items"`
	TotalAmount    *decimal.Decimal   `json:"totalAmount"`
	Notes          string             `json:"notes"`
	Status         string             `json:"status"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status     string
	CustomerID *uint
}
