package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/beyzasenay/mini-crm/internal/domain"
	"github.com/beyzasenay/mini-crm/internal/events"
	"github.com/beyzasenay/mini-crm/internal/repository"
)

const orderListLimit = 100

// OrderService orchestrates order creation: validate the payload, resolve the
// customer, price every line item against the current product price, then
// commit the order and all stock decrements as one transaction.
type OrderService struct {
	db        *gorm.DB
	orders    *repository.OrderRepository
	customers *repository.CustomerRepository
	products  *repository.ProductRepository
	stock     *ProductService
	publisher events.Publisher
	logger    *zap.Logger
}

func NewOrderService(
	db *gorm.DB,
	orders *repository.OrderRepository,
	customers *repository.CustomerRepository,
	products *repository.ProductRepository,
	stock *ProductService,
	publisher events.Publisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		db:        db,
		orders:    orders,
		customers: customers,
		products:  products,
		stock:     stock,
		publisher: publisher,
		logger:    logger,
	}
}

func validateOrderRequest(req domain.CreateOrderRequest) error {
	if req.CustomerID == nil && (req.GuestFirstName == "" || req.GuestEmail == "") {
		return &domain.ValidationError{Message: "Either customerId or (guestFirstName + guestEmail) is required"}
	}
	if len(req.Items) == 0 {
		return &domain.ValidationError{Message: "`items` array is required with at least one item"}
	}
	for _, item := range req.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return &domain.ValidationError{Message: "Each item must have productId and quantity > 0"}
		}
	}
	// The supplied total is otherwise ignored; the stored value is always
	// recomputed from the line items.
	if req.TotalAmount != nil && req.TotalAmount.IsNegative() {
		return &domain.ValidationError{Message: "`totalAmount` cannot be negative"}
	}
	return nil
}

// Create runs the three stages of the order workflow. The commit stage is a
// single database transaction: the order row, its line items and every stock
// decrement either all land or none do.
func (s *OrderService) Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	if req.CustomerID != nil {
		if _, err := s.customers.FindByID(ctx, *req.CustomerID); err != nil {
			return nil, err
		}
	}

	// Price the items and pre-check stock. The pre-check is advisory; the
	// transactional decrement below re-validates under the row lock.
	totalAmount := decimal.Zero
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product.IsStockTracking && product.Stock < item.Quantity {
			return nil, insufficientStock(product, item.Quantity)
		}

		totalAmount = totalAmount.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
		})
	}

	s.logger.Info("creating order",
		zap.Any("customer_id", req.CustomerID),
		zap.String("guest_email", req.GuestEmail),
		zap.Int("item_count", len(req.Items)))

	order := &domain.Order{
		CustomerID:     req.CustomerID,
		GuestFirstName: req.GuestFirstName,
		GuestLastName:  req.GuestLastName,
		GuestPhone:     req.GuestPhone,
		GuestEmail:     req.GuestEmail,
		Status:         domain.OrderStatusPending,
		TotalAmount:    totalAmount,
		Notes:          req.Notes,
		Items:          items,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		for _, item := range req.Items {
			if _, err := s.stock.DecreaseStockTx(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("stock reservation failed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("order creation rolled back", zap.Error(err))
		return nil, err
	}

	s.publishCreated(ctx, order)
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	return s.orders.FindAll(ctx, filter, orderListLimit)
}

// UpdateStatus overwrites the order status. Membership in the status enum is
// checked before existence, so an invalid status fails with a validation
// error regardless of the order id. Transitions are deliberately
// unrestricted: any status may move to any other.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*domain.Order, error) {
	next := domain.OrderStatus(status)
	if !next.Valid() {
		names := make([]string, len(domain.OrderStatuses))
		for i, s := range domain.OrderStatuses {
			names[i] = string(s)
		}
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("Invalid status. Must be one of: %s", strings.Join(names, ", ")),
		}
	}

	if err := s.orders.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("updated order status", zap.Uint("id", id), zap.String("status", status))
	s.publishStatusChanged(ctx, order)
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, id uint) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted order", zap.Uint("id", id))
	return nil
}

func (s *OrderService) publishCreated(ctx context.Context, order *domain.Order) {
	if s.publisher == nil {
		return
	}
	event := events.OrderCreatedEvent{
		EventID:     uuid.New().String(),
		Type:        events.TypeOrderCreated,
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount,
		Items:       order.Items,
		Status:      string(order.Status),
		Timestamp:   time.Now(),
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("failed to publish order created event",
			zap.Uint("order_id", order.ID),
			zap.Error(err))
	}
}

func (s *OrderService) publishStatusChanged(ctx context.Context, order *domain.Order) {
	if s.publisher == nil {
		return
	}
	event := events.OrderStatusChangedEvent{
		EventID:   uuid.New().String(),
		Type:      events.TypeOrderStatusChanged,
		OrderID:   order.ID,
		Status:    string(order.Status),
		Timestamp: time.Now(),
	}
	if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("failed to publish status change event",
			zap.Uint("order_id", order.ID),
			zap.Error(err))
	}
}
