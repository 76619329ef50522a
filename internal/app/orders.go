package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
	apperrors "github.com/CelestynPark/PenArt-Reservation/internal/errors"
	"github.com/CelestynPark/PenArt-Reservation/internal/metrics"
)

// CreateOrderInput carries a bank-transfer checkout request for one goods.
type CreateOrderInput struct {
	CustomerID *uuid.UUID
	GoodsID    uuid.UUID
	Quantity   int
	Buyer      domain.Buyer
	Memo       string
}

// CreateOrder creates a bank-transfer order. Under the "hold" inventory
// policy the stock reservation and the order insert share one database
// transaction; under "deduct_on_paid" stock is only checked here and
// decremented when the order is marked paid.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if in.Quantity <= 0 {
		return nil, apperrors.Validation("quantity must be positive")
	}
	if in.Buyer.Name == "" || in.Buyer.Phone == "" {
		return nil, apperrors.Validation("buyer name and phone are required")
	}

	studio, err := s.studio.Get(ctx)
	if err != nil {
		return nil, err
	}

	g, err := s.goods.GetByID(ctx, in.GoodsID)
	if err != nil {
		return nil, err
	}
	if g.Status != domain.GoodsActive {
		return nil, apperrors.Conflict("item is not for sale: " + g.Slug)
	}

	policy := domain.InventoryPolicy(s.cfg.InventoryPolicy)
	now := s.clock.Now()

	order := &domain.Order{
		Code:       humanCode("ORD", now),
		CustomerID: in.CustomerID,
		GoodsID:    g.ID,
		GoodsSnapshot: domain.GoodsSnapshot{
			Slug:      g.Slug,
			NameI18n:  g.NameI18n,
			UnitPrice: g.Price,
		},
		Quantity: in.Quantity,
		Total:    domain.Money{Amount: g.Price.Amount * int64(in.Quantity), Currency: domain.CurrencyKRW},
		Status:   domain.OrderCreated,
		Method:   domain.OrderMethodBankTransfer,
		Buyer:    in.Buyer,
		Bank: domain.BankSnapshot{
			BankName:      studio.Bank.BankName,
			AccountNumber: studio.Bank.AccountNumber,
			Holder:        studio.Bank.Holder,
		},
		Memo:      in.Memo,
		ExpiresAt: now.Add(time.Duration(s.cfg.OrderExpireHours) * time.Hour).UTC(),
		History: []domain.HistoryEntry{{
			At: now.UTC(), By: in.Buyer.Name, From: "", To: string(domain.OrderCreated),
		}},
	}

	var created *domain.Order
	switch policy {
	case domain.InventoryHold:
		created, err = s.orders.CreateWithStockHold(ctx, order)
		if errors.Is(err, domain.ErrInsufficientStock) {
			return nil, apperrors.Conflict("insufficient stock: " + g.Slug)
		}
		if err != nil {
			return nil, err
		}
		metrics.StockAdjustmentsTotal.WithLabelValues("hold").Inc()
	default:
		if g.Stock < in.Quantity {
			return nil, apperrors.Conflict("insufficient stock: " + g.Slug)
		}
		created, err = s.orders.Create(ctx, order)
		if err != nil {
			return nil, err
		}
	}

	metrics.OrdersCreatedTotal.Inc()
	slog.Info("order created", "order_code", created.Code, "total", created.Total.Amount, "quantity", created.Quantity)
	return created, nil
}

// GetOrder returns an order, enforcing ownership for non-admin callers.
// Orders placed without an account are only reachable by code lookup.
func (s *Service) GetOrder(ctx context.Context, orderID uuid.UUID, actor *domain.User) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor != nil && actor.Role != domain.RoleAdmin {
		if o.CustomerID == nil || *o.CustomerID != actor.ID {
			return nil, apperrors.Forbidden("not your order")
		}
	}
	return o, nil
}

// GetOrderByCode is the guest lookup path.
func (s *Service) GetOrderByCode(ctx context.Context, code string) (*domain.Order, error) {
	return s.orders.GetByCode(ctx, code)
}

// ListMyOrders returns the customer's orders, newest first.
func (s *Service) ListMyOrders(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Order, int, error) {
	return s.orders.ListByCustomer(ctx, customerID, p)
}

// SubmitDeposit records the depositor name and moves the order to
// awaiting_deposit. Submitting again just updates the name.
func (s *Service) SubmitDeposit(ctx context.Context, orderID uuid.UUID, actor *domain.User, depositorName string) (*domain.Order, error) {
	if depositorName == "" {
		return nil, apperrors.Validation("depositor name is required")
	}

	o, err := s.GetOrder(ctx, orderID, actor)
	if err != nil {
		return nil, err
	}

	switch o.Status {
	case domain.OrderCreated:
		by := o.Buyer.Name
		if actor != nil {
			by = actor.ID.String()
		}
		o, err = s.orders.UpdateStatus(ctx, o.ID, domain.OrderCreated, domain.OrderAwaitingDeposit, domain.HistoryEntry{
			At: s.clock.Now().UTC(), By: by, From: string(domain.OrderCreated), To: string(domain.OrderAwaitingDeposit),
		})
		if err != nil && !errors.Is(err, domain.ErrStatusChanged) {
			return nil, err
		}
		metrics.OrderTransitionsTotal.WithLabelValues(string(domain.OrderAwaitingDeposit)).Inc()
	case domain.OrderAwaitingDeposit:
		// Re-submission only refreshes the name.
	default:
		return nil, apperrors.Conflict("order is not awaiting payment")
	}

	if err := s.orders.SetDepositorName(ctx, orderID, depositorName); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, orderID)
}

// AttachOrderReceipt stores the uploaded transfer receipt on an unpaid order.
func (s *Service) AttachOrderReceipt(ctx context.Context, orderID uuid.UUID, actor *domain.User, image string) (*domain.Order, error) {
	if image == "" {
		return nil, apperrors.Validation("receipt image is required")
	}

	o, err := s.GetOrder(ctx, orderID, actor)
	if err != nil {
		return nil, err
	}
	if o.Status.Terminal() && o.Status != domain.OrderPaid {
		return nil, apperrors.Conflict("order is no longer active")
	}

	by := o.Buyer.Name
	if actor != nil {
		by = actor.ID.String()
	}
	return s.orders.AttachReceipt(ctx, o.ID, image, domain.HistoryEntry{
		At: s.clock.Now().UTC(), By: by, From: string(o.Status), To: string(o.Status), Reason: "attach_receipt",
	})
}

// MarkOrderPaid is the admin confirmation of a bank transfer. Marking a paid
// order paid again is an idempotent no-op. Under deduct_on_paid the stock is
// decremented here.
func (s *Service) MarkOrderPaid(ctx context.Context, orderID uuid.UUID, actor *domain.User) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == domain.OrderPaid {
		return o, nil
	}
	if !o.Status.CanTransition(domain.OrderPaid) {
		return nil, apperrors.Conflict("order cannot be marked paid from " + string(o.Status))
	}

	if domain.InventoryPolicy(s.cfg.InventoryPolicy) == domain.InventoryDeductOnPaid {
		if _, err := s.goods.AdjustStock(ctx, o.GoodsID, -o.Quantity); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil, apperrors.Conflict("insufficient stock to fulfill order")
			}
			return nil, err
		}
		metrics.StockAdjustmentsTotal.WithLabelValues("deduct").Inc()
	}

	by := "system"
	var actorID *uuid.UUID
	if actor != nil {
		by = actor.ID.String()
		actorID = &actor.ID
	}
	updated, err := s.orders.UpdateStatus(ctx, o.ID, o.Status, domain.OrderPaid, domain.HistoryEntry{
		At: s.clock.Now().UTC(), By: by, From: string(o.Status), To: string(domain.OrderPaid),
	})
	if err != nil {
		if domain.InventoryPolicy(s.cfg.InventoryPolicy) == domain.InventoryDeductOnPaid {
			if _, rbErr := s.goods.AdjustStock(ctx, o.GoodsID, o.Quantity); rbErr != nil {
				slog.Error("failed to roll back stock deduction", "order_code", o.Code, "goods_id", o.GoodsID, "error", rbErr)
			}
		}
		if errors.Is(err, domain.ErrStatusChanged) {
			current, gerr := s.orders.GetByID(ctx, o.ID)
			if gerr == nil && current.Status == domain.OrderPaid {
				return current, nil
			}
			return nil, apperrors.Conflict("order status changed concurrently")
		}
		return nil, err
	}

	if actorID != nil {
		if err := s.recordAudit(ctx, actorID, "order.paid", "order", o.ID.String(), map[string]any{"code": o.Code}); err != nil {
			return nil, err
		}
	}

	metrics.OrderTransitionsTotal.WithLabelValues(string(domain.OrderPaid)).Inc()
	return updated, nil
}

// CancelOrder cancels an unpaid order, releasing held stock. Canceling an
// already canceled order is an idempotent no-op.
func (s *Service) CancelOrder(ctx context.Context, orderID uuid.UUID, actor *domain.User, reason string) (*domain.Order, error) {
	o, err := s.GetOrder(ctx, orderID, actor)
	if err != nil {
		return nil, err
	}
	if o.Status == domain.OrderCanceled {
		return o, nil
	}
	if !o.Status.CanTransition(domain.OrderCanceled) {
		return nil, apperrors.Conflict("order can no longer be canceled")
	}

	by := o.Buyer.Name
	if actor != nil {
		by = actor.ID.String()
	}
	updated, err := s.orders.UpdateStatus(ctx, o.ID, o.Status, domain.OrderCanceled, domain.HistoryEntry{
		At: s.clock.Now().UTC(), By: by, From: string(o.Status), To: string(domain.OrderCanceled), Reason: reason,
	})
	if errors.Is(err, domain.ErrStatusChanged) {
		current, gerr := s.orders.GetByID(ctx, o.ID)
		if gerr == nil && current.Status == domain.OrderCanceled {
			return current, nil
		}
		return nil, apperrors.Conflict("order status changed concurrently")
	}
	if err != nil {
		return nil, err
	}

	s.restoreHeldStock(ctx, updated)
	metrics.OrderTransitionsTotal.WithLabelValues(string(domain.OrderCanceled)).Inc()
	return updated, nil
}

// restoreHeldStock returns reserved stock after a cancel or expiry under the
// hold policy. Under deduct_on_paid nothing was taken yet.
func (s *Service) restoreHeldStock(ctx context.Context, o *domain.Order) {
	if domain.InventoryPolicy(s.cfg.InventoryPolicy) != domain.InventoryHold {
		return
	}
	if _, err := s.goods.AdjustStock(ctx, o.GoodsID, o.Quantity); err != nil {
		slog.Error("failed to restore stock", "order_code", o.Code, "goods_id", o.GoodsID, "error", err)
		return
	}
	metrics.StockAdjustmentsTotal.WithLabelValues("restore").Inc()
}

// ExpireOrders transitions overdue unpaid orders to expired and releases held
// stock. Called by the scheduler; safe to run concurrently thanks to the CAS
// transition.
func (s *Service) ExpireOrders(ctx context.Context) (int, error) {
	overdue, err := s.orders.ListExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, o := range overdue {
		updated, err := s.orders.UpdateStatus(ctx, o.ID, o.Status, domain.OrderExpired, domain.HistoryEntry{
			At: s.clock.Now().UTC(), By: "system", From: string(o.Status), To: string(domain.OrderExpired), Reason: "payment window elapsed",
		})
		if errors.Is(err, domain.ErrStatusChanged) {
			continue
		}
		if err != nil {
			slog.Error("failed to expire order", "order_code", o.Code, "error", err)
			continue
		}
		s.restoreHeldStock(ctx, updated)
		metrics.OrderTransitionsTotal.WithLabelValues(string(domain.OrderExpired)).Inc()
		expired++
	}
	return expired, nil
}
