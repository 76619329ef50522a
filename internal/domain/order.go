package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of a bank-transfer order.
type OrderStatus string

const (
	OrderCreated         OrderStatus = "created"
	OrderAwaitingDeposit OrderStatus = "awaiting_deposit"
	OrderPaid            OrderStatus = "paid"
	OrderCanceled        OrderStatus = "canceled"
	OrderExpired         OrderStatus = "expired"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderCreated, OrderAwaitingDeposit, OrderPaid, OrderCanceled, OrderExpired:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderPaid, OrderCanceled, OrderExpired:
		return true
	}
	return false
}

// CanTransition reports whether s -> to is an allowed edge.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	switch s {
	case OrderCreated:
		return to == OrderAwaitingDeposit || to == OrderPaid || to == OrderCanceled || to == OrderExpired
	case OrderAwaitingDeposit:
		return to == OrderPaid || to == OrderCanceled || to == OrderExpired
	}
	return false
}

// InventoryPolicy decides when stock is decremented for an order.
type InventoryPolicy string

const (
	// InventoryHold decrements stock at order creation and restores it on
	// cancel/expire.
	InventoryHold InventoryPolicy = "hold"
	// InventoryDeductOnPaid decrements stock only when the order is marked
	// paid.
	InventoryDeductOnPaid InventoryPolicy = "deduct_on_paid"
)

func (p InventoryPolicy) Valid() bool {
	return p == InventoryHold || p == InventoryDeductOnPaid
}

// OrderMethodBankTransfer is the only payment method the studio accepts.
const OrderMethodBankTransfer = "bank_transfer"

// GoodsSnapshot freezes the purchased goods at order creation so the order
// stays readable even after the goods record changes or disappears.
type GoodsSnapshot struct {
	Slug      string `json:"slug"`
	NameI18n  I18n   `json:"name_i18n"`
	UnitPrice Money  `json:"unit_price"`
}

// Buyer is the contact snapshot taken at order creation.
type Buyer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// BankSnapshot is the studio's transfer account copied onto the order so the
// customer always sees the account that was shown at checkout.
type BankSnapshot struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	Holder        string `json:"holder"`
}

// Order is a bank-transfer purchase of a single goods line.
type Order struct {
	ID            uuid.UUID
	Code          string
	CustomerID    *uuid.UUID
	GoodsID       uuid.UUID
	GoodsSnapshot GoodsSnapshot
	Quantity      int
	Total         Money
	Status        OrderStatus
	Method        string
	Buyer         Buyer
	Bank          BankSnapshot
	DepositorName string
	ReceiptImage  string
	Memo          string
	AdminMemo     string
	ExpiresAt     time.Time
	History       []HistoryEntry
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderFilter narrows admin listings.
type OrderFilter struct {
	Status     OrderStatus
	CustomerID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Query      string
}

// OrderRepository abstracts order persistence. UpdateStatus performs a
// compare-and-swap like BookingRepository.UpdateStatus. CreateWithStockHold
// decrements the goods stock and inserts the order in one transaction, so a
// crash between the two cannot leak held stock.
type OrderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByCode(ctx context.Context, code string) (*Order, error)
	Create(ctx context.Context, o *Order) (*Order, error)
	CreateWithStockHold(ctx context.Context, o *Order) (*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to OrderStatus, entry HistoryEntry) (*Order, error)
	SetDepositorName(ctx context.Context, id uuid.UUID, name string) error
	AttachReceipt(ctx context.Context, id uuid.UUID, image string, entry HistoryEntry) (*Order, error)
	UpdateAdminMemo(ctx context.Context, id uuid.UUID, memo string) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, p Pagination) ([]Order, int, error)
	List(ctx context.Context, f OrderFilter, p Pagination) ([]Order, int, error)
	ListExpired(ctx context.Context, now time.Time) ([]Order, error)
}
