package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/ordering"
)

// OrderModel is the persistence model for the Order aggregate
type OrderModel struct {
	BaseModel
	BuyerID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	TotalAmount decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Status      ordering.OrderStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	CanceledAt  *time.Time
	Items       []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for an order line item.
// SellerID is denormalized from the product at order time so the
// messaging guard never depends on later catalog changes.
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	SellerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Position  int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *ordering.Order {
	items := make([]ordering.OrderItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = ordering.OrderItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			SellerID:  item.SellerID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		}
	}
	return &ordering.Order{
		BaseAggregateRoot: m.aggregateBase(),
		BuyerID:           m.BuyerID,
		Items:             items,
		TotalAmount:       m.TotalAmount,
		Status:            m.Status,
		CanceledAt:        m.CanceledAt,
	}
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.BuyerID = o.BuyerID
	m.TotalAmount = o.TotalAmount
	m.Status = o.Status
	m.CanceledAt = o.CanceledAt
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = OrderItemModel{
			ID:        item.ID,
			OrderID:   o.ID,
			ProductID: item.ProductID,
			SellerID:  item.SellerID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
			Position:  i,
		}
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
