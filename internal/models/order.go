package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the fulfilment state of an order. The constants are the
// known vocabulary; other values are stored as given.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Known reports whether s is part of the known status vocabulary.
func (s OrderStatus) Known() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a line of an order. Title, price, quantity and image are
// copied from the product when the order is placed and never re-read.
type OrderItem struct {
	ID       string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID  string          `json:"orderId" gorm:"type:varchar(36);index;not null"`
	Title    string          `json:"title" gorm:"type:varchar(255);not null"`
	Price    decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Quantity int             `json:"quantity" gorm:"not null"`
	Image    *string         `json:"image,omitempty" gorm:"type:text"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// Order is a placed order with its item snapshots.
type Order struct {
	ID     string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID string          `json:"userId" gorm:"type:varchar(191);index;not null"`
	Date   time.Time       `json:"date" gorm:"index;not null"`
	Total  decimal.Decimal `json:"total" gorm:"type:numeric(10,2);not null"`
	Status OrderStatus     `json:"status" gorm:"type:varchar(32);not null"`
	Items  []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Date.IsZero() {
		o.Date = time.Now().UTC()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return nil
}

// OrderStats aggregates all stored orders.
type OrderStats struct {
	TotalOrders  int64           `json:"totalOrders"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}
