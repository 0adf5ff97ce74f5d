package models

import "time"

// CartLine is one product in a user's cart. A user holds at most one line
// per product.
type CartLine struct {
	UserID    string    `json:"userId" gorm:"primaryKey;type:varchar(191)"`
	ProductID uint      `json:"productId" gorm:"primaryKey;autoIncrement:false"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Product   Product   `json:"product" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WishlistItem marks a product as saved by a user.
type WishlistItem struct {
	UserID    string    `json:"userId" gorm:"primaryKey;type:varchar(191)"`
	ProductID uint      `json:"productId" gorm:"primaryKey;autoIncrement:false"`
	Product   Product   `json:"product" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
}

// Section is a promotional tile on the storefront home page.
type Section struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Image       string    `json:"image" gorm:"type:text"`
	Link        string    `json:"link" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// All returns every persisted model, in migration order.
func All() []any {
	return []any{&Product{}, &CartLine{}, &WishlistItem{}, &Order{}, &OrderItem{}, &Section{}}
}
