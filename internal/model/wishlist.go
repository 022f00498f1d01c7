package model

import "time"

// Wishlist 心愿单项。复合唯一键 ux_wishlist = (user_id, product_id)
type Wishlist struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"-" gorm:"index;uniqueIndex:ux_wishlist;not null"`
	ProductID uint      `json:"product_id" gorm:"uniqueIndex:ux_wishlist;not null"`
	Product   Product   `json:"product" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `json:"created_at"`
}

func (Wishlist) TableName() string { return "wishlists" }
