package models

import "time"

// WishlistGameURLConstraint names the unique constraint on game_url.
const WishlistGameURLConstraint = "wishlist_items_game_url_key"

// WishlistItem is a game the user wants to keep track of.
type WishlistItem struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Title     string    `gorm:"column:title;not null"`
	Platform  string    `gorm:"column:platform;not null"`
	Thumbnail string    `gorm:"column:thumbnail;not null"`
	GameURL   string    `gorm:"column:game_url;not null;uniqueIndex:wishlist_items_game_url_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
