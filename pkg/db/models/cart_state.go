package models

import "time"

// CartState holds the serialized shopping list stored under one well-known key.
type CartState struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Payload   string    `gorm:"column:payload;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartState) TableName() string { return "cart_states" }
