package models

import (
	dbtypes "github.com/angelmondragon/kurvfo/pkg/db/types"
)

// Deal is a historical or current offer for one product at one store. Only the
// columns needed for price history are mapped.
type Deal struct {
	ID              string       `gorm:"column:id;primaryKey"`
	ProductID       string       `gorm:"column:product_id;index"`
	StoreID         string       `gorm:"column:store_id"`
	Price           float64      `gorm:"column:price"`
	OriginalPrice   *float64     `gorm:"column:original_price"`
	DiscountPercent *float64     `gorm:"column:discount_percent"`
	ValidFrom       dbtypes.Date `gorm:"column:valid_from"`
	ValidTo         dbtypes.Date `gorm:"column:valid_to"`
}

func (Deal) TableName() string { return "deals" }
