package models

import (
	dbtypes "github.com/angelmondragon/kurvfo/pkg/db/types"
)

// ActiveDeal is one row of the active_deals view: a deal joined with its
// product and store, restricted to offers valid today.
type ActiveDeal struct {
	DealID          string       `gorm:"column:deal_id;primaryKey"`
	ProductID       string       `gorm:"column:product_id"`
	ProductName     string       `gorm:"column:product_name"`
	StoreID         string       `gorm:"column:store_id"`
	StoreSlug       *string      `gorm:"column:store_slug"`
	StoreName       *string      `gorm:"column:store_name"`
	StoreColor      *string      `gorm:"column:store_color"`
	Category        *string      `gorm:"column:category"`
	Price           float64      `gorm:"column:price"`
	OriginalPrice   *float64     `gorm:"column:original_price"`
	DiscountPercent *float64     `gorm:"column:discount_percent"`
	Savings         *float64     `gorm:"column:savings"`
	UnitPrice       *float64     `gorm:"column:unit_price"`
	Unit            *string      `gorm:"column:unit"`
	ValidFrom       dbtypes.Date `gorm:"column:valid_from"`
	ValidTo         dbtypes.Date `gorm:"column:valid_to"`
	TimesOnSale     *int         `gorm:"column:times_on_sale"`
	DisplayImageURL *string      `gorm:"column:display_image_url"`
	FlyerSectionURL *string      `gorm:"column:flyer_section_url"`
	DealImageURL    *string      `gorm:"column:deal_image_url"`
}

func (ActiveDeal) TableName() string { return "active_deals" }
