package models

// Store is a participating retail chain as published by the deal source.
type Store struct {
	ID       string  `gorm:"column:id;primaryKey"`
	Slug     string  `gorm:"column:slug;not null"`
	Name     string  `gorm:"column:name;not null"`
	Color    *string `gorm:"column:color"`
	IsActive bool    `gorm:"column:is_active;not null;default:true"`
}

func (Store) TableName() string { return "stores" }
