package catalog

import (
	"context"

	"github.com/angelmondragon/kurvfo/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads the deal source through GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ActiveDeals lists the active_deals view, highest discount first.
func (r *Repository) ActiveDeals(ctx context.Context) ([]Deal, error) {
	var rows []models.ActiveDeal
	if err := r.db.WithContext(ctx).
		Order("discount_percent DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Deal, 0, len(rows))
	for _, row := range rows {
		out = append(out, dealFromModel(row))
	}
	return out, nil
}

// ActiveStores lists stores flagged active.
func (r *Repository) ActiveStores(ctx context.Context) ([]Store, error) {
	var rows []models.Store
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Store, 0, len(rows))
	for _, row := range rows {
		out = append(out, storeFromModel(row))
	}
	return out, nil
}

// PriceHistory returns up to limit offers for productID, newest first.
func (r *Repository) PriceHistory(ctx context.Context, productID string, limit int) ([]PriceRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	var rows []models.Deal
	if err := r.db.WithContext(ctx).
		Select("price", "original_price", "discount_percent", "valid_from", "valid_to").
		Where("product_id = ?", productID).
		Order("valid_from DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]PriceRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, priceRecordFromModel(row))
	}
	return out, nil
}
