package catalog

import (
	"strings"

	"github.com/angelmondragon/kurvfo/pkg/db/models"
)

// Deal is one active promotional offer joined with its product and store.
type Deal struct {
	DealID          string   `json:"deal_id"`
	ProductID       string   `json:"product_id"`
	ProductName     string   `json:"product_name"`
	StoreID         string   `json:"store_id"`
	StoreSlug       string   `json:"store_slug"`
	StoreName       string   `json:"store_name"`
	StoreColor      *string  `json:"store_color"`
	Category        *string  `json:"category"`
	Price           float64  `json:"price"`
	OriginalPrice   *float64 `json:"original_price"`
	DiscountPercent *float64 `json:"discount_percent"`
	Savings         *float64 `json:"savings"`
	UnitPrice       *float64 `json:"unit_price"`
	Unit            *string  `json:"unit"`
	ValidFrom       string   `json:"valid_from"`
	ValidTo         string   `json:"valid_to"`
	TimesOnSale     int      `json:"times_on_sale"`
	DisplayImageURL *string  `json:"display_image_url"`
	FlyerSectionURL *string  `json:"flyer_section_url"`
	DealImageURL    *string  `json:"deal_image_url"`
}

// Store is a participating chain.
type Store struct {
	ID       string  `json:"id"`
	Slug     string  `json:"slug"`
	Name     string  `json:"name"`
	Color    *string `json:"color"`
	IsActive bool    `json:"is_active"`
}

// PriceRecord is one past or current offer for a product.
type PriceRecord struct {
	Price           float64  `json:"price"`
	OriginalPrice   *float64 `json:"original_price"`
	DiscountPercent *float64 `json:"discount_percent"`
	ValidFrom       string   `json:"valid_from"`
	ValidTo         string   `json:"valid_to"`
}

// CategoryName returns the trimmed category, or "" when absent.
func (d Deal) CategoryName() string {
	if d.Category == nil {
		return ""
	}
	return strings.TrimSpace(*d.Category)
}

func discountOf(d Deal) float64 {
	return valueOr(d.DiscountPercent, 0)
}

func savingsOf(d Deal) float64 {
	return valueOr(d.Savings, 0)
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func stringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func dealFromModel(m models.ActiveDeal) Deal {
	timesOnSale := 0
	if m.TimesOnSale != nil && *m.TimesOnSale > 0 {
		timesOnSale = *m.TimesOnSale
	}
	return Deal{
		DealID:          m.DealID,
		ProductID:       m.ProductID,
		ProductName:     m.ProductName,
		StoreID:         m.StoreID,
		StoreSlug:       stringOr(m.StoreSlug, ""),
		StoreName:       stringOr(m.StoreName, ""),
		StoreColor:      m.StoreColor,
		Category:        m.Category,
		Price:           m.Price,
		OriginalPrice:   m.OriginalPrice,
		DiscountPercent: m.DiscountPercent,
		Savings:         m.Savings,
		UnitPrice:       m.UnitPrice,
		Unit:            m.Unit,
		ValidFrom:       m.ValidFrom.String(),
		ValidTo:         m.ValidTo.String(),
		TimesOnSale:     timesOnSale,
		DisplayImageURL: m.DisplayImageURL,
		FlyerSectionURL: m.FlyerSectionURL,
		DealImageURL:    m.DealImageURL,
	}
}

func storeFromModel(m models.Store) Store {
	return Store{
		ID:       m.ID,
		Slug:     m.Slug,
		Name:     m.Name,
		Color:    m.Color,
		IsActive: m.IsActive,
	}
}

func priceRecordFromModel(m models.Deal) PriceRecord {
	return PriceRecord{
		Price:           m.Price,
		OriginalPrice:   m.OriginalPrice,
		DiscountPercent: m.DiscountPercent,
		ValidFrom:       m.ValidFrom.String(),
		ValidTo:         m.ValidTo.String(),
	}
}
