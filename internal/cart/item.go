package cart

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/angelmondragon/kurvfo/internal/catalog"
	"github.com/google/uuid"
)

// LineItem is one entry on the shopping list. Field names follow the layout
// the web client persisted.
type LineItem struct {
	ID             string    `json:"id"`
	ProductID      *string   `json:"productId"`
	ProductName    string    `json:"productName"`
	StoreName      *string   `json:"storeName"`
	StoreSlug      *string   `json:"storeSlug"`
	StoreColor     *string   `json:"storeColor"`
	Price          *float64  `json:"price"`
	OriginalPrice  *float64  `json:"originalPrice"`
	SavingsPerUnit *float64  `json:"savingsPerUnit"`
	Quantity       int       `json:"quantity"`
	Checked        bool      `json:"checked"`
	AddedAt        time.Time `json:"addedAt"`
}

// Custom reports whether the line was typed in rather than added from a deal.
func (i LineItem) Custom() bool {
	return i.ProductID == nil
}

// NewItem is a line item before the engine assigns identity and timestamps.
type NewItem struct {
	ProductID      *string
	ProductName    string
	StoreName      *string
	StoreSlug      *string
	StoreColor     *string
	Price          *float64
	OriginalPrice  *float64
	SavingsPerUnit *float64
	Quantity       int
}

// FromDeal builds the payload added when a shopper picks a deal.
func FromDeal(d catalog.Deal) NewItem {
	productID := d.ProductID
	storeName := d.StoreName
	storeSlug := d.StoreSlug
	price := d.Price
	return NewItem{
		ProductID:      &productID,
		ProductName:    d.ProductName,
		StoreName:      &storeName,
		StoreSlug:      &storeSlug,
		StoreColor:     copyString(d.StoreColor),
		Price:          &price,
		OriginalPrice:  copyFloat(d.OriginalPrice),
		SavingsPerUnit: copyFloat(d.Savings),
		Quantity:       1,
	}
}

// rawItem is the loose shape accepted from storage. Anything older writers
// left out decodes to nil and is filled in by repair.
type rawItem struct {
	ID             *string  `json:"id"`
	ProductID      *string  `json:"productId"`
	ProductName    *string  `json:"productName"`
	StoreName      *string  `json:"storeName"`
	StoreSlug      *string  `json:"storeSlug"`
	StoreColor     *string  `json:"storeColor"`
	Price          *float64 `json:"price"`
	OriginalPrice  *float64 `json:"originalPrice"`
	SavingsPerUnit *float64 `json:"savingsPerUnit"`
	Quantity       *float64 `json:"quantity"`
	Checked        *bool    `json:"checked"`
	AddedAt        *string  `json:"addedAt"`
}

// repair turns one stored record into a valid LineItem. ok is false when the
// record cannot satisfy the quantity invariant and must be dropped.
func repair(raw rawItem, now time.Time) (LineItem, bool) {
	quantity := 1
	if raw.Quantity != nil {
		q := math.Floor(*raw.Quantity)
		if math.IsNaN(q) || q < 1 {
			return LineItem{}, false
		}
		if q > math.MaxInt32 {
			q = math.MaxInt32
		}
		quantity = int(q)
	}

	id := ""
	if raw.ID != nil {
		id = strings.TrimSpace(*raw.ID)
	}
	if id == "" {
		id = uuid.NewString()
	}

	addedAt := now
	if raw.AddedAt != nil {
		if parsed, err := time.Parse(time.RFC3339Nano, *raw.AddedAt); err == nil {
			addedAt = parsed.UTC()
		}
	}

	item := LineItem{
		ID:             id,
		ProductID:      raw.ProductID,
		StoreName:      raw.StoreName,
		StoreSlug:      raw.StoreSlug,
		StoreColor:     raw.StoreColor,
		Price:          raw.Price,
		OriginalPrice:  raw.OriginalPrice,
		SavingsPerUnit: raw.SavingsPerUnit,
		Quantity:       quantity,
		AddedAt:        addedAt,
	}
	if raw.ProductName != nil {
		item.ProductName = *raw.ProductName
	}
	if raw.Checked != nil {
		item.Checked = *raw.Checked
	}
	return item, true
}

// decodeItems parses a stored payload. Records that cannot be repaired are
// skipped and counted in dropped; a later duplicate identity is dropped too.
func decodeItems(payload []byte, now time.Time) (items []LineItem, dropped int, err error) {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return []LineItem{}, 0, nil
	}
	var raws []rawItem
	if err := json.Unmarshal(payload, &raws); err != nil {
		return []LineItem{}, 0, err
	}
	items = make([]LineItem, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		item, ok := repair(raw, now)
		if !ok {
			dropped++
			continue
		}
		if _, dup := seen[item.ID]; dup {
			dropped++
			continue
		}
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}
	return items, dropped, nil
}

func encodeItems(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(items)
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
