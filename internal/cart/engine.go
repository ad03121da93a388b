package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/kurvfo/pkg/enums"
	"github.com/angelmondragon/kurvfo/pkg/logger"
	"github.com/angelmondragon/kurvfo/pkg/metrics"
	"github.com/google/uuid"
)

const (
	opAdd              = "add"
	opIncrement        = "increment"
	opRemove           = "remove"
	opToggle           = "toggle"
	opQuantity         = "quantity"
	opClearAll         = "clear_all"
	opClearChecked     = "clear_checked"
	opMarkAllPurchased = "mark_all_purchased"
)

// Engine owns the shopping list. Mutations are serialized and each one
// schedules a whole-list write once the list has been loaded.
type Engine struct {
	storage Storage
	writer  *Writer
	logg    *logger.Logger
	metrics *metrics.CartMetrics
	now     func() time.Time
	newID   func() string

	mu     sync.RWMutex
	items  []LineItem
	loaded bool
}

// EngineOptions tunes an Engine. Zero values select defaults.
type EngineOptions struct {
	WriteTimeout time.Duration
	Logger       *logger.Logger
	Metrics      *metrics.CartMetrics
	Now          func() time.Time
}

// NewEngine builds an engine over storage. Call Load before mutating.
func NewEngine(storage Storage, opts EngineOptions) (*Engine, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		storage: storage,
		writer:  NewWriter(storage, opts.WriteTimeout, logg, opts.Metrics),
		logg:    logg,
		metrics: opts.Metrics,
		now:     now,
		newID:   uuid.NewString,
		items:   []LineItem{},
	}, nil
}

// Load reads the stored list once. Unreadable or malformed data leaves the
// cart empty; the error is logged, never returned.
func (e *Engine) Load(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded {
		return
	}

	payload, err := e.storage.Load(ctx)
	if err != nil {
		e.logg.Error(ctx, "failed to read stored cart", err)
		payload = nil
	}

	items, dropped, err := decodeItems(payload, e.timestamp())
	if err != nil {
		e.logg.Error(ctx, "discarding malformed stored cart", err)
	}
	if dropped > 0 {
		e.logg.Warn(e.logg.WithField(ctx, "dropped", dropped), "dropped invalid stored cart items")
	}

	e.items = items
	e.loaded = true
	e.metrics.SetItems(len(e.items))
	e.logg.Info(e.logg.WithField(ctx, "items", len(e.items)), "cart loaded")
}

// Loaded reports whether Load has completed.
func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

// Items returns a copy of the list in insertion order.
func (e *Engine) Items() []LineItem {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneItems(e.items)
}

// Summary returns the derived views of the current list.
func (e *Engine) Summary() Summary {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Summarize(e.items, e.loaded)
}

// HasUnchecked reports whether an open line already holds productID.
func (e *Engine) HasUnchecked(productID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := firstUnchecked(e.items, productID)
	return ok
}

// Add appends a new line without merging.
func (e *Engine) Add(ctx context.Context, in NewItem) (LineItem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready(ctx, opAdd) {
		return LineItem{}, false
	}
	item := e.add(in)
	e.commit(ctx, opAdd)
	return item, true
}

// AddOrIncrement bumps the first unchecked line holding the same product, or
// adds a new line with quantity 1. Checked lines never absorb additions and
// the stored price is kept as it was when first added.
func (e *Engine) AddOrIncrement(ctx context.Context, in NewItem) (LineItem, enums.CartAddOutcome) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready(ctx, opIncrement) {
		return LineItem{}, enums.CartAddOutcomeIgnored
	}

	if in.ProductID != nil {
		if idx, ok := firstUnchecked(e.items, *in.ProductID); ok {
			e.items[idx].Quantity++
			item := e.items[idx]
			e.commit(e.logg.WithCartItemID(ctx, item.ID), opIncrement)
			return item, enums.CartAddOutcomeIncremented
		}
	}

	in.Quantity = 1
	item := e.add(in)
	e.commit(ctx, opAdd)
	return item, enums.CartAddOutcomeAdded
}

// AddCustom adds a typed-in line with no product or price. Blank names are
// ignored.
func (e *Engine) AddCustom(ctx context.Context, name string) (LineItem, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return LineItem{}, false
	}
	return e.Add(ctx, NewItem{ProductName: name, Quantity: 1})
}

// Remove deletes the line with id. Unknown ids are a no-op.
func (e *Engine) Remove(ctx context.Context, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready(ctx, opRemove) {
		return false
	}
	if !e.remove(id) {
		return false
	}
	e.commit(e.logg.WithCartItemID(ctx, id), opRemove)
	return true
}

// ToggleChecked flips the purchased flag of the line with id.
func (e *Engine) ToggleChecked(ctx context.Context, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready(ctx, opToggle) {
		return false
	}
	idx := indexOf(e.items, id)
	if idx < 0 {
		return false
	}
	e.items[idx].Checked = !e.items[idx].Checked
	e.commit(e.logg.WithCartItemID(ctx, id), opToggle)
	return true
}

// UpdateQuantity sets the quantity of the line with id. Quantities below 1
// remove the line.
func (e *Engine) UpdateQuantity(ctx context.Context, id string, quantity int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready(ctx, opQuantity) {
		return false
	}
	ctx = e.logg.WithCartItemID(ctx, id)
	if quantity < 1 {
		if !e.remove(id) {
			return false
		}
		e.commit(ctx, opRemove)
		return true
	}
	idx := indexOf(e.items, id)
	if idx < 0 {
		return false
	}
	e.items[idx].Quantity = quantity
	e.commit(ctx, opQuantity)
	return true
}

// ClearAll empties the list.
func (e *Engine) ClearAll(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready(ctx, opClearAll) {
		return
	}
	e.items = []LineItem{}
	e.commit(ctx, opClearAll)
}

// ClearChecked drops purchased lines and keeps the rest in order.
func (e *Engine) ClearChecked(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready(ctx, opClearChecked) {
		return 0
	}
	kept := make([]LineItem, 0, len(e.items))
	for _, item := range e.items {
		if !item.Checked {
			kept = append(kept, item)
		}
	}
	removed := len(e.items) - len(kept)
	e.items = kept
	e.commit(ctx, opClearChecked)
	return removed
}

// MarkAllPurchased checks every open line.
func (e *Engine) MarkAllPurchased(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready(ctx, opMarkAllPurchased) {
		return 0
	}
	marked := 0
	for i := range e.items {
		if !e.items[i].Checked {
			e.items[i].Checked = true
			marked++
		}
	}
	e.commit(ctx, opMarkAllPurchased)
	return marked
}

// Flush waits for pending writes to land.
func (e *Engine) Flush(ctx context.Context) error {
	return e.writer.Flush(ctx)
}

// Close writes the latest state and stops the writer.
func (e *Engine) Close(ctx context.Context) error {
	return e.writer.Close(ctx)
}

func (e *Engine) ready(ctx context.Context, op string) bool {
	if e.loaded {
		return true
	}
	e.logg.Warn(e.logg.WithField(ctx, "op", op), "cart mutation before load ignored")
	return false
}

func (e *Engine) add(in NewItem) LineItem {
	quantity := in.Quantity
	if quantity < 1 {
		quantity = 1
	}
	item := LineItem{
		ID:             e.newID(),
		ProductID:      copyString(in.ProductID),
		ProductName:    in.ProductName,
		StoreName:      copyString(in.StoreName),
		StoreSlug:      copyString(in.StoreSlug),
		StoreColor:     copyString(in.StoreColor),
		Price:          copyFloat(in.Price),
		OriginalPrice:  copyFloat(in.OriginalPrice),
		SavingsPerUnit: copyFloat(in.SavingsPerUnit),
		Quantity:       quantity,
		Checked:        false,
		AddedAt:        e.timestamp(),
	}
	e.items = append(e.items, item)
	return item
}

func (e *Engine) remove(id string) bool {
	idx := indexOf(e.items, id)
	if idx < 0 {
		return false
	}
	kept := make([]LineItem, 0, len(e.items)-1)
	kept = append(kept, e.items[:idx]...)
	kept = append(kept, e.items[idx+1:]...)
	e.items = kept
	return true
}

// commit records the mutation and hands a copy of the list to the writer.
// Caller holds e.mu.
func (e *Engine) commit(ctx context.Context, op string) {
	e.metrics.IncMutation(op)
	e.metrics.SetItems(len(e.items))
	e.writer.Schedule(cloneItems(e.items))
	e.logg.Debug(e.logg.WithField(ctx, "op", op), "cart mutated")
}

func (e *Engine) timestamp() time.Time {
	return e.now().UTC().Truncate(time.Millisecond)
}

func indexOf(items []LineItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func firstUnchecked(items []LineItem, productID string) (int, bool) {
	for i, item := range items {
		if item.Checked || item.ProductID == nil {
			continue
		}
		if *item.ProductID == productID {
			return i, true
		}
	}
	return -1, false
}
