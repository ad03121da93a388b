package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	cartsvc "github.com/angelmondragon/kurvfo/internal/cart"
	catalogsvc "github.com/angelmondragon/kurvfo/internal/catalog"
	"github.com/angelmondragon/kurvfo/pkg/enums"
	pkgerrors "github.com/angelmondragon/kurvfo/pkg/errors"
)

type stubEngine struct {
	loaded      bool
	lastName    string
	lastItem    cartsvc.NewItem
	lastID      string
	lastQty     int
	outcome     enums.CartAddOutcome
	removeFound bool
}

func (s *stubEngine) Loaded() bool { return s.loaded }

func (s *stubEngine) Summary() cartsvc.Summary {
	return cartsvc.Summarize(nil, s.loaded)
}

func (s *stubEngine) AddCustom(ctx context.Context, name string) (cartsvc.LineItem, bool) {
	s.lastName = name
	name = strings.TrimSpace(name)
	return cartsvc.LineItem{ID: "new", ProductName: name, Quantity: 1}, name != ""
}

func (s *stubEngine) AddOrIncrement(ctx context.Context, in cartsvc.NewItem) (cartsvc.LineItem, enums.CartAddOutcome) {
	s.lastItem = in
	return cartsvc.LineItem{ID: "line", ProductID: in.ProductID, Quantity: 1}, s.outcome
}

func (s *stubEngine) UpdateQuantity(ctx context.Context, id string, quantity int) bool {
	s.lastID, s.lastQty = id, quantity
	return true
}

func (s *stubEngine) ToggleChecked(ctx context.Context, id string) bool {
	s.lastID = id
	return true
}

func (s *stubEngine) Remove(ctx context.Context, id string) bool {
	s.lastID = id
	return s.removeFound
}

func (s *stubEngine) ClearAll(ctx context.Context) {}

func (s *stubEngine) ClearChecked(ctx context.Context) int { return 2 }

func (s *stubEngine) MarkAllPurchased(ctx context.Context) int { return 3 }

type stubDeals struct {
	deal catalogsvc.Deal
	err  error
}

func (s stubDeals) Deal(ctx context.Context, dealID string) (catalogsvc.Deal, error) {
	return s.deal, s.err
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeResult(t *testing.T, resp *httptest.ResponseRecorder) MutationResult {
	t.Helper()
	var envelope struct {
		Data MutationResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestCartAddItemCreated(t *testing.T) {
	engine := &stubEngine{loaded: true}
	handler := CartAddItem(engine, nil)

	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"name":"Eplir"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	result := decodeResult(t, resp)
	if !result.Changed || result.Item == nil || result.Item.ProductName != "Eplir" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCartAddItemBlankNameIsNoOp(t *testing.T) {
	engine := &stubEngine{loaded: true}
	handler := CartAddItem(engine, nil)

	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"name":"   "}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if result := decodeResult(t, resp); result.Changed || result.Item != nil {
		t.Fatalf("expected no change, got %+v", result)
	}
}

func TestCartAddItemRejectsUnknownFields(t *testing.T) {
	handler := CartAddItem(&stubEngine{loaded: true}, nil)

	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"name":"Eplir","price":4}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddDealUsesDealPayload(t *testing.T) {
	savings := 4.0
	engine := &stubEngine{loaded: true, outcome: enums.CartAddOutcomeIncremented}
	deals := stubDeals{deal: catalogsvc.Deal{DealID: "d1", ProductID: "p1", ProductName: "Kaffi", StoreSlug: "fk", StoreName: "FK", Price: 40, Savings: &savings}}
	handler := CartAddDeal(engine, deals, nil)

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/cart/deals/d1", nil), "dealID", "d1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if engine.lastItem.ProductID == nil || *engine.lastItem.ProductID != "p1" {
		t.Fatalf("expected product p1, got %+v", engine.lastItem)
	}
	if engine.lastItem.SavingsPerUnit == nil || *engine.lastItem.SavingsPerUnit != 4 {
		t.Fatalf("expected savings copied from deal")
	}
	if result := decodeResult(t, resp); result.Outcome != enums.CartAddOutcomeIncremented {
		t.Fatalf("unexpected outcome %q", result.Outcome)
	}
}

func TestCartAddDealNotFound(t *testing.T) {
	handler := CartAddDeal(&stubEngine{loaded: true}, stubDeals{err: pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/cart/deals/x", nil), "dealID", "x")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	engine := &stubEngine{loaded: true}
	handler := CartUpdateQuantity(engine, nil)

	req := httptest.NewRequest(http.MethodPatch, "/cart/items/a", strings.NewReader(`{"quantity":0}`))
	req = withURLParam(req, "itemID", "a")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if engine.lastID != "a" || engine.lastQty != 0 {
		t.Fatalf("unexpected call id=%q qty=%d", engine.lastID, engine.lastQty)
	}
}

func TestCartUpdateQuantityRequiresBody(t *testing.T) {
	handler := CartUpdateQuantity(&stubEngine{loaded: true}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodPatch, "/cart/items/a", strings.NewReader(`{}`)), "itemID", "a")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartRemoveUnknownItemSucceeds(t *testing.T) {
	handler := CartRemoveItem(&stubEngine{loaded: true}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/cart/items/zzz", nil), "itemID", "zzz")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if decodeResult(t, resp).Changed {
		t.Fatalf("expected unchanged result")
	}
}

func TestCartBulkOperationsReportCounts(t *testing.T) {
	engine := &stubEngine{loaded: true}

	resp := httptest.NewRecorder()
	CartClearChecked(engine, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/cart/checked", nil))
	if got := decodeResult(t, resp).Count; got != 2 {
		t.Fatalf("expected 2 removed, got %d", got)
	}

	resp = httptest.NewRecorder()
	CartPurchaseAll(engine, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/cart/purchase-all", nil))
	if got := decodeResult(t, resp).Count; got != 3 {
		t.Fatalf("expected 3 marked, got %d", got)
	}
}

func TestCartMutationsRequireLoadedCart(t *testing.T) {
	handler := CartToggleItem(&stubEngine{loaded: false}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/cart/items/a/toggle", nil), "itemID", "a")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestCartFetchNilEngine(t *testing.T) {
	resp := httptest.NewRecorder()
	CartFetch(nil, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/cart", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
