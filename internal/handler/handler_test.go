package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/modenkate/storefront/internal/domain/auth"
	"github.com/modenkate/storefront/internal/domain/order"
	"github.com/modenkate/storefront/internal/domain/product"
	"github.com/modenkate/storefront/internal/domain/promo"
	"github.com/modenkate/storefront/internal/storage/postgres"
	"github.com/modenkate/storefront/pkg/httpmiddleware"
)

// --- Mock implementations ---

type mockProductRepo struct {
	products []product.Product
	byID     map[string]*product.Product
	stock    map[string]*product.StockInfo
	listErr  error
	created  *product.Product
	updated  *product.Product
	deleted  string
}

func (m *mockProductRepo) ListActive(_ context.Context) ([]product.Product, error) {
	return m.products, m.listErr
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) GetStock(_ context.Context, id string) (*product.StockInfo, error) {
	info, ok := m.stock[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return info, nil
}

func (m *mockProductRepo) Create(_ context.Context, p *product.Product) error {
	m.created = p
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, p *product.Product) error {
	if _, ok := m.byID[p.ID]; !ok {
		return product.ErrNotFound
	}
	m.updated = p
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return product.ErrNotFound
	}
	m.deleted = id
	return nil
}

type mockCategoryRepo struct {
	categories []product.Category
}

func (m *mockCategoryRepo) ListActive(_ context.Context) ([]product.Category, error) {
	return m.categories, nil
}

type mockPromoRepo struct {
	codes   map[string]*promo.Code
	created *promo.Code
	deleted string
}

func (m *mockPromoRepo) ListActive(_ context.Context) ([]promo.Code, error) {
	var out []promo.Code
	for _, c := range m.codes {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockPromoRepo) FindByCode(_ context.Context, code string) (*promo.Code, error) {
	c, ok := m.codes[code]
	if !ok {
		return nil, promo.ErrInvalidOrExpired
	}
	return c, nil
}

func (m *mockPromoRepo) Create(_ context.Context, c *promo.Code) error {
	m.created = c
	return nil
}

func (m *mockPromoRepo) Delete(_ context.Context, code string) error {
	if _, ok := m.codes[code]; !ok {
		return promo.ErrInvalidOrExpired
	}
	m.deleted = code
	return nil
}

func (m *mockPromoRepo) IncrementUsage(_ context.Context, _ string) error { return nil }

type mockOrderRepo struct {
	lastOrder *order.Order
	lastItems []order.Item
	byID      map[string]*order.OrderWithItems
	page      *order.Page
	statusSet string
}

func (m *mockOrderRepo) Create(_ context.Context, o *order.Order) error {
	m.lastOrder = o
	return nil
}

func (m *mockOrderRepo) CreateItems(_ context.Context, _ string, items []order.Item) error {
	m.lastItems = items
	return nil
}

func (m *mockOrderRepo) GetWithItems(_ context.Context, id string) (*order.OrderWithItems, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, postgres.ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) List(_ context.Context, page, limit int) (*order.Page, error) {
	if m.page != nil {
		return m.page, nil
	}
	return &order.Page{Orders: []order.OrderWithItems{}, Page: page, Limit: limit}, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id, status string) (*order.Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, postgres.ErrOrderNotFound
	}
	m.statusSet = status
	out := o.Order
	out.Status = status
	return &out, nil
}

type mockInventory struct{}

func (m *mockInventory) DecrementStock(_ context.Context, _ string, _ int) error { return nil }

type mockInventoryStore struct {
	alerts    []postgres.LowStockAlert
	values    []postgres.CategoryValue
	analytics []postgres.ProductAnalytics
	moves     []postgres.StockMovement
	onHand    map[string]*product.StockInfo
	restocked map[string]int
}

func (m *mockInventoryStore) LowStock(_ context.Context) ([]postgres.LowStockAlert, error) {
	return m.alerts, nil
}

func (m *mockInventoryStore) Value(_ context.Context) ([]postgres.CategoryValue, error) {
	return m.values, nil
}

func (m *mockInventoryStore) Analytics(_ context.Context) ([]postgres.ProductAnalytics, error) {
	return m.analytics, nil
}

func (m *mockInventoryStore) Movements(_ context.Context) ([]postgres.StockMovement, error) {
	return m.moves, nil
}

func (m *mockInventoryStore) Restock(_ context.Context, productID string, quantity int) (*postgres.RestockResult, error) {
	info, ok := m.onHand[productID]
	if !ok {
		return nil, product.ErrNotFound
	}
	if m.restocked == nil {
		m.restocked = make(map[string]int)
	}
	m.restocked[productID] += quantity
	return &postgres.RestockResult{
		ProductName: info.Name,
		Added:       quantity,
		NewStock:    info.StockQuantity + quantity,
	}, nil
}

type mockUserRepo struct {
	user *auth.User
}

func (m *mockUserRepo) FindActiveAdmin(_ context.Context, email string) (*auth.User, error) {
	if m.user == nil || m.user.Email != email {
		return nil, auth.ErrInvalidCredentials
	}
	return m.user, nil
}

// --- Fixture ---

const testSecret = "test-signing-key"

type fixture struct {
	mux       *http.ServeMux
	products  *mockProductRepo
	promos    *mockPromoRepo
	orders    *mockOrderRepo
	inventory *mockInventoryStore
	auth      *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	products := &mockProductRepo{
		byID:  make(map[string]*product.Product),
		stock: make(map[string]*product.StockInfo),
	}
	promos := &mockPromoRepo{codes: make(map[string]*promo.Code)}
	orders := &mockOrderRepo{byID: make(map[string]*order.OrderWithItems)}
	users := &mockUserRepo{user: &auth.User{
		ID:           "u1",
		Email:        "admin@example.com",
		Name:         "Store Admin",
		PasswordHash: string(hash),
		Role:         auth.RoleAdmin,
		IsActive:     true,
	}}

	authSvc := auth.NewService(users, []byte(testSecret))
	placement := order.NewService(products, orders, &mockInventory{}, promos)
	inventory := &mockInventoryStore{onHand: make(map[string]*product.StockInfo)}

	h := New(Config{DevMode: false},
		products, &mockCategoryRepo{}, promos,
		promo.NewRepoValidator(promos),
		orders, placement, inventory, authSvc,
	)

	passthrough := func(next http.Handler) http.Handler { return next }
	mux := http.NewServeMux()
	h.Register(mux, httpmiddleware.Middleware(passthrough), httpmiddleware.Middleware(passthrough))

	return &fixture{
		mux: mux, products: products, promos: promos,
		orders: orders, inventory: inventory, auth: authSvc,
	}
}

func (f *fixture) adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := f.auth.Login(context.Background(), "admin@example.com", "s3cret")
	require.NoError(t, err)
	return token
}

func (f *fixture) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func decodeResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func activePromo(code string, pct int) *promo.Code {
	return &promo.Code{
		Code:               code,
		PercentageDiscount: pct,
		ExpiryDate:         time.Now().AddDate(1, 0, 0),
		IsActive:           true,
	}
}

// --- Product routes ---

func TestListProducts(t *testing.T) {
	f := newFixture(t)
	f.products.products = []product.Product{
		{ID: "p1", Name: "Sofa", Category: "living-room", Price: 89900},
	}

	rec := f.request(t, http.MethodGet, "/api/products", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
	got := decodeResponse[[]product.Product](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "Sofa", got[0].Name)
}

func TestListProducts_EmptyIsArray(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/api/products", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetProduct_NotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/api/products/missing", "", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	got := decodeResponse[map[string]string](t, rec)
	assert.Equal(t, "Product not found", got["error"])
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/api/products", f.adminToken(t), map[string]any{
		"name":           "Sofa",
		"category":       "living-room",
		"price":          89900,
		"stock_quantity": 10,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, f.products.created)
	assert.NotEmpty(t, f.products.created.ID)
	assert.True(t, f.products.created.IsActive)
}

func TestCreateProduct_ValidationError(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/api/products", f.adminToken(t), map[string]any{
		"name": "Sofa",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, f.products.created)
}

// --- Admin authentication ---

func TestAdminRoutes_NoToken(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/api/products", "", map[string]any{"name": "x"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	got := decodeResponse[map[string]string](t, rec)
	assert.Equal(t, "No token provided", got["error"])
}

func TestAdminRoutes_InvalidToken(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/api/products", "garbage", map[string]any{"name": "x"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	got := decodeResponse[map[string]string](t, rec)
	assert.Equal(t, "Invalid token", got["error"])
}

func TestAdminRoutes_NonAdminRole(t *testing.T) {
	f := newFixture(t)

	// A valid token for an account without the admin role.
	users := &mockUserRepo{user: func() *auth.User {
		hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
		return &auth.User{
			ID: "u2", Email: "staff@example.com",
			PasswordHash: string(hash), Role: "staff", IsActive: true,
		}
	}()}
	staffAuth := auth.NewService(users, []byte(testSecret))
	token, _, err := staffAuth.Login(context.Background(), "staff@example.com", "s3cret")
	require.NoError(t, err)

	rec := f.request(t, http.MethodDelete, "/api/products/p1", token, nil)

	require.Equal(t, http.StatusForbidden, rec.Code)
	got := decodeResponse[map[string]string](t, rec)
	assert.Equal(t, "Admin access required", got["error"])
}

func TestAdminLogin(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": "admin@example.com",
		"password": "s3cret",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeResponse[struct {
		Token string            `json:"token"`
		User  map[string]string `json:"user"`
	}](t, rec)
	assert.NotEmpty(t, got.Token)
	assert.Equal(t, "admin", got.User["role"])
}

func TestAdminLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": "admin@example.com",
		"password": "wrong!",
	})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	got := decodeResponse[map[string]string](t, rec)
	assert.Equal(t, "Invalid credentials", got["error"])
}

func TestAdminLogin_ShortCredentialsRejectedEarly(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": "ab",
		"password": "s3cret",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- Promo routes ---

func TestValidatePromo(t *testing.T) {
	f := newFixture(t)
	f.promos.codes["KATE10"] = activePromo("KATE10", 10)

	rec := f.request(t, http.MethodPost, "/api/promo-codes/validate", "", map[string]any{
		"code":     "  kate10 ",
		"subtotal": 1000,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeResponse[struct {
		Code     string `json:"code"`
		Discount int64  `json:"discount"`
	}](t, rec)
	assert.Equal(t, "KATE10", got.Code)
	assert.Equal(t, int64(100), got.Discount)
}

func TestValidatePromo_Unknown(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/api/promo-codes/validate", "", map[string]any{
		"code":     "BOGUS",
		"subtotal": 1000,
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
	got := decodeResponse[map[string]string](t, rec)
	assert.Equal(t, "Invalid or expired promo code", got["error"])
}

func TestValidatePromo_EmptyCode(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/api/promo-codes/validate", "", map[string]any{
		"code":     "  ",
		"subtotal": 1000,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidatePromo_UsageLimitReached(t *testing.T) {
	f := newFixture(t)
	c := activePromo("LIMITED", 10)
	c.UsageLimit = 5
	c.UsedCount = 5
	f.promos.codes["LIMITED"] = c

	rec := f.request(t, http.MethodPost, "/api/promo-codes/validate", "", map[string]any{
		"code":     "LIMITED",
		"subtotal": 1000,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeResponse[map[string]string](t, rec)
	assert.Equal(t, "Promo code usage limit reached", got["error"])
}

func TestCreatePromo(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/api/promo-codes", f.adminToken(t), map[string]any{
		"code":                "summer20",
		"percentage_discount": 20,
		"expiry_date":         "2027-06-30",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, f.promos.created)
	assert.Equal(t, "SUMMER20", f.promos.created.Code)
	assert.True(t, f.promos.created.IsActive)

	got := decodeResponse[map[string]any](t, rec)
	assert.Equal(t, "2027-06-30", got["expiry_date"])
}

func TestCreatePromo_BadPercentage(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/api/promo-codes", f.adminToken(t), map[string]any{
		"code":                "TOOBIG",
		"percentage_discount": 150,
		"expiry_date":         "2027-06-30",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, f.promos.created)
}

func TestDeletePromo_NotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodDelete, "/api/promo-codes/MISSING", f.adminToken(t), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

// --- Order routes ---

func placeOrderBody(promoCode string, discount int64) map[string]any {
	o := map[string]any{
		"guest_info": map[string]string{
			"name":    "Kate",
			"email":   "kate@example.com",
			"address": "1 Main St",
		},
		"subtotal":        1000,
		"delivery_charge": 200,
		"discount_amount": discount,
		"total_amount":    1200 - discount,
	}
	if promoCode != "" {
		o["promo_code"] = promoCode
	}
	return map[string]any{
		"order": o,
		"items": []map[string]any{
			{
				"product_id":        "p1",
				"product_name":      "Sofa",
				"price_at_purchase": 1000,
				"quantity":          1,
			},
		},
	}
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)
	f.products.stock["p1"] = &product.StockInfo{Name: "Sofa", StockQuantity: 3}

	rec := f.request(t, http.MethodPost, "/api/orders", "", placeOrderBody("", 0))

	require.Equal(t, http.StatusCreated, rec.Code)
	got := decodeResponse[order.Order](t, rec)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, order.PaymentCashOnDelivery, got.PaymentMethod)
	require.NotNil(t, f.orders.lastOrder)
	require.Len(t, f.orders.lastItems, 1)
}

func TestPlaceOrder_EmptyItems(t *testing.T) {
	f := newFixture(t)

	body := placeOrderBody("", 0)
	body["items"] = []map[string]any{}
	rec := f.request(t, http.MethodPost, "/api/orders", "", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeResponse[map[string]string](t, rec)
	assert.Equal(t, "Invalid order data", got["error"])
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/api/orders", "", placeOrderBody("", 0))

	require.Equal(t, http.StatusNotFound, rec.Code)
	got := decodeResponse[map[string]string](t, rec)
	assert.Equal(t, "product p1 not found", got["error"])
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	f.products.stock["p1"] = &product.StockInfo{Name: "Sofa", StockQuantity: 0}

	rec := f.request(t, http.MethodPost, "/api/orders", "", placeOrderBody("", 0))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeResponse[map[string]string](t, rec)
	assert.Equal(t, "insufficient stock for Sofa. Available: 0, Requested: 1", got["error"])
	assert.Nil(t, f.orders.lastOrder)
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/api/orders/missing", "", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrders_RequiresAdmin(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/api/orders", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.request(t, http.MethodGet, "/api/orders?page=2&limit=5", f.adminToken(t), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeResponse[struct {
		Pagination map[string]int `json:"pagination"`
	}](t, rec)
	assert.Equal(t, 2, got.Pagination["page"])
	assert.Equal(t, 5, got.Pagination["limit"])
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture(t)
	f.orders.byID["o1"] = &order.OrderWithItems{Order: order.Order{ID: "o1", Status: "pending"}}

	rec := f.request(t, http.MethodPatch, "/api/orders/o1/status", "", map[string]string{
		"status": "shipped",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shipped", f.orders.statusSet)
	got := decodeResponse[order.Order](t, rec)
	assert.Equal(t, "shipped", got.Status)
}

func TestUpdateOrderStatus_MissingStatus(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPatch, "/api/orders/o1/status", "", map[string]string{})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- Inventory routes ---

func TestInventoryLowStock(t *testing.T) {
	f := newFixture(t)
	f.inventory.alerts = []postgres.LowStockAlert{
		{ID: "p1", Name: "Bookshelf", Category: "living-room", StockQuantity: 2},
	}

	rec := f.request(t, http.MethodGet, "/api/admin/inventory/low-stock", f.adminToken(t), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeResponse[[]postgres.LowStockAlert](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "Bookshelf", got[0].Name)
}

func TestInventoryValue(t *testing.T) {
	f := newFixture(t)
	f.inventory.values = []postgres.CategoryValue{
		{Category: "office", ProductCount: 2, TotalUnits: 15, TotalValue: decimal.NewFromInt(433500)},
	}

	rec := f.request(t, http.MethodGet, "/api/admin/inventory/value", f.adminToken(t), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeResponse[[]postgres.CategoryValue](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, int64(15), got[0].TotalUnits)
	assert.True(t, got[0].TotalValue.Equal(decimal.NewFromInt(433500)))
}

func TestInventoryAnalytics(t *testing.T) {
	f := newFixture(t)
	f.inventory.analytics = []postgres.ProductAnalytics{
		{ID: "p1", Name: "Sofa", Category: "living-room", UnitsSold: 12,
			TotalRevenue: decimal.NewFromInt(1078800), OrderCount: 9},
		{ID: "p2", Name: "Chair", Category: "office", UnitsSold: 3,
			TotalRevenue: decimal.NewFromInt(86700), OrderCount: 3},
	}

	rec := f.request(t, http.MethodGet, "/api/admin/inventory/analytics", f.adminToken(t), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeResponse[[]postgres.ProductAnalytics](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, "Sofa", got[0].Name)
	assert.Equal(t, int64(12), got[0].UnitsSold)
	assert.Equal(t, int64(9), got[0].OrderCount)
}

func TestInventoryMovements(t *testing.T) {
	f := newFixture(t)
	f.inventory.moves = []postgres.StockMovement{
		{ID: 2, ProductID: "p1", Change: 10, MovementType: "restock", CreatedAt: time.Now()},
		{ID: 1, ProductID: "p1", Change: -2, MovementType: "sale", CreatedAt: time.Now().Add(-time.Hour)},
	}

	rec := f.request(t, http.MethodGet, "/api/admin/inventory/movements", f.adminToken(t), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeResponse[[]postgres.StockMovement](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, "restock", got[0].MovementType)
	assert.Equal(t, -2, got[1].Change)
}

func TestInventoryRoutes_RequireAdmin(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{
		"/api/admin/inventory/low-stock",
		"/api/admin/inventory/value",
		"/api/admin/inventory/analytics",
		"/api/admin/inventory/movements",
	} {
		rec := f.request(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRestock(t *testing.T) {
	f := newFixture(t)
	f.inventory.onHand["p1"] = &product.StockInfo{Name: "Bookshelf", StockQuantity: 3}

	rec := f.request(t, http.MethodPatch, "/api/admin/inventory/p1/restock", f.adminToken(t),
		map[string]int{"quantity": 10})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, f.inventory.restocked["p1"])
	got := decodeResponse[map[string]any](t, rec)
	assert.Equal(t, "Stock updated: Bookshelf restocked with 10 units", got["message"])
	assert.EqualValues(t, 13, got["new_stock"])
}

func TestRestock_UnknownProduct(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPatch, "/api/admin/inventory/missing/restock", f.adminToken(t),
		map[string]int{"quantity": 5})

	require.Equal(t, http.StatusNotFound, rec.Code)
	got := decodeResponse[map[string]string](t, rec)
	assert.Equal(t, "Product not found", got["error"])
}

func TestRestock_NonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	f.inventory.onHand["p1"] = &product.StockInfo{Name: "Bookshelf", StockQuantity: 3}

	for _, qty := range []int{0, -4} {
		rec := f.request(t, http.MethodPatch, "/api/admin/inventory/p1/restock", f.adminToken(t),
			map[string]int{"quantity": qty})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		got := decodeResponse[map[string]string](t, rec)
		assert.Equal(t, "Quantity must be positive", got["error"])
	}
	assert.Empty(t, f.inventory.restocked)
}
