// Package client provides a programmatic storefront client: an API client
// for the REST surface and a Store state container holding cart, identity,
// and cached catalog data.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/go-faster/errors"

	"github.com/modenkate/storefront/internal/domain/order"
	"github.com/modenkate/storefront/internal/domain/product"
)

var (
	// ErrUnauthorized is returned when the server rejects the bearer token,
	// typically because it expired. Expiry is not checked proactively.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the token is valid but lacks the admin
	// role.
	ErrForbidden = errors.New("forbidden")
)

// APIError carries the status and message of a non-2xx API response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// PromoCode is the client-side view of a promo code. Wire field names are
// snake_case; this type is the camelCase application format.
type PromoCode struct {
	Code               string
	PercentageDiscount int
	ExpiryDate         string
}

// promoWire is the server's snake_case representation.
type promoWire struct {
	Code               string `json:"code"`
	PercentageDiscount int    `json:"percentage_discount"`
	ExpiryDate         string `json:"expiry_date"`
}

// API is an HTTP client for the storefront REST surface. The admin bearer
// token is held internally and attached only by authenticated calls; it is
// never exposed to callers.
type API struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
}

// NewAPI creates an API client for the given base URL, e.g.
// "http://localhost:5000".
func NewAPI(baseURL string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &API{baseURL: baseURL, http: httpClient}
}

// SetToken installs a previously persisted bearer token, e.g. restored from
// client storage at startup.
func (a *API) SetToken(token string) {
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
}

// Token returns the current bearer token, empty when logged out.
func (a *API) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

// Products fetches the active catalog.
func (a *API) Products(ctx context.Context) ([]product.Product, error) {
	var out []product.Product
	if err := a.do(ctx, http.MethodGet, "/api/products", nil, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// PromoCodes fetches active, unexpired promo codes.
func (a *API) PromoCodes(ctx context.Context) ([]PromoCode, error) {
	var wire []promoWire
	if err := a.do(ctx, http.MethodGet, "/api/promo-codes", nil, &wire, false); err != nil {
		return nil, err
	}
	out := make([]PromoCode, len(wire))
	for i, p := range wire {
		out[i] = PromoCode{
			Code:               p.Code,
			PercentageDiscount: p.PercentageDiscount,
			ExpiryDate:         p.ExpiryDate,
		}
	}
	return out, nil
}

// ValidatePromo validates a code against the cart subtotal. It returns the
// matched code and the server-computed discount amount.
func (a *API) ValidatePromo(ctx context.Context, code string, subtotal int64) (*PromoCode, int64, error) {
	req := map[string]any{"code": code, "subtotal": subtotal}
	var resp struct {
		promoWire
		Discount int64 `json:"discount"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/promo-codes/validate", req, &resp, false); err != nil {
		return nil, 0, err
	}
	return &PromoCode{
		Code:               resp.Code,
		PercentageDiscount: resp.PercentageDiscount,
		ExpiryDate:         resp.ExpiryDate,
	}, resp.Discount, nil
}

// PlaceOrder submits a checkout request and returns the created order
// header. The caller clears the cart only after a non-nil result.
func (a *API) PlaceOrder(ctx context.Context, o order.Order, items []order.Item) (*order.Order, error) {
	req := map[string]any{"order": o, "items": items}
	var created order.Order
	if err := a.do(ctx, http.MethodPost, "/api/orders", req, &created, false); err != nil {
		return nil, err
	}
	return &created, nil
}

// Categories fetches the active category list.
func (a *API) Categories(ctx context.Context) ([]product.Category, error) {
	var out []product.Category
	if err := a.do(ctx, http.MethodGet, "/api/categories", nil, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminLogin exchanges credentials for a bearer token, which is retained
// internally for subsequent admin calls.
func (a *API) AdminLogin(ctx context.Context, username, password string) error {
	req := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/admin/login", req, &resp, false); err != nil {
		return err
	}
	a.SetToken(resp.Token)
	return nil
}

// AdminLogout discards the held token.
func (a *API) AdminLogout() {
	a.SetToken("")
}

// CreateProduct creates a catalog item (admin).
func (a *API) CreateProduct(ctx context.Context, p *product.Product) (*product.Product, error) {
	var created product.Product
	if err := a.do(ctx, http.MethodPost, "/api/products", p, &created, true); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct rewrites a catalog item (admin).
func (a *API) UpdateProduct(ctx context.Context, p *product.Product) (*product.Product, error) {
	var updated product.Product
	if err := a.do(ctx, http.MethodPut, "/api/products/"+p.ID, p, &updated, true); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a catalog item (admin).
func (a *API) DeleteProduct(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/api/products/"+id, nil, nil, true)
}

// CreatePromo creates a promo code (admin).
func (a *API) CreatePromo(ctx context.Context, p PromoCode) error {
	req := promoWire{
		Code:               p.Code,
		PercentageDiscount: p.PercentageDiscount,
		ExpiryDate:         p.ExpiryDate,
	}
	return a.do(ctx, http.MethodPost, "/api/promo-codes", req, nil, true)
}

// DeletePromo removes a promo code (admin).
func (a *API) DeletePromo(ctx context.Context, code string) error {
	return a.do(ctx, http.MethodDelete, "/api/promo-codes/"+code, nil, nil, true)
}

// Orders fetches one page of the admin order listing.
func (a *API) Orders(ctx context.Context, page, limit int) (*order.Page, error) {
	path := fmt.Sprintf("/api/orders?page=%d&limit=%d", page, limit)
	var resp struct {
		Orders     []order.OrderWithItems `json:"orders"`
		Pagination struct {
			Page       int `json:"page"`
			Limit      int `json:"limit"`
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	if err := a.do(ctx, http.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}
	return &order.Page{
		Orders:     resp.Orders,
		Page:       resp.Pagination.Page,
		Limit:      resp.Pagination.Limit,
		Total:      resp.Pagination.Total,
		TotalPages: resp.Pagination.TotalPages,
	}, nil
}

// do performs a JSON request. When authed is set, the held bearer token is
// attached; 401 and 403 map to ErrUnauthorized and ErrForbidden.
func (a *API) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshal request")
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if token := a.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return ErrUnauthorized
		case http.StatusForbidden:
			return ErrForbidden
		}
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "decode response")
		}
	}
	return nil
}
