package client

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/modenkate/storefront/internal/domain/product"
)

// maxLoadRetries bounds the automatic retries after a failed initial load.
const maxLoadRetries = 3

// CartItem is a product plus quantity, held client-side until checkout.
type CartItem struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// User is the shopper's placeholder identity. There is no password; this is
// not authentication.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Store is the single source of truth for cart, shopper identity, and the
// product/promo caches. It is constructed once at application start and
// passed down explicitly. All methods are safe for concurrent use.
type Store struct {
	api     *API
	storage Storage
	lg      *zap.Logger

	mu       sync.Mutex
	cart     []CartItem
	user     *User
	products []product.Product
	promos   []PromoCode

	loadErr    error
	attempt    int
	retryTimer *time.Timer
	closed     bool

	// backoff computes the delay before retry number attempt (0-based).
	// Overridable in tests.
	backoff func(attempt int) time.Duration
}

// NewStore creates a Store, synchronously restoring the persisted cart and
// shopper identity (and any admin token) from storage. Call Load to fetch
// catalog data.
func NewStore(api *API, storage Storage, lg *zap.Logger) *Store {
	if lg == nil {
		lg = zap.NewNop()
	}
	s := &Store{
		api:     api,
		storage: storage,
		lg:      lg,
		backoff: defaultBackoff,
	}

	if raw, ok := storage.Get(KeyCart); ok {
		if err := json.Unmarshal(raw, &s.cart); err != nil {
			lg.Warn("discarding corrupt persisted cart", zap.Error(err))
			s.cart = nil
		}
	}
	if raw, ok := storage.Get(KeyUser); ok {
		var u User
		if err := json.Unmarshal(raw, &u); err == nil {
			s.user = &u
		}
	}
	if raw, ok := storage.Get(KeyToken); ok {
		var token string
		if err := json.Unmarshal(raw, &token); err == nil {
			api.SetToken(token)
		}
	}
	return s
}

// defaultBackoff is min(1000 * 2^attempt, 10000) milliseconds.
func defaultBackoff(attempt int) time.Duration {
	d := time.Second << attempt
	if d > 10*time.Second {
		d = 10 * time.Second
	}
	return d
}

// Load fetches products and promo codes from the server. On failure it
// records the error and schedules up to maxLoadRetries retries with
// exponential backoff. A superseded retry simply lands later and overwrites
// state; in-flight requests are not cancelled.
func (s *Store) Load(ctx context.Context) {
	products, perr := s.api.Products(ctx)
	var promos []PromoCode
	var prerr error
	if perr == nil {
		promos, prerr = s.api.PromoCodes(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	err := perr
	if err == nil {
		err = prerr
	}
	if err != nil {
		s.loadErr = err
		s.scheduleRetryLocked(ctx)
		return
	}

	s.loadErr = nil
	s.attempt = 0
	s.products = products
	s.promos = promos
}

// scheduleRetryLocked arms the retry timer. Must be called with mu held.
func (s *Store) scheduleRetryLocked(ctx context.Context) {
	if s.attempt >= maxLoadRetries {
		s.lg.Error("initial load failed, retries exhausted", zap.Error(s.loadErr))
		return
	}

	delay := s.backoff(s.attempt)
	s.attempt++
	s.lg.Warn("initial load failed, scheduling retry",
		zap.Int("attempt", s.attempt),
		zap.Duration("delay", delay),
		zap.Error(s.loadErr),
	)

	if s.retryTimer != nil {
		s.retryTimer.Stop()
	}
	s.retryTimer = time.AfterFunc(delay, func() {
		s.Load(ctx)
	})
}

// Retry resets the attempt counter and re-triggers the fetch sequence
// immediately. It is the manual "try again" action.
func (s *Store) Retry(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.attempt = 0
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
	s.mu.Unlock()

	s.Load(ctx)
}

// Close cancels any pending retry. It does not cancel in-flight requests.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
}

// Err returns the error recorded by the last failed load, or nil once a
// load has succeeded.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Products returns the cached catalog.
func (s *Store) Products() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]product.Product(nil), s.products...)
}

// Promos returns the cached promo codes.
func (s *Store) Promos() []PromoCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PromoCode(nil), s.promos...)
}

// AddToCart adds one unit of the product. Adding an already-present product
// increments its quantity instead of duplicating the line.
func (s *Store) AddToCart(p product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].Product.ID == p.ID {
			s.cart[i].Quantity++
			s.persistCartLocked()
			return
		}
	}
	s.cart = append(s.cart, CartItem{Product: p, Quantity: 1})
	s.persistCartLocked()
}

// RemoveFromCart drops the line for the given product id.
func (s *Store) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
	s.persistCartLocked()
}

// SetQuantity sets the quantity of an existing line. A quantity below 1
// removes the line entirely.
func (s *Store) SetQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quantity < 1 {
		s.removeLocked(productID)
		s.persistCartLocked()
		return
	}
	for i := range s.cart {
		if s.cart[i].Product.ID == productID {
			s.cart[i].Quantity = quantity
			break
		}
	}
	s.persistCartLocked()
}

// ClearCart empties the cart. Called by checkout only after the server
// confirmed the order.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
	s.persistCartLocked()
}

// Cart returns a copy of the cart lines in insertion order.
func (s *Store) Cart() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CartItem(nil), s.cart...)
}

// CartSubtotal is sum(price * quantity), recomputed on every call.
func (s *Store) CartSubtotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, item := range s.cart {
		total += item.Product.Price * int64(item.Quantity)
	}
	return total
}

// CartCount is sum(quantity), recomputed on every call.
func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.cart {
		count += item.Quantity
	}
	return count
}

// Login records the shopper's placeholder identity and persists it.
func (s *Store) Login(email, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &User{Email: email, Name: name}
	if b, err := json.Marshal(s.user); err == nil {
		s.storage.Set(KeyUser, b)
	}
}

// Logout clears the shopper identity.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.storage.Delete(KeyUser)
}

// CurrentUser returns the shopper identity, or nil when logged out.
func (s *Store) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// AdminLogin authenticates against the server and persists the received
// token. The raw token stays inside the API client.
func (s *Store) AdminLogin(ctx context.Context, username, password string) error {
	if err := s.api.AdminLogin(ctx, username, password); err != nil {
		return err
	}
	if b, err := json.Marshal(s.api.Token()); err == nil {
		s.storage.Set(KeyToken, b)
	}
	return nil
}

// AdminLogout discards the admin token.
func (s *Store) AdminLogout() {
	s.api.AdminLogout()
	s.storage.Delete(KeyToken)
}

// IsAdminLoggedIn reports whether an admin token is held. The token may
// still be expired; that surfaces as ErrUnauthorized on the next call.
func (s *Store) IsAdminLoggedIn() bool {
	return s.api.Token() != ""
}

func (s *Store) removeLocked(productID string) {
	for i := range s.cart {
		if s.cart[i].Product.ID == productID {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return
		}
	}
}

// persistCartLocked writes the full cart to storage. Must be called with mu
// held. Every mutation persists immediately.
func (s *Store) persistCartLocked() {
	b, err := json.Marshal(s.cart)
	if err != nil {
		s.lg.Warn("persist cart", zap.Error(err))
		return
	}
	s.storage.Set(KeyCart, b)
}
