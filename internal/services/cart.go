package service

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

type CartOptions struct {
	// KeepServerQuantity keeps the quantity the shop API reports on load.
	// When false every loaded line starts at quantity 0.
	KeepServerQuantity bool
}

// CartViewModel mirrors the remote cart inside the session. Mutations apply
// locally first and are then pushed upstream; a failed push is logged, the
// local change stays and the cart is marked unsynced until the next Load.
type CartViewModel struct {
	api   CartAPI
	sess  *models.Session
	opts  CartOptions
	loads loader

	mu sync.Mutex
}

func NewCartViewModel(api CartAPI, sess *models.Session, opts CartOptions) *CartViewModel {
	return &CartViewModel{api: api, sess: sess, opts: opts}
}

// Cart returns a copy of the local mirror, empty when nothing is loaded.
func (vm *CartViewModel) Cart() *models.Cart {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	return vm.snapshot()
}

func (vm *CartViewModel) snapshot() *models.Cart {
	if vm.sess.Cart == nil {
		return &models.Cart{Lines: []models.CartLine{}}
	}

	return vm.sess.Cart.Clone()
}

func (vm *CartViewModel) Load(ctx context.Context) (*models.Cart, error) {
	logger := middleware.LoggerFromContext(ctx)

	if !vm.sess.IsAuthenticated() {
		return nil, errors.UnauthorizedError("Please log in to view your cart")
	}

	ctx, gen := vm.loads.begin(ctx)
	defer vm.loads.end(gen)

	lines, err := vm.api.GetCart(ctx, vm.sess.Token)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if !vm.loads.current(gen) {
		return nil, ErrSuperseded
	}

	if err != nil {
		logger.Error("Failed to load cart", slog.String("error", err.Error()))

		if errors.HasCode(err, errors.ErrCodeUnauthorized) {
			return nil, err
		}

		return nil, errors.LoadFailedError("Failed to load cart").WithError(err)
	}

	cart := &models.Cart{Lines: make([]models.CartLine, 0, len(lines))}
	for _, line := range lines {
		if !vm.opts.KeepServerQuantity {
			line.Quantity = 0
		}

		cart.Lines = append(cart.Lines, line)
	}

	vm.sess.Cart = cart
	vm.sess.Touch()

	return vm.snapshot(), nil
}

// ParseQuantity reads a quantity from form or JSON input. ok is false for
// anything that is not a whole number of at least 1.
func ParseQuantity(raw any) (int, bool) {
	var n int

	switch v := raw.(type) {
	case int:
		n = v
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 {
			return 0, false
		}

		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}

		n = parsed
	default:
		return 0, false
	}

	if n < 1 {
		return 0, false
	}

	return n, true
}

// SetQuantity is UpdateQuantity for raw user input. Input that is not a
// positive whole number leaves the cart untouched.
func (vm *CartViewModel) SetQuantity(ctx context.Context, key models.LineKey, raw any) (*models.Cart, error) {
	quantity, ok := ParseQuantity(raw)
	if !ok {
		return vm.Cart(), nil
	}

	return vm.UpdateQuantity(ctx, key, quantity)
}

func (vm *CartViewModel) UpdateQuantity(ctx context.Context, key models.LineKey, quantity int) (*models.Cart, error) {
	logger := middleware.LoggerFromContext(ctx)

	vm.mu.Lock()

	if quantity < 1 {
		defer vm.mu.Unlock()
		return vm.snapshot(), nil
	}

	if !vm.sess.IsAuthenticated() {
		defer vm.mu.Unlock()
		return vm.snapshot(), errors.UnauthorizedError("Authentication required")
	}

	idx := vm.sess.Cart.Find(key)
	if idx < 0 {
		defer vm.mu.Unlock()
		logger.Warn("Cart line not found", slog.String("productId", key.ProductID), slog.String("size", key.Size), slog.String("color", key.Color))
		return vm.snapshot(), errors.LineNotFoundError("Item not found in the cart")
	}

	vm.sess.Cart.Lines[idx].Quantity = quantity
	vm.sess.Touch()
	token, pushed := vm.sess.Token, vm.sess.Cart

	vm.mu.Unlock()

	if err := vm.api.UpdateCartLine(ctx, token, key, quantity); err != nil {
		logger.Error("Failed to update cart line", slog.String("productId", key.ProductID), slog.String("error", err.Error()))
		vm.markUnsynced(pushed, "update")
	}

	return vm.Cart(), nil
}

func (vm *CartViewModel) RemoveLine(ctx context.Context, key models.LineKey) (*models.Cart, error) {
	logger := middleware.LoggerFromContext(ctx)

	vm.mu.Lock()

	if !vm.sess.IsAuthenticated() {
		defer vm.mu.Unlock()
		return vm.snapshot(), errors.UnauthorizedError("Authentication required")
	}

	idx := vm.sess.Cart.Find(key)
	if idx < 0 {
		defer vm.mu.Unlock()
		logger.Warn("Cart line to remove not found", slog.String("productId", key.ProductID), slog.String("size", key.Size), slog.String("color", key.Color))
		return vm.snapshot(), nil
	}

	vm.sess.Cart.Lines = slices.Delete(vm.sess.Cart.Lines, idx, idx+1)
	vm.sess.Touch()
	token, pushed := vm.sess.Token, vm.sess.Cart

	vm.mu.Unlock()

	if err := vm.api.DeleteCartLine(ctx, token, key); err != nil {
		logger.Error("Failed to delete cart line", slog.String("productId", key.ProductID), slog.String("error", err.Error()))
		vm.markUnsynced(pushed, "delete")
	}

	return vm.Cart(), nil
}

// markUnsynced flags pushed as out of step with the shop API. A cart that a
// Load or Checkout has replaced in the meantime is left alone.
func (vm *CartViewModel) markUnsynced(pushed *models.Cart, operation string) {
	metrics.CartSyncFailed(operation)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if pushed != nil && vm.sess.Cart == pushed {
		pushed.Unsynced = true
		vm.sess.Touch()
	}
}

// Checkout hands a snapshot of the cart to the payment session creator and
// returns the URL to send the visitor to. The lock is not held during the
// call; the local cart is cleared only on success.
func (vm *CartViewModel) Checkout(ctx context.Context) (string, error) {
	logger := middleware.LoggerFromContext(ctx)

	vm.mu.Lock()

	if vm.sess.Cart.IsEmpty() {
		vm.mu.Unlock()
		return "", errors.CartEmptyError("Your cart is empty")
	}

	if !vm.sess.IsAuthenticated() {
		vm.mu.Unlock()
		return "", errors.UnauthorizedError("Please log in to checkout")
	}

	token, submitted := vm.sess.Token, vm.sess.Cart
	order := submitted.Clone()

	vm.mu.Unlock()

	url, err := vm.api.CreateCheckoutSession(ctx, token, order)
	if err != nil {
		logger.Error("Failed to create checkout session", slog.String("error", err.Error()))

		if errors.HasCode(err, errors.ErrCodeUnauthorized) {
			return "", err
		}

		return "", errors.CheckoutFailedError("Checkout failed. Please try again.").WithError(err)
	}

	if url == "" {
		logger.Error("Checkout session response carried no redirect URL")
		return "", errors.CheckoutFailedError("Checkout failed. Please try again.").WithDetail("missing redirect URL")
	}

	vm.mu.Lock()
	// A cart reloaded while the session was being created is newer than the
	// order and stays.
	if vm.sess.Cart == submitted {
		vm.sess.Cart = &models.Cart{Lines: []models.CartLine{}}
		vm.sess.Touch()
	}
	vm.mu.Unlock()

	logger.Info("Checkout session created")

	return url, nil
}

// AddToCart posts one line per selected color, each with quantity 1. A size
// and at least one color must be chosen; the choice is checked against what
// the product offers before anything is sent.
func (vm *CartViewModel) AddToCart(ctx context.Context, product *models.Product, size string, colors []string) error {
	logger := middleware.LoggerFromContext(ctx)

	if !vm.sess.IsAuthenticated() {
		return errors.UnauthorizedError("Please log in to add items to your cart")
	}

	size = strings.TrimSpace(size)
	if size == "" {
		return errors.ValidationError("Please select a size")
	}

	if len(product.Sizes) > 0 && !slices.Contains(product.Sizes, size) {
		return errors.AddValidationError("size", "not offered for this product")
	}

	selected := make([]string, 0, len(colors))
	for _, c := range colors {
		if c = strings.TrimSpace(c); c != "" && !slices.Contains(selected, c) {
			selected = append(selected, c)
		}
	}

	if len(selected) == 0 {
		return errors.ValidationError("Please select at least one color")
	}

	for _, c := range selected {
		if len(product.Colors) > 0 && !slices.Contains(product.Colors, c) {
			return errors.AddValidationError("colors", c+" is not offered for this product")
		}
	}

	for _, c := range selected {
		if err := vm.api.AddToCart(ctx, vm.sess.Token, product, size, c, 1); err != nil {
			logger.Error("Failed to add to cart", slog.String("productId", product.ID), slog.String("color", c), slog.String("error", err.Error()))
			return err
		}
	}

	logger.Info("Added to cart", slog.String("productId", product.ID), slog.Int("lines", len(selected)))

	return nil
}

// Close cancels an in-flight load; its result will be dropped.
func (vm *CartViewModel) Close() {
	vm.loads.close()
}
