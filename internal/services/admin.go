package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/shopapi"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// AdminEditor is the role gated product console. Every successful change
// re-fetches the whole product list; deletes go through a confirmation step
// whose pending product id lives in the session.
type AdminEditor struct {
	api       AdminAPI
	sess      *models.Session
	validator *validator.Validate
	loads     loader

	mu       sync.Mutex
	products []models.Product
}

func NewAdminEditor(api AdminAPI, sess *models.Session) *AdminEditor {
	return &AdminEditor{
		api:       api,
		sess:      sess,
		validator: validator.New(),
		products:  []models.Product{},
	}
}

func (e *AdminEditor) authorize() error {
	if !e.sess.IsAuthenticated() {
		return errors.UnauthorizedError("Authentication required")
	}

	if !e.sess.IsAdmin() {
		return errors.ForbiddenError("Admin access required")
	}

	return nil
}

func (e *AdminEditor) Load(ctx context.Context) ([]models.Product, error) {
	if err := e.authorize(); err != nil {
		return nil, err
	}

	return e.refresh(ctx)
}

func (e *AdminEditor) refresh(ctx context.Context) ([]models.Product, error) {
	ctx, gen := e.loads.begin(ctx)
	defer e.loads.end(gen)

	products, err := e.api.ListProducts(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loads.current(gen) {
		return nil, ErrSuperseded
	}

	if err != nil {
		middleware.LoggerFromContext(ctx).Error("Error fetching products", slog.String("error", err.Error()))
		return slices.Clone(e.products), errors.LoadFailedError("Failed to load products").WithError(err)
	}

	e.products = SanitizeProducts(products)

	return slices.Clone(e.products), nil
}

// afterChange re-fetches the list. The change itself already succeeded, so a
// failed re-fetch is logged and the last known list returned.
func (e *AdminEditor) afterChange(ctx context.Context) []models.Product {
	products, err := e.refresh(ctx)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("Product list not refreshed after change", slog.String("error", err.Error()))
	}

	return products
}

func (e *AdminEditor) Products() []models.Product {
	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Clone(e.products)
}

func (e *AdminEditor) Create(ctx context.Context, form *models.ProductForm, uploads []models.Upload) ([]models.Product, error) {
	if err := e.authorize(); err != nil {
		return nil, err
	}

	write, err := e.buildWrite(form, uploads)
	if err != nil {
		return nil, err
	}

	if err := e.api.CreateProduct(ctx, e.sess.Token, write); err != nil {
		middleware.LoggerFromContext(ctx).Error("Error saving product", slog.String("title", write.Title), slog.String("error", err.Error()))
		return nil, err
	}

	middleware.LoggerFromContext(ctx).Info("Product created", slog.String("title", write.Title))

	return e.afterChange(ctx), nil
}

func (e *AdminEditor) Update(ctx context.Context, id string, form *models.ProductForm, uploads []models.Upload) ([]models.Product, error) {
	if err := e.authorize(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(id) == "" {
		return nil, errors.BadRequestError("Product ID is required")
	}

	write, err := e.buildWrite(form, uploads)
	if err != nil {
		return nil, err
	}

	if err := e.api.UpdateProduct(ctx, e.sess.Token, id, write); err != nil {
		middleware.LoggerFromContext(ctx).Error("Error saving product", slog.String("productId", id), slog.String("error", err.Error()))
		return nil, err
	}

	middleware.LoggerFromContext(ctx).Info("Product updated", slog.String("productId", id))

	return e.afterChange(ctx), nil
}

// RequestDelete opens the confirmation for id. Nothing is sent yet.
func (e *AdminEditor) RequestDelete(id string) error {
	if err := e.authorize(); err != nil {
		return err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return errors.BadRequestError("Product ID is required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.sess.PendingDelete = id
	e.sess.Touch()

	return nil
}

func (e *AdminEditor) PendingDelete() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.sess.PendingDelete
}

func (e *AdminEditor) CancelDelete() error {
	if err := e.authorize(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess.PendingDelete != "" {
		e.sess.PendingDelete = ""
		e.sess.Touch()
	}

	return nil
}

// ConfirmDelete deletes the product awaiting confirmation. On failure the
// confirmation stays open.
func (e *AdminEditor) ConfirmDelete(ctx context.Context) ([]models.Product, error) {
	if err := e.authorize(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	id := e.sess.PendingDelete
	e.mu.Unlock()

	if id == "" {
		return nil, errors.BadRequestError("No product is awaiting deletion")
	}

	if err := e.api.DeleteProduct(ctx, e.sess.Token, id); err != nil {
		middleware.LoggerFromContext(ctx).Error("Error deleting product", slog.String("productId", id), slog.String("error", err.Error()))
		return nil, err
	}

	e.mu.Lock()
	e.sess.PendingDelete = ""
	e.sess.Touch()
	e.mu.Unlock()

	middleware.LoggerFromContext(ctx).Info("Product deleted", slog.String("productId", id))

	return e.afterChange(ctx), nil
}

// Close cancels an in-flight load; its result will be dropped.
func (e *AdminEditor) Close() {
	e.loads.close()
}

func (e *AdminEditor) buildWrite(form *models.ProductForm, uploads []models.Upload) (*shopapi.ProductWrite, error) {
	if form == nil {
		return nil, errors.BadRequestError("Product details are required")
	}

	if err := utils.ValidateStruct(e.validator, form); err != nil {
		if validationErrs, ok := utils.AsValidationErrors(err); ok && len(validationErrs) > 0 {
			first := validationErrs[0]
			return nil, errors.AddValidationError(strings.ToLower(first.Field()), first.Tag()).WithError(err)
		}

		return nil, errors.ValidationError("Invalid product details").WithError(err)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(form.Price))
	if err != nil {
		return nil, errors.AddValidationError("price", "must be a decimal number").WithError(err)
	}

	if price.IsNegative() {
		return nil, errors.AddValidationError("price", "must not be negative")
	}

	return &shopapi.ProductWrite{
		Title:       strings.TrimSpace(form.Title),
		Description: strings.TrimSpace(form.Description),
		Category:    strings.TrimSpace(form.Category),
		Price:       price,
		Stock:       form.Stock,
		Sizes:       SplitTags(form.Sizes),
		Colors:      SplitTags(form.Colors),
		Media:       uploads,
	}, nil
}

// SplitTags turns comma separated input into a list, trimming each entry and
// dropping blanks. A JSON array is accepted as well.
func SplitTags(raw string) []string {
	tags := []string{}

	if trimmed := strings.TrimSpace(raw); strings.HasPrefix(trimmed, "[") {
		var decoded []string
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			raw = strings.Join(decoded, ",")
		}
	}

	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}
