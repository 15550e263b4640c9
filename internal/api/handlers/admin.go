package handlers

import (
	"encoding/json"
	stdErrors "errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

const (
	maxUploadMemory      = 8 << 20
	defaultMaxUploadSize = 32 << 20
)

type AdminHandler struct {
	api           service.AdminAPI
	maxUploadSize int64
}

func NewAdminHandler(api service.AdminAPI) *AdminHandler {
	return &AdminHandler{api: api, maxUploadSize: defaultMaxUploadSize}
}

// WithUploadLimit caps the size of a product form body, media included.
// Non-positive values keep the default.
func (h *AdminHandler) WithUploadLimit(n int64) *AdminHandler {
	if n > 0 {
		h.maxUploadSize = n
	}

	return h
}

func (h *AdminHandler) editor(r *http.Request) *service.AdminEditor {
	return service.NewAdminEditor(h.api, middleware.SessionFromContext(r.Context()))
}

func (h *AdminHandler) page(editor *service.AdminEditor, products []models.Product) *models.AdminPage {
	if products == nil {
		products = []models.Product{}
	}

	return &models.AdminPage{Products: products, PendingDelete: editor.PendingDelete()}
}

// ListProducts godoc
//
//	@Summary		Admin product table
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	models.AdminPage
//	@Failure		502	{object}	response.ErrorResponse	"Products could not be loaded"
//	@Router			/admin/packages [get]
func (h *AdminHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor := h.editor(r)
		defer editor.Close()

		products, err := editor.Load(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, h.page(editor, products))
	}
}

// CreateProduct godoc
//
//	@Summary		Create a product
//	@Description	Multipart form with the product fields, comma separated sizes and colors and any number of media files.
//	@Tags			Admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Success		201	{object}	models.AdminPage
//	@Failure		400	{object}	response.ErrorResponse	"Validation error"
//	@Failure		502	{object}	response.ErrorResponse	"Shop API rejected the product"
//	@Router			/admin/packages [post]
func (h *AdminHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, uploads, cleanup, err := parseProductForm(w, r, h.maxUploadSize)
		defer cleanup()

		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Invalid product form", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		editor := h.editor(r)
		defer editor.Close()

		products, err := editor.Create(r.Context(), form, uploads)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, h.page(editor, products))
	}
}

// UpdateProduct godoc
//
//	@Summary		Update a product
//	@Tags			Admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id	path		string	true	"Product ID"
//	@Success		200	{object}	models.AdminPage
//	@Failure		400	{object}	response.ErrorResponse	"Validation error"
//	@Failure		502	{object}	response.ErrorResponse	"Shop API rejected the product"
//	@Router			/admin/packages/{id} [put]
func (h *AdminHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, uploads, cleanup, err := parseProductForm(w, r, h.maxUploadSize)
		defer cleanup()

		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Invalid product form", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		editor := h.editor(r)
		defer editor.Close()

		products, err := editor.Update(r.Context(), r.PathValue("id"), form, uploads)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, h.page(editor, products))
	}
}

// RequestDelete godoc
//
//	@Summary		Ask to delete a product
//	@Description	Opens the delete confirmation. Nothing is deleted until it is confirmed.
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string	true	"Product ID"
//	@Success		200	{object}	models.AdminPage
//	@Router			/admin/packages/{id}/delete [post]
func (h *AdminHandler) RequestDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor := h.editor(r)

		if err := editor.RequestDelete(r.PathValue("id")); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, h.page(editor, nil))
	}
}

// ConfirmDelete godoc
//
//	@Summary		Confirm the pending delete
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	models.AdminPage
//	@Failure		400	{object}	response.ErrorResponse	"No delete is pending"
//	@Failure		502	{object}	response.ErrorResponse	"Shop API rejected the delete"
//	@Router			/admin/packages/delete/confirm [post]
func (h *AdminHandler) ConfirmDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor := h.editor(r)
		defer editor.Close()

		products, err := editor.ConfirmDelete(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, h.page(editor, products))
	}
}

// CancelDelete godoc
//
//	@Summary		Dismiss the delete confirmation
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	models.AdminPage
//	@Router			/admin/packages/delete [delete]
func (h *AdminHandler) CancelDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor := h.editor(r)

		if err := editor.CancelDelete(); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, h.page(editor, nil))
	}
}

// parseProductForm reads a product from a multipart form, or from a JSON
// body without files. Bodies over limit bytes are rejected. cleanup closes
// any opened uploads and is always safe to call.
func parseProductForm(w http.ResponseWriter, r *http.Request, limit int64) (*models.ProductForm, []models.Upload, func(), error) {
	noop := func() {}

	if r.ContentLength > limit {
		return nil, nil, noop, bodyError("", &http.MaxBytesError{Limit: limit})
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var form models.ProductForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			return nil, nil, noop, bodyError("Invalid request body", err)
		}

		return &form, nil, noop, nil
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		cleanup := noop
		if r.MultipartForm != nil {
			cleanup = func() { _ = r.MultipartForm.RemoveAll() }
		}

		return nil, nil, cleanup, bodyError("Invalid multipart form", err)
	}

	form := &models.ProductForm{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Price:       r.FormValue("price"),
		Sizes:       r.FormValue("sizes"),
		Colors:      r.FormValue("colors"),
	}

	if raw := strings.TrimSpace(r.FormValue("stock")); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return nil, nil, func() { _ = r.MultipartForm.RemoveAll() }, errors.AddValidationError("stock", "must be a whole number").WithError(err)
		}

		form.Stock = stock
	}

	var (
		uploads []models.Upload
		opened  []io.Closer
	)

	cleanup := func() {
		for _, c := range opened {
			_ = c.Close()
		}

		_ = r.MultipartForm.RemoveAll()
	}

	for _, header := range r.MultipartForm.File["media"] {
		file, err := header.Open()
		if err != nil {
			return nil, nil, cleanup, errors.BadRequestError("Unreadable upload").WithDetail(header.Filename).WithError(err)
		}

		opened = append(opened, file)
		uploads = append(uploads, upload(header, file))
	}

	return form, uploads, cleanup, nil
}

func bodyError(message string, err error) *errors.AppError {
	var tooLarge *http.MaxBytesError
	if stdErrors.As(err, &tooLarge) {
		return errors.RequestTooLargeError("Product form too large").WithDetail(strconv.FormatInt(tooLarge.Limit, 10) + " bytes max").WithError(err)
	}

	return errors.BadRequestError(message).WithError(err)
}

func upload(header *multipart.FileHeader, file multipart.File) models.Upload {
	return models.Upload{Filename: header.Filename, Content: file}
}
