package models

import (
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices leave the storefront as JSON numbers, matching what the shop API sends.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"images"`
	Sizes       []string        `json:"sizes"`
	Colors      []string        `json:"colors"`
}

// MainImage is the first image reference, or "" when the product has none.
func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}

	return p.Images[0]
}

type SortOrder string

const (
	SortNone       SortOrder = ""
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// ProductForm is the admin editor's proposed write. Sizes and colors are
// entered as comma separated text.
type ProductForm struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category" validate:"required,max=100"`
	Price       string `json:"price" validate:"required,numeric"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Sizes       string `json:"sizes"`
	Colors      string `json:"colors"`
}

// Upload is one image file attached to a create or update.
type Upload struct {
	Filename string
	Content  io.Reader
}

// CatalogPage is the render-ready state of the collections view.
type CatalogPage struct {
	Products   []Product `json:"products"`
	Categories []string  `json:"categories"`
	Selected   []string  `json:"selected"`
	Search     string    `json:"search"`
	Sort       SortOrder `json:"sort"`
	Empty      bool      `json:"empty"`
	Message    string    `json:"message,omitempty"`
}

// HomePage holds the two product strips shown on the landing page.
type HomePage struct {
	BestSelling []Product `json:"best_selling"`
	Latest      []Product `json:"latest"`
}

// AdminPage is the admin console: the product table and the product awaiting
// delete confirmation, if any.
type AdminPage struct {
	Products      []Product `json:"products"`
	PendingDelete string    `json:"pending_delete,omitempty"`
}
