package models

import (
	"github.com/shopspring/decimal"
)

// LineKey identifies a cart line. Two lines for the same product with a
// different size or color are distinct.
type LineKey struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type CartLine struct {
	Product  Product `json:"product"`
	Size     string  `json:"size"`
	Color    string  `json:"color"`
	Quantity int     `json:"quantity"`
}

func (l *CartLine) Key() LineKey {
	return LineKey{ProductID: l.Product.ID, Size: l.Size, Color: l.Color}
}

func (l *CartLine) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the local mirror of the remote cart. The total is never stored,
// it is always summed from the current lines.
type Cart struct {
	Lines []CartLine `json:"lines"`
	// Unsynced is set when a local mutation could not be pushed upstream and
	// cleared by the next full load.
	Unsynced bool `json:"unsynced"`
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero

	for i := range c.Lines {
		total = total.Add(c.Lines[i].LineTotal())
	}

	return total
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// Find returns the index of the line matching key, or -1.
func (c *Cart) Find(key LineKey) int {
	if c == nil {
		return -1
	}

	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			return i
		}
	}

	return -1
}

func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}

	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)

	return &Cart{Lines: lines, Unsynced: c.Unsynced}
}

type CartLineView struct {
	CartLine
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartView is the render-ready form of a cart.
type CartView struct {
	Lines    []CartLineView  `json:"lines"`
	Total    decimal.Decimal `json:"total"`
	Empty    bool            `json:"empty"`
	Message  string          `json:"message,omitempty"`
	Unsynced bool            `json:"unsynced"`
}

func (c *Cart) View() *CartView {
	view := &CartView{Lines: []CartLineView{}, Total: decimal.Zero, Empty: true, Message: "Your cart is empty"}
	if c == nil {
		return view
	}

	for _, line := range c.Lines {
		view.Lines = append(view.Lines, CartLineView{CartLine: line, LineTotal: line.LineTotal()})
	}

	view.Total = c.Total()
	view.Unsynced = c.Unsynced
	if len(c.Lines) > 0 {
		view.Empty = false
		view.Message = ""
	}

	return view
}

type UpdateLineRequest struct {
	LineKey
	// Quantity is kept raw so non-numeric input reaches the cart as a no-op
	// rather than failing the decode.
	Quantity any `json:"quantity"`
}

type RemoveLineRequest struct {
	LineKey
}

type AddToCartRequest struct {
	Size   string   `json:"size"`
	Colors []string `json:"colors"`
}
