package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func printProducts(out io.Writer, products []models.Product) {
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE\tSTOCK")

	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Title, p.Category, p.Price.StringFixed(2), p.Stock)
	}

	tw.Flush()
}

func printProduct(out io.Writer, p *models.Product) {
	fmt.Fprintf(out, "%s  (%s)\n", p.Title, p.ID)
	fmt.Fprintf(out, "Category: %s\n", p.Category)
	fmt.Fprintf(out, "Price:    %s\n", p.Price.StringFixed(2))
	fmt.Fprintf(out, "Stock:    %d\n", p.Stock)
	fmt.Fprintf(out, "Sizes:    %s\n", strings.Join(p.Sizes, ", "))
	fmt.Fprintf(out, "Colors:   %s\n", strings.Join(p.Colors, ", "))

	if image := p.MainImage(); image != "" {
		fmt.Fprintf(out, "Image:    %s\n", image)
	}

	if p.Description != "" {
		fmt.Fprintf(out, "\n%s\n", p.Description)
	}
}

func printCart(out io.Writer, cart *models.Cart) {
	view := cart.View()
	if view.Empty {
		fmt.Fprintln(out, view.Message)
		return
	}

	tw := newTable(out)
	fmt.Fprintln(tw, "PRODUCT\tTITLE\tSIZE\tCOLOR\tQTY\tPRICE\tTOTAL")

	for _, line := range view.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			line.Product.ID, line.Product.Title, line.Size, line.Color, line.Quantity,
			line.Product.Price.StringFixed(2), line.LineTotal.StringFixed(2))
	}

	tw.Flush()
	fmt.Fprintf(out, "\nTotal: %s\n", view.Total.StringFixed(2))

	if view.Unsynced {
		fmt.Fprintln(out, "Some changes could not be saved to the shop and are only kept locally.")
	}
}

func printUser(out io.Writer, sess *models.Session, user *models.User) {
	role := string(sess.Role)
	if user == nil {
		fmt.Fprintf(out, "Logged in (%s), profile unavailable\n", role)
		return
	}

	fmt.Fprintf(out, "%s %s <%s> (%s)\n", user.FirstName, user.LastName, user.Email, role)
}
