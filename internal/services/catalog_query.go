package service

import (
	"slices"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultCategories are always offered as filters, whatever the catalog holds.
var DefaultCategories = []string{"Men", "Women", "kids"}

// DeriveCategories lists the distinct categories of products in first seen
// order followed by the defaults, compared case-insensitively and title-cased
// for display.
func DeriveCategories(products []models.Product) []string {
	caser := cases.Title(language.Und)
	seen := make(map[string]struct{})
	categories := make([]string, 0, len(products)+len(DefaultCategories))

	add := func(category string) {
		key := strings.ToLower(strings.TrimSpace(category))
		if key == "" {
			return
		}

		if _, ok := seen[key]; ok {
			return
		}

		seen[key] = struct{}{}
		categories = append(categories, caser.String(key))
	}

	for i := range products {
		add(products[i].Category)
	}

	for _, category := range DefaultCategories {
		add(category)
	}

	return categories
}

// FilterProducts keeps products in any of the selected categories whose title
// or category contains search. An empty selection or search passes all; any
// other search, whitespace included, is a plain substring test.
func FilterProducts(products []models.Product, categories []string, search string) []models.Product {
	selected := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			selected[c] = struct{}{}
		}
	}

	needle := strings.ToLower(search)

	filtered := make([]models.Product, 0, len(products))

	for _, p := range products {
		category := strings.ToLower(p.Category)

		if len(selected) > 0 {
			if _, ok := selected[category]; !ok {
				continue
			}
		}

		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) && !strings.Contains(category, needle) {
			continue
		}

		filtered = append(filtered, p)
	}

	return filtered
}

// SortProducts orders a copy of products by price. Ties keep their relative
// order and SortNone returns them as given.
func SortProducts(products []models.Product, order models.SortOrder) []models.Product {
	sorted := slices.Clone(products)
	if sorted == nil {
		sorted = []models.Product{}
	}

	switch order {
	case models.SortAscending:
		slices.SortStableFunc(sorted, func(a, b models.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case models.SortDescending:
		slices.SortStableFunc(sorted, func(a, b models.Product) int {
			return b.Price.Cmp(a.Price)
		})
	}

	return sorted
}

// ParseSortOrder accepts asc, desc or empty; anything else is SortNone.
func ParseSortOrder(raw string) models.SortOrder {
	switch models.SortOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case models.SortAscending:
		return models.SortAscending
	case models.SortDescending:
		return models.SortDescending
	default:
		return models.SortNone
	}
}
