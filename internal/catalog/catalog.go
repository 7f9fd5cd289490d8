// Package catalog serves the static product dataset. Nothing here goes
// to the network: the data ships with the binary and filtering is a pure
// function over it.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/unimarket/storefront/internal/models"
)

//go:embed products.json
var productData []byte

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var categories = []Category{
	{ID: "apparel", Name: "Apparel", Description: "T-shirts, hoodies and supporter wear"},
	{ID: "accessories", Name: "Accessories", Description: "Mugs, bottles, bags and small gifts"},
	{ID: "stationery", Name: "Stationery", Description: "Notebooks and writing gear for lectures"},
	{ID: "furniture", Name: "Furniture", Description: "Study furniture for halls and home"},
	{ID: "outdoor", Name: "Outdoor", Description: "Gear for campus life outside the library"},
}

type Catalog struct {
	products []models.Product
	byID     map[string]models.Product
}

func Load() (*Catalog, error) {
	var products []models.Product
	if err := json.Unmarshal(productData, &products); err != nil {
		return nil, fmt.Errorf("decode product data: %w", err)
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID}, nil
}

// Products returns a copy of the full dataset in shipped order.
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) ByID(id string) (models.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *Catalog) Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c *Catalog) Category(id string) (Category, bool) {
	for _, cat := range categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}
