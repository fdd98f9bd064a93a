package model

import "errors"

// ErrNotEnoughStock is returned when an item cannot cover the requested quantity.
var ErrNotEnoughStock = errors.New("need more stock")

// Item is a sellable product. Every item in the catalog is a book.
type Item struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Price         int    `json:"price"`
	StockQuantity int    `json:"stockQuantity"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn"`
	ImageKey      string `json:"-"`
}

// RemoveStock decreases the stock quantity, refusing to go below zero.
func (i *Item) RemoveStock(quantity int) error {
	rest := i.StockQuantity - quantity
	if rest < 0 {
		return ErrNotEnoughStock
	}
	i.StockQuantity = rest
	return nil
}
