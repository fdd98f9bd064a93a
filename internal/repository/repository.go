// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) and contain no business logic:
// they return sql.ErrNoRows for missing rows and ErrNotEnoughStock when a
// guarded stock update matches nothing.
package repository

import "errors"

// ErrNotEnoughStock is returned when a stock decrement would go below zero.
var ErrNotEnoughStock = errors.New("not enough stock")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}
