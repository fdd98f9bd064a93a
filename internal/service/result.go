package service

// Result wraps a list response so fields can be added next to the data
// without breaking clients.
type Result[T any] struct {
	Count int `json:"count"`
	Data  []T `json:"data"`
}

// NewResult wraps data, normalizing nil to an empty list.
func NewResult[T any](data []T) Result[T] {
	if data == nil {
		data = []T{}
	}
	return Result[T]{Count: len(data), Data: data}
}
