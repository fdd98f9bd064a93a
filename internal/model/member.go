package model

// Member is a registered customer. Name is unique across members.
type Member struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name" validate:"required"`
	Address Address `json:"address"`
}
