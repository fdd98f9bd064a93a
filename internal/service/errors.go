package service

import "errors"

var (
	ErrInvalidID          = errors.New("id must be positive")
	ErrNameRequired       = errors.New("name is required")
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicateMember    = errors.New("member already exists")
	ErrInvalidCount       = errors.New("count must be at least 1")
	ErrNotEnoughStock     = errors.New("not enough stock")
	ErrAlreadyCanceled    = errors.New("order is already cancelled")
	ErrAlreadyDelivered   = errors.New("delivered orders cannot be cancelled")
	ErrStorageUnavailable = errors.New("object storage is not configured")
	ErrReaderNil          = errors.New("reader is nil")
)
