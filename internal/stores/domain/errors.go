package domain

import "errors"

var (
	ErrStoreNotFound = errors.New("store not found")
	ErrNotOwner      = errors.New("caller does not own this store")
)
