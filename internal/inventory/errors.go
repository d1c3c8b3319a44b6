package inventory

import (
	"errors"
	"strings"
)

var (
	ErrNotFound          = errors.New("sweet not found")
	ErrInsufficientStock = errors.New("not enough stock available")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidSweet      = errors.New("invalid sweet")
)

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
