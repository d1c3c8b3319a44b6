package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Service implements the sweet shop inventory operations on top of a Store.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

func validate(s *Sweet) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Category = strings.TrimSpace(s.Category)
	switch {
	case s.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidSweet)
	case s.Price < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidSweet)
	case s.Quantity < 0:
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidSweet)
	}
	return nil
}

func (s *Service) Add(ctx context.Context, in Sweet) (*Sweet, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, &in); err != nil {
		return nil, err
	}
	s.logger.Info("sweet added", "id", in.ID, "name", in.Name)
	return &in, nil
}

func (s *Service) List(ctx context.Context) ([]Sweet, error) {
	return s.store.List(ctx, Filter{})
}

func (s *Service) Search(ctx context.Context, f Filter) ([]Sweet, error) {
	return s.store.List(ctx, f)
}

func (s *Service) SearchByName(ctx context.Context, name string) ([]Sweet, error) {
	return s.store.List(ctx, Filter{Name: name})
}

func (s *Service) SearchByCategory(ctx context.Context, category string) ([]Sweet, error) {
	return s.store.List(ctx, Filter{Category: category})
}

// SearchByPriceRange returns sweets priced within [minPrice, maxPrice].
func (s *Service) SearchByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]Sweet, error) {
	return s.store.List(ctx, Filter{MinPrice: &minPrice, MaxPrice: &maxPrice})
}

func (s *Service) Get(ctx context.Context, id int64) (*Sweet, error) {
	return s.store.Get(ctx, id)
}

// Update replaces name, category, price and quantity of sweet id.
func (s *Service) Update(ctx context.Context, id int64, in Sweet) (*Sweet, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	in.ID = id
	if err := s.store.Update(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("sweet deleted", "id", id)
	return nil
}

// Purchase removes qty units from stock. It fails with ErrInsufficientStock,
// leaving the stock untouched, when fewer than qty units are available.
func (s *Service) Purchase(ctx context.Context, id int64, qty int) (*Sweet, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	sw, err := s.store.AdjustQuantity(ctx, id, -qty)
	if err != nil {
		return nil, err
	}
	s.logger.Info("sweet purchased", "id", id, "qty", qty, "remaining", sw.Quantity)
	return sw, nil
}

func (s *Service) Restock(ctx context.Context, id int64, qty int) (*Sweet, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	sw, err := s.store.AdjustQuantity(ctx, id, qty)
	if err != nil {
		return nil, err
	}
	s.logger.Info("sweet restocked", "id", id, "qty", qty, "quantity", sw.Quantity)
	return sw, nil
}
