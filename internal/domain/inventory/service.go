package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultExpiryWindow is how far ahead the expiring-soon listing looks.
const DefaultExpiryWindow = 60 * 24 * time.Hour

type Service struct {
	inv      Repository
	validate *validator.Validate
}

func NewService(inv Repository) *Service {
	return &Service{
		inv:      inv,
		validate: validator.New(),
	}
}

func (s *Service) CreateItem(ctx context.Context, it *Item) error {
	if err := s.validate.Struct(it); err != nil {
		return fmt.Errorf("invalid item: %w", err)
	}
	return s.inv.CreateItem(ctx, it)
}

func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.inv.GetItem(ctx, id)
}

func (s *Service) UpdateItem(ctx context.Context, it *Item) error {
	if err := s.validate.Struct(it); err != nil {
		return fmt.Errorf("invalid item: %w", err)
	}
	return s.inv.UpdateItem(ctx, it)
}

func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.inv.DeleteItem(ctx, id)
}

func (s *Service) ListItems(ctx context.Context, limit, offset int) ([]*Item, int, error) {
	return s.inv.ListItems(ctx, limit, offset)
}

// RecordMovement applies a stock change. The sign of Quantity is normalized
// from the movement type: "in" always adds, "out" always subtracts, "adjust"
// is taken as given. Stock may never go below zero.
func (s *Service) RecordMovement(ctx context.Context, mv *Movement) error {
	if err := s.validate.Struct(mv); err != nil {
		return fmt.Errorf("invalid movement: %w", err)
	}
	if mv.Quantity == 0 {
		return fmt.Errorf("movement quantity must be non-zero")
	}
	if _, err := s.inv.GetItem(ctx, mv.ItemID); err != nil {
		return fmt.Errorf("item not found: %w", err)
	}

	switch mv.Type {
	case MovementIn:
		if mv.Quantity < 0 {
			mv.Quantity = -mv.Quantity
		}
	case MovementOut:
		if mv.Quantity > 0 {
			mv.Quantity = -mv.Quantity
		}
	}

	if mv.Quantity < 0 {
		stock, err := s.inv.CurrentStock(ctx, mv.ItemID)
		if err != nil {
			return err
		}
		if stock+mv.Quantity < 0 {
			return fmt.Errorf("insufficient stock: have %d, requested %d", stock, -mv.Quantity)
		}
	}
	return s.inv.RecordMovement(ctx, mv)
}

func (s *Service) ListMovements(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*Movement, int, error) {
	return s.inv.ListMovements(ctx, itemID, limit, offset)
}

func (s *Service) CurrentStock(ctx context.Context, itemID uuid.UUID) (int, error) {
	return s.inv.CurrentStock(ctx, itemID)
}

func (s *Service) LowStock(ctx context.Context) ([]*ItemStock, error) {
	return s.inv.LowStock(ctx)
}

func (s *Service) ExpiringSoon(ctx context.Context, window time.Duration) ([]*Item, error) {
	if window <= 0 {
		window = DefaultExpiryWindow
	}
	return s.inv.ExpiringSoon(ctx, time.Now().Add(window))
}
