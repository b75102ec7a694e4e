package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	CreateItem(ctx context.Context, it *Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	UpdateItem(ctx context.Context, it *Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context, limit, offset int) ([]*Item, int, error)

	RecordMovement(ctx context.Context, mv *Movement) error
	ListMovements(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*Movement, int, error)
	CurrentStock(ctx context.Context, itemID uuid.UUID) (int, error)
	LowStock(ctx context.Context) ([]*ItemStock, error)
	ExpiringSoon(ctx context.Context, before time.Time) ([]*Item, error)
}
