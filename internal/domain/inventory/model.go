package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Movement types.
const (
	MovementIn     = "in"
	MovementOut    = "out"
	MovementAdjust = "adjust"
)

// Item is a stocked material, typically a composite resin.
type Item struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Name         string     `db:"name" json:"name" validate:"required"`
	Shade        *string    `db:"shade" json:"shade,omitempty"`
	Brand        *string    `db:"brand" json:"brand,omitempty"`
	Unit         string     `db:"unit" json:"unit" validate:"required"`
	ReorderLevel int        `db:"reorder_level" json:"reorder_level" validate:"gte=0"`
	ExpiryDate   *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Movement is a single stock change for an item. Quantity is positive for
// "in", negative for "out"; "adjust" may carry either sign.
type Movement struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ItemID    uuid.UUID `db:"item_id" json:"item_id"`
	Type      string    `db:"type" json:"type" validate:"required,oneof=in out adjust"`
	Quantity  int       `db:"quantity" json:"quantity"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ItemStock pairs an item with its current stock level.
type ItemStock struct {
	Item  *Item `json:"item"`
	Stock int   `json:"stock"`
}
