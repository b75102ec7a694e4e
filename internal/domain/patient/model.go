package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table.
type Patient struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ChartNumber string     `db:"chart_number" json:"chart_number" validate:"required"`
	FirstName   string     `db:"first_name" json:"first_name" validate:"required"`
	LastName    string     `db:"last_name" json:"last_name" validate:"required"`
	BirthDate   *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Gender      *string    `db:"gender" json:"gender,omitempty" validate:"omitempty,oneof=male female other unknown"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	Email       *string    `db:"email" json:"email,omitempty" validate:"omitempty,email"`
	AddressLine *string    `db:"address_line" json:"address_line,omitempty"`
	City        *string    `db:"city" json:"city,omitempty"`
	State       *string    `db:"state" json:"state,omitempty"`
	PostalCode  *string    `db:"postal_code" json:"postal_code,omitempty"`
	Allergies   *string    `db:"allergies" json:"allergies,omitempty"`
	Notes       *string    `db:"notes" json:"notes,omitempty"`
	Archived    bool       `db:"archived" json:"archived"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
