package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a storefront customer contact record. Customers do not authenticate;
// orders reference them by id.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PhoneNo   string    `json:"phone_no,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
