package domain

import (
	"time"

	"github.com/google/uuid"
)

// Admin is a back-office account. The password is stored only as a bcrypt
// hash and is never serialized.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminPatch describes a partial admin update. A supplied password is
// re-hashed by the service before it reaches storage.
type AdminPatch struct {
	Username *string
	Password *string
}
