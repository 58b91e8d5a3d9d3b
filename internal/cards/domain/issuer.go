package domain

import (
	"time"

	"github.com/google/uuid"
)

// Issuer is a card-issuing institution known to the vault.
type Issuer struct {
	ID        uuid.UUID
	Label     string
	CreatedAt time.Time
}
