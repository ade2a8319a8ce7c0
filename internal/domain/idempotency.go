// Checkout idempotency record, persisted alongside the content models.
package domain

import "time"

// Idempotency records the outcome of a previously processed checkout,
// keyed by (user_id, key). It lets clients retry POST /checkout safely:
// a replay returns the originally created order instead of charging twice.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID    int       `gorm:"NOT NULL;uniqueIndex:ux_user_key,priority:1"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_key,priority:2"`
	OrderID   int       `gorm:"NOT NULL"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
