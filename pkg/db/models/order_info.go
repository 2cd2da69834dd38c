package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderInfo is a delivery address on a profile's address book. Exactly one
// row per profile carries DefaultAddress=true; the invariant is enforced on
// every selection swap.
type OrderInfo struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProfileID      uuid.UUID `gorm:"column:profile_id;type:uuid;not null;index"`
	FullName       string    `gorm:"column:full_name;not null"`
	Phone          string    `gorm:"column:phone;not null"`
	Province       string    `gorm:"column:province;not null"`
	District       string    `gorm:"column:district;not null"`
	Ward           string    `gorm:"column:ward;not null"`
	StreetAddress  string    `gorm:"column:street_address;not null"`
	DefaultAddress bool      `gorm:"column:default_address;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
