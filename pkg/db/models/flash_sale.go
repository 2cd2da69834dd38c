package models

import (
	"time"

	"github.com/google/uuid"
)

// FlashSale is a time-boxed promotion window. Active means now is within
// [StartTime, EndTime).
type FlashSale struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	StartTime time.Time `gorm:"column:start_time;not null;index"`
	EndTime   time.Time `gorm:"column:end_time;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Items []FlashSaleItem `gorm:"foreignKey:FlashSaleID"`
}

// IsActive reports whether now falls inside the sale window.
func (f FlashSale) IsActive(now time.Time) bool {
	return !now.Before(f.StartTime) && now.Before(f.EndTime)
}
