package models

import (
	"time"
)

// ServiceCategory is static catalog data used for display and for the
// category substring filter in worker matching.
type ServiceCategory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Icon      string    `json:"icon" gorm:"size:100"`
	Subtitle  string    `json:"subtitle" gorm:"size:255"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the ServiceCategory model
func (ServiceCategory) TableName() string {
	return "service_categories"
}
