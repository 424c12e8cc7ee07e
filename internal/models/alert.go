package models

import (
	"time"
)

// Alert types written to the alert history
const (
	AlertTypeCombined  = "combined"
	AlertRouteMultiple = "multiple"
)

// AlertRecord is written once per dispatched notification batch
type AlertRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	RouteName string    `json:"route_name"`
	AlertType string    `json:"alert_type"`
	SentAt    time.Time `json:"timestamp" gorm:"column:timestamp;index"`
	Details   string    `json:"details" gorm:"type:text"`
}

// TableName keeps the table name stable across model renames
func (AlertRecord) TableName() string {
	return "alerts_sent"
}
