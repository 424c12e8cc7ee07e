package models

import (
	"time"
)

// NotAvailable is stored for text fields the results page did not provide
const NotAvailable = "N/A"

// OrNotAvailable returns s, or NotAvailable when s is empty
func OrNotAvailable(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

// CheckResult is one scraped result row for a route. It lives only for the
// sweep that produced it.
type CheckResult struct {
	Available     bool     `json:"available"`
	Price         *float64 `json:"price"`
	TrainNumber   string   `json:"train_number"`
	DepartureTime string   `json:"departure_time"`
	ArrivalTime   string   `json:"arrival_time"`
}

// PriceHistory is the append-only record of a single check result
type PriceHistory struct {
	ID            uint      `json:"id" csv:"id" gorm:"primaryKey;autoIncrement"`
	RouteName     string    `json:"route_name" csv:"route_name" gorm:"index"`
	Origin        string    `json:"origin" csv:"origin"`
	Destination   string    `json:"destination" csv:"destination"`
	Date          string    `json:"date" csv:"date"`
	CheckedAt     time.Time `json:"check_timestamp" csv:"check_timestamp" gorm:"column:check_timestamp;index"`
	Available     bool      `json:"available" csv:"available"`
	Price         *float64  `json:"price" csv:"price,omitempty"`
	TrainNumber   string    `json:"train_number" csv:"train_number"`
	DepartureTime string    `json:"departure_time" csv:"departure_time"`
	ArrivalTime   string    `json:"arrival_time" csv:"arrival_time"`
}

// TableName keeps the table name stable across model renames
func (PriceHistory) TableName() string {
	return "price_history"
}
