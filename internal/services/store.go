package services

import (
	"errors"
	"time"

	"github.com/Cyvadra/farewatch/internal/config"
	"github.com/Cyvadra/farewatch/internal/models"
	"gorm.io/gorm"
)

// HistoryStore appends check results and sent alerts to the database.
// The pipeline only writes; the read helpers serve the CLI and API.
type HistoryStore struct {
	db *gorm.DB
}

// NewHistoryStore creates a new history store
func NewHistoryStore(db *gorm.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// RecordCheck saves one check result for a route
func (s *HistoryStore) RecordCheck(route config.Route, result models.CheckResult, checkedAt time.Time) error {
	record := &models.PriceHistory{
		RouteName:     route.Name,
		Origin:        route.Origin,
		Destination:   route.Destination,
		Date:          route.Date,
		CheckedAt:     checkedAt,
		Available:     result.Available,
		Price:         result.Price,
		TrainNumber:   models.OrNotAvailable(result.TrainNumber),
		DepartureTime: models.OrNotAvailable(result.DepartureTime),
		ArrivalTime:   models.OrNotAvailable(result.ArrivalTime),
	}
	return s.db.Create(record).Error
}

// RecordAlert saves the combined text of a dispatched notification batch
func (s *HistoryStore) RecordAlert(message string, sentAt time.Time) error {
	record := &models.AlertRecord{
		RouteName: models.AlertRouteMultiple,
		AlertType: models.AlertTypeCombined,
		SentAt:    sentAt,
		Details:   message,
	}
	return s.db.Create(record).Error
}

// RecentChecks retrieves the newest check results, optionally for one route
func (s *HistoryStore) RecentChecks(routeName string, limit int) ([]models.PriceHistory, error) {
	var checks []models.PriceHistory
	query := s.db.Model(&models.PriceHistory{})
	if routeName != "" {
		query = query.Where("route_name = ?", routeName)
	}
	err := query.Order("check_timestamp DESC, id DESC").
		Limit(limit).
		Find(&checks).Error
	return checks, err
}

// LatestCheck retrieves the newest check result for a route
func (s *HistoryStore) LatestCheck(routeName string) (*models.PriceHistory, error) {
	var check models.PriceHistory
	err := s.db.Where("route_name = ?", routeName).
		Order("check_timestamp DESC, id DESC").
		First(&check).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &check, nil
}

// AllChecks retrieves the full price history in insertion order
func (s *HistoryStore) AllChecks() ([]models.PriceHistory, error) {
	var checks []models.PriceHistory
	err := s.db.Order("id ASC").Find(&checks).Error
	return checks, err
}

// RecentAlerts retrieves the newest alert records
func (s *HistoryStore) RecentAlerts(limit int) ([]models.AlertRecord, error) {
	var alerts []models.AlertRecord
	err := s.db.Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}
